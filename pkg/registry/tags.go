// pkg/registry/tags.go
package registry

import "strings"

// TagExpression selects scenarios by tag. A scenario matches when it carries
// at least one include (or there are none) and none of the excludes.
type TagExpression struct {
	Include []string
	Exclude []string
}

// ParseTags accepts "@tag" and "~@tag" terms, given as separate values or
// comma separated. The leading @ is optional.
func ParseTags(values ...string) TagExpression {
	var expr TagExpression
	for _, v := range values {
		for _, term := range strings.Split(v, ",") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			if strings.HasPrefix(term, "~") {
				if t := normalize(term[1:]); t != "" {
					expr.Exclude = append(expr.Exclude, t)
				}
				continue
			}
			if t := normalize(term); t != "" {
				expr.Include = append(expr.Include, t)
			}
		}
	}
	return expr
}

func (e TagExpression) Matches(tags []string) bool {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[normalize(t)] = struct{}{}
	}
	for _, t := range e.Exclude {
		if _, ok := set[t]; ok {
			return false
		}
	}
	if len(e.Include) == 0 {
		return true
	}
	for _, t := range e.Include {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

func (e TagExpression) String() string {
	terms := make([]string, 0, len(e.Include)+len(e.Exclude))
	terms = append(terms, e.Include...)
	for _, t := range e.Exclude {
		terms = append(terms, "~"+t)
	}
	return strings.Join(terms, ",")
}

func normalize(tag string) string {
	tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "@"))
	if tag == "" {
		return ""
	}
	return "@" + tag
}

func normalizeAll(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := normalize(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}
