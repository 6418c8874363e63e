package validation

import "regexp"

var (
	emailPattern      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	serveRestIDRegex  = regexp.MustCompile(`^[a-zA-Z0-9]{16}$`)
	personNamePattern = regexp.MustCompile(`^[\p{L}][\p{L} .'\-]*$`)
)

// ValidateEmail validates email format.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateServeRestID reports whether id has the 16 alphanumeric characters
// ServeRest uses for every resource.
func ValidateServeRestID(id string) bool {
	return serveRestIDRegex.MatchString(id)
}

// ValidatePersonName accepts letters (accents included), spaces, dots,
// apostrophes and hyphens, starting with a letter.
func ValidatePersonName(name string) bool {
	return personNamePattern.MatchString(name)
}
