package suite

import (
	"fmt"
	"reflect"
	"strings"

	"serverest-suite/internal/common/errors"
	commonhttp "serverest-suite/internal/common/http"
)

// Expect returns ASSERTION_FAILED with the formatted message unless cond holds.
func Expect(cond bool, format string, args ...interface{}) error {
	if cond {
		return nil
	}
	return errors.NewAssertionFailedError(format, args...)
}

func ExpectStatus(resp *commonhttp.Response, want int) error {
	return resp.ExpectStatus(want)
}

func ExpectMessage(resp *commonhttp.Response, want string) error {
	got := resp.Message()
	return Expect(got == want, "%s %s: message %q, want %q", resp.Method, resp.Path, got, want)
}

// ExpectMessageContains is the substring variant of ExpectMessage.
func ExpectMessageContains(resp *commonhttp.Response, want string) error {
	got := resp.Message()
	return Expect(strings.Contains(got, want), "%s %s: message %q does not contain %q", resp.Method, resp.Path, got, want)
}

// ExpectField compares a top-level body field. Integer expectations match
// JSON numbers.
func ExpectField(resp *commonhttp.Response, name string, want interface{}) error {
	got := resp.Field(name)
	if n, ok := want.(int); ok {
		want = float64(n)
	}
	return Expect(reflect.DeepEqual(got, want), "%s %s: field %s = %v, want %v", resp.Method, resp.Path, name, got, want)
}

func ExpectFieldPresent(resp *commonhttp.Response, name string) error {
	return Expect(resp.Field(name) != nil, "%s %s: field %s missing", resp.Method, resp.Path, name)
}

func ExpectFieldAbsent(resp *commonhttp.Response, name string) error {
	got := resp.Field(name)
	return Expect(got == nil, "%s %s: field %s should be absent, got %v", resp.Method, resp.Path, name, got)
}

// Check returns the first non-nil error.
func Check(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Step prefixes a failure with the step that produced it, keeping its code.
func Step(name string, err error) error {
	if err == nil {
		return nil
	}
	std := errors.Normalize(err)
	wrapped := *std
	wrapped.Message = fmt.Sprintf("%s: %s", name, std.Message)
	return &wrapped
}
