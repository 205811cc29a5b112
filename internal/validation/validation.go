// Package validation checks field presence and the syntax of emails and URLs.
// Failures are reported as values, never panics, so batch callers can collect
// them per row.
package validation

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrMissingField marks a required field that is absent, nil or empty.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidFormat marks a value that fails a syntax check.
	ErrInvalidFormat = errors.New("invalid format")
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	urlPattern   = regexp.MustCompile(`^https?://[-\w.]+(?::[0-9]+)?(?:/\S*)?$`)
)

// FieldError ties a validation failure to the field it concerns.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingField):
		return fmt.Sprintf("Field '%s' is required", e.Field)
	case errors.Is(e.Err, ErrInvalidFormat):
		return fmt.Sprintf("Invalid %s '%s'", e.Field, e.Value)
	default:
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
}

func (e *FieldError) Unwrap() error { return e.Err }

// IsValidEmail reports whether email looks like local@domain.tld.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidURL reports whether url looks like http(s)://host[:port][/path].
func IsValidURL(url string) bool {
	return urlPattern.MatchString(url)
}

// MissingFields returns the entries of required whose value in data is
// absent, nil or the empty string, keeping the order of required.
func MissingFields(data map[string]any, required []string) []string {
	var missing []string
	for _, field := range required {
		v, ok := data[field]
		if !ok || v == nil {
			missing = append(missing, field)
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// RequiredFieldErrors is MissingFields rendered as FieldErrors.
func RequiredFieldErrors(data map[string]any, required []string) []error {
	missing := MissingFields(data, required)
	if len(missing) == 0 {
		return nil
	}
	errs := make([]error, 0, len(missing))
	for _, field := range missing {
		errs = append(errs, &FieldError{Field: field, Err: ErrMissingField})
	}
	return errs
}

// Email returns a FieldError when email is not syntactically valid.
func Email(field, email string) error {
	if IsValidEmail(email) {
		return nil
	}
	return &FieldError{Field: field, Value: email, Err: ErrInvalidFormat}
}

// URL returns a FieldError when url is not syntactically valid.
func URL(field, url string) error {
	if IsValidURL(url) {
		return nil
	}
	return &FieldError{Field: field, Value: url, Err: ErrInvalidFormat}
}
