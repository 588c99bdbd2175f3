package shared

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks an optional email address
func ValidateEmail(email, field string) error {
	if email == "" {
		return nil
	}
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return NewValidationError("invalid email address", field)
	}
	return nil
}

// MissingFields returns the names of the values that are blank after trimming,
// in the order given. Pairs are name, value.
func MissingFields(pairs ...string) []string {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	return missing
}
