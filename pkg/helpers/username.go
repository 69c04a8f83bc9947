package helpers

import "regexp"

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ValidUsername reports whether s can be used as a username. Usernames double
// as storage prefixes, so path separators and dot-only names are excluded.
func ValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}
