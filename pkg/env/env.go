package env

import "os"

// Get reads an environment variable, falling back when it is unset or empty.
// Empty counts as unset so that `VAR=` in a .env file does not clobber the
// default.
func Get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
