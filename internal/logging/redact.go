package logging

import (
	"strings"
)

// Redacted replaces secret material in logs and errors.
const Redacted = "[REDACTED]"

// Secret is a string that never prints its value.
type Secret string

// String implements fmt.Stringer.
func (s Secret) String() string {
	return Redacted
}

// GoString implements fmt.GoStringer so %#v is redacted too.
func (s Secret) GoString() string {
	return Redacted
}

// MarshalText redacts the value in structured log fields.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(Redacted), nil
}

// Redact replaces every occurrence of each non-empty secret in s.
func Redact(s string, secrets ...string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, Redacted)
	}
	return s
}
