package domain

import "strings"

// Identity is an authenticated caller identity supplied by the transport
// layer. Equality comparison is the sole authorization primitive.
type Identity string

// IsZero reports whether the identity is empty after trimming.
func (i Identity) IsZero() bool {
	return strings.TrimSpace(string(i)) == ""
}
