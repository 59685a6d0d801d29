// Package signature decides whether a file's leading bytes match the magic
// number of its declared content type. Filename extensions and declared MIME
// types are caller-supplied and untrusted; the byte prefix is not.
package signature

import "bytes"

// PrefixLength is the number of leading bytes needed to decide any signature
// in the table. Callers never need to read more than this.
const PrefixLength = 8

// signatures maps declared content types to their required leading bytes.
// This is a closed allow-list: a type absent from the table never verifies.
var signatures = map[string][]byte{
	"image/jpeg":      {0xFF, 0xD8, 0xFF},
	"image/jpg":       {0xFF, 0xD8, 0xFF},
	"image/png":       {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"application/pdf": {0x25, 0x50, 0x44, 0x46},
}

// Matches reports whether prefix starts with the signature required for
// declaredType. A short or empty prefix is simply a non-match; the function
// is deterministic and never errors.
func Matches(prefix []byte, declaredType string) bool {
	sig, ok := signatures[declaredType]
	if !ok {
		return false
	}
	if len(prefix) < len(sig) {
		return false
	}
	return bytes.Equal(prefix[:len(sig)], sig)
}
