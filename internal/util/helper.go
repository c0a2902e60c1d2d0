package util

import (
	"strings"
	"unicode"
)

// CloneSlice clones slice with cloneSize.
// This function will use src length as the clone size if cloneSize is 0.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}

// IsASCII reports whether s only contains 7-bit ASCII bytes.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}

	return true
}

// ReplaceNonASCII replaces every byte above 0x7F with the Unicode replacement character.
// It returns s unchanged when s is pure ASCII.
func ReplaceNonASCII(s string) string {
	if IsASCII(s) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			sb.WriteRune(unicode.ReplacementChar)
			continue
		}
		sb.WriteByte(s[i])
	}

	return sb.String()
}
