package domain

// ParagraphIDLength is the exact length of a valid paragraph id.
const ParagraphIDLength = 40

// IsASCII reports whether s is non-empty and contains only ASCII bytes.
func IsASCII(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

// ValidParagraphID reports whether id is a hexadecimal string of exactly 40 characters.
func ValidParagraphID(id string) bool {
	if len(id) != ParagraphIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
