package util

func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func IsAsciiLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func IsUnderscore(r rune) bool {
	return r == '_'
}

// IsIdentStart reports whether r can begin a Jack identifier.
func IsIdentStart(r rune) bool {
	return IsAsciiLetter(r) || IsUnderscore(r)
}

// IsIdentPart reports whether r can continue a Jack identifier.
func IsIdentPart(r rune) bool {
	return IsAsciiLetter(r) || IsUnderscore(r) || IsDigit(r)
}

func IsSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
