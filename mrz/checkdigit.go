package mrz

var weights = [3]int{7, 3, 1}

// CheckDigit computes the ICAO 9303 check digit of s.
// Digits count as their value, A-Z as 10-35, every other character as 0.
func CheckDigit(s string) int {
	total := 0
	for i := 0; i < len(s); i++ {
		total += charValue(s[i]) * weights[i%3]
	}
	return total % 10
}

// CheckDigitChar is CheckDigit rendered as an ASCII digit.
func CheckDigitChar(s string) byte {
	return byte('0' + CheckDigit(s))
}

func charValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	default:
		return 0
	}
}
