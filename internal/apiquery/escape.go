package apiquery

import "strings"

const upperhex = "0123456789ABCDEF"

// unreserved matches the characters a browser's encodeURIComponent leaves
// alone. Square brackets are additionally kept in keys.
func unreserved(c byte, key bool) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	case '[', ']':
		return key
	}
	return false
}

func escape(s string, key bool) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i], key) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c, key) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}
