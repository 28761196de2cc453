package widget

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Initials returns the upper-cased first letter of each whitespace separated
// word of role, keeping at most two.
func Initials(role string) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(role) {
		if n == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		n++
	}
	return b.String()
}

// HashCode is the 32-bit signed rolling hash h = h*31 + c over the UTF-16
// code units of s. Overflow wraps like the browser's int32 arithmetic.
func HashCode(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	return h
}

// HexColor renders the low 24 bits of h as six upper-case hex digits.
func HexColor(h int32) string {
	return fmt.Sprintf("%06X", uint32(h)&0x00FFFFFF)
}

// Gradient is the two-stop avatar background derived from a role.
type Gradient struct {
	From string
	To   string
}

// GradientFor hashes role+"1" and role+"2" into the two color stops.
func GradientFor(role string) Gradient {
	return Gradient{
		From: HexColor(HashCode(role + "1")),
		To:   HexColor(HashCode(role + "2")),
	}
}

// CSS returns the background value used on the avatar element.
func (g Gradient) CSS() string {
	return "linear-gradient(135deg, #" + g.From + ", #" + g.To + ")"
}

// rgb splits a six digit hex color into its channels.
func rgb(hex string) (r, g, b uint8) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}
