package spd

import "strings"

var diacritics = strings.NewReplacer(
	"ě", "e", "š", "s", "č", "c", "ř", "r", "ž", "z", "ý", "y", "á", "a",
	"í", "i", "é", "e", "ú", "u", "ů", "u", "ó", "o", "ť", "t", "ď", "d",
	"ľ", "l", "ň", "n", "ŕ", "r", "â", "a", "ă", "a", "ä", "a", "ĺ", "l",
	"ć", "c", "ç", "c", "ę", "e", "ë", "e", "î", "i", "ń", "n", "ô", "o",
	"ő", "o", "ö", "o", "ű", "u", "ü", "u",
	"Ě", "E", "Š", "S", "Č", "C", "Ř", "R", "Ž", "Z", "Ý", "Y", "Á", "A",
	"Í", "I", "É", "E", "Ú", "U", "Ů", "U", "Ó", "O", "Ť", "T", "Ď", "D",
	"Ľ", "L", "Ň", "N", "Ä", "A", "Ć", "C", "Ë", "E", "Ö", "O", "Ü", "U",
)

// StripDiacritics replaces the Czech, Slovak, Hungarian and German accented
// letters with their plain counterparts. Other characters are left untouched.
func StripDiacritics(s string) string {
	return diacritics.Replace(s)
}

// asciiOnly drops every rune outside the printable ASCII range.
func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < ' ' || r > '~' {
			return -1
		}
		return r
	}, s)
}
