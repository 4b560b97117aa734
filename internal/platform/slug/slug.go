package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// Make folds a label into a lowercase ASCII tag: "Śamatha Practice" becomes
// "samatha-practice". Blank or symbol-only input yields "".
func Make(input string) string {
	s := strings.TrimSpace(input)
	if folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s); err == nil {
		s = folded
	}
	s = nonAlphaNum.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
