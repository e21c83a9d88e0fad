package detect

import "strings"

// Turkish diacritic fold. Source category and product names arrive in mixed
// locale spellings; matching happens on the folded uppercase form.
var foldReplacer = strings.NewReplacer(
	"İ", "I", "ı", "I",
	"Ş", "S", "ş", "S",
	"Ğ", "G", "ğ", "G",
	"Ü", "U", "ü", "U",
	"Ö", "O", "ö", "O",
	"Ç", "C", "ç", "C",
)

// Fold uppercases a string after stripping Turkish diacritics, so that
// SİGARA, Sigara, and SIGARA all compare equal.
func Fold(s string) string {
	return strings.ToUpper(foldReplacer.Replace(s))
}

// containsAny reports whether the folded text contains any of the folded
// keywords. Keywords must already be in folded form.
func containsAny(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// foldAll folds every keyword in a list.
func foldAll(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = Fold(kw)
	}
	return out
}
