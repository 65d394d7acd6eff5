package bayes

import (
	"strings"
	"unicode"
)

// Tokens splits an object name into lower-case words.
// Separators are any non letter or digit rune; camelCase and
// ACRONYMWord boundaries also split.
func Tokens(text string) []string {
	var tokens []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(text)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && len(cur) > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return tokens
}

// Features returns the word and character trigram features of a name.
func Features(text string) []string {
	words := Tokens(text)
	if len(words) == 0 {
		return nil
	}

	features := make([]string, 0, len(words)*4)
	for _, w := range words {
		features = append(features, "w:"+w)
	}

	padded := []rune("^" + strings.Join(words, " ") + "$")
	for i := 0; i+3 <= len(padded); i++ {
		features = append(features, "c:"+string(padded[i:i+3]))
	}
	return features
}
