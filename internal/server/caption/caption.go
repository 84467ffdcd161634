// Package caption extracts hashtags and mentions from user-written text.
package caption

import (
	"strings"
	"unicode"
)

// Hashtags returns the distinct, lower-cased tags introduced by '#' in text,
// in order of first appearance. "#Sunset #sunset!" yields ["sunset"].
func Hashtags(text string) []string {
	return tokens(text, '#')
}

// Mentions returns the distinct, lower-cased handles introduced by '@'.
func Mentions(text string) []string {
	return tokens(text, '@')
}

// tokens collects every marker-led token. A marker inside a plain word
// ("c#sharp", "a@b.c") is not a token start, but one right after another
// token is, so "#sunset#beach" carries two tags.
func tokens(text string, marker rune) []string {
	var out []string
	seen := make(map[string]struct{})

	add := func(tok string) {
		tok = strings.ToLower(strings.TrimRight(tok, "."))
		if tok == "" {
			return
		}
		if _, dup := seen[tok]; dup {
			return
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		inWord := false
		for i := 0; i < len(runes); {
			if runes[i] != marker || inWord {
				inWord = isTokenRune(runes[i])
				i++
				continue
			}
			j := i + 1
			for j < len(runes) && isTokenRune(runes[j]) {
				j++
			}
			add(string(runes[i+1 : j]))
			inWord = false
			i = j
		}
	}
	return out
}

func isTokenRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
