package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// keywords maps reserved words to their kinds.
//
//nolint:gochecknoglobals
var keywords = map[string]Kind{
	"action": Action,
	"Any":    AnyType,
	"bool":   BoolType,
	"else":   Else,
	"False":  BoolValue,
	"flt":    FloatType,
	"if":     If,
	"int":    IntType,
	"model":  Model,
	"None":   None,
	"return": Return,
	"str":    StrType,
	"True":   BoolValue,
}

// Keywords returns the reserved words of the language in no particular order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}

	return words
}

// Lookup returns the keyword kind of word and whether it is reserved.
func Lookup(word string) (Kind, bool) {
	kind, ok := keywords[word]

	return kind, ok
}

// Classify returns the kind of a word made of letters, digits, and
// underscores. Reserved words map to their keyword kinds. Otherwise the
// spelling alone decides:
//
//	digits only              → IntValue
//	all lowercase            → Variable   (snake_case)
//	all uppercase            → Constant   (SCREAMING_CASE)
//	mixed case with '_'      → Illegal
//	leading uppercase        → Identifier (PascalCase)
//	anything else            → Illegal
func Classify(word string) Kind {
	if kind, ok := keywords[word]; ok {
		return kind
	}

	if word == "" || !isWord(word) {
		return Illegal
	}

	switch {
	case isNumeric(word):
		return IntValue
	case strings.ToLower(word) == word:
		return Variable
	case strings.ToUpper(word) == word:
		return Constant
	case strings.ContainsRune(word, '_'):
		return Illegal
	}

	if r, _ := utf8.DecodeRuneInString(word); unicode.IsUpper(r) {
		return Identifier
	}

	return Illegal
}

// IsWordRune reports whether r may appear in a keyword or name.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool { return '0' <= r && r <= '9' }

func isWord(s string) bool {
	for _, r := range s {
		if !IsWordRune(r) {
			return false
		}
	}

	return true
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !IsDigit(r) {
			return false
		}
	}

	return true
}
