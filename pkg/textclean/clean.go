// Package textclean normalizes raw message text from chat export archives.
//
// Exports encode their UTF-8 content incorrectly: the writer serialized the
// UTF-8 bytes as if each byte were a Latin-1 code point. Clean undoes that
// mojibake by reinterpreting every code point as a single byte and decoding
// the result as UTF-8 again, then lowercases the text, strips ASCII
// punctuation, and folds newlines into spaces.
package textclean

import (
	"strings"
	"unicode/utf8"

	"github.com/r3d91ll/spindle/pkg/errors"
)

// asciiPunctuation is the set of characters removed from cleaned text.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Clean normalizes raw export text.
//
// Steps, in order: re-decode the Latin-1 mojibake as UTF-8, lowercase,
// remove ASCII punctuation, replace newlines with single spaces. Clean is a
// pure function and is idempotent on text that is already plain ASCII.
//
// A code point above U+00FF cannot have come from a Latin-1 byte and fails
// with ENCODING_NOT_LATIN1; a reinterpreted byte sequence that is not valid
// UTF-8 fails with ENCODING_NOT_UTF8. Both are fatal to the run.
func Clean(raw string) (string, error) {
	fixed, err := fixEncoding(raw)
	if err != nil {
		return "", err
	}

	cleaned := strings.ToLower(fixed)
	cleaned = stripPunctuation(cleaned)
	cleaned = strings.ReplaceAll(cleaned, "\n", " ")

	return cleaned, nil
}

// fixEncoding reinterprets each code point as a Latin-1 byte and decodes the
// byte sequence as UTF-8.
func fixEncoding(s string) (string, error) {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return "", errors.Newf(errors.ErrEncodingNotLatin1, errors.CategoryEncoding,
				"rune %q is outside the Latin-1 range", r)
		}
		buf = append(buf, byte(r))
	}

	if !utf8.Valid(buf) {
		return "", errors.New(errors.ErrEncodingNotUTF8, errors.CategoryEncoding,
			"reinterpreted text is not valid UTF-8")
	}

	return string(buf), nil
}

// stripPunctuation removes every ASCII punctuation character.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, s)
}
