// Package token splits cleaned message text into sentence and word tokens.
package token

import (
	"regexp"
	"strings"
)

// sentenceEndRegex marks sentence boundaries at ., ! or ? followed by
// whitespace or end of text. Cleaned pipeline text has its punctuation
// stripped already, so whole messages usually come through as a single
// sentence; the splitter still handles punctuated text correctly for
// callers outside the pipeline (the inspector shell, tests).
var sentenceEndRegex = regexp.MustCompile(`([.!?])(\s+|$)`)

// SplitSentences splits text into sentences on ./!/? boundaries, trimming
// surrounding whitespace and dropping empty fragments.
func SplitSentences(text string) []string {
	delimited := sentenceEndRegex.ReplaceAllString(text, "$1\x00")

	var sentences []string
	for _, s := range strings.Split(delimited, "\x00") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// Words splits a sentence into word tokens on whitespace.
func Words(sentence string) []string {
	return strings.Fields(sentence)
}

// Tokenize splits text into word tokens, sentence by sentence. Each
// sentence's token list is truncated to maxTokens BEFORE the sentences are
// concatenated, so a multi-sentence text can come back with more than
// maxTokens tokens in total even though no single sentence exceeds the cap.
// maxTokens <= 0 disables the cap.
func Tokenize(text string, maxTokens int) []string {
	var tokens []string
	for _, sentence := range SplitSentences(text) {
		words := Words(sentence)
		if maxTokens > 0 && len(words) > maxTokens {
			words = words[:maxTokens]
		}
		tokens = append(tokens, words...)
	}
	return tokens
}
