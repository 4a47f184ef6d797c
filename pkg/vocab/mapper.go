// Package vocab builds bidirectional token-to-index mappings from a token
// corpus.
//
// Index 0 is reserved for the unknown-token symbol in every mapping: a
// lookup of a token outside the retained vocabulary returns 0 rather than
// failing, and index 0 always maps back to the unknown symbol. All other
// indices are dense integers assigned from 1 upward in selection order.
package vocab

import (
	"sort"

	"github.com/r3d91ll/spindle/pkg/utterance"
)

// Mapper holds the two inverse mappings between tokens and indices.
// It is built once from a finalized corpus; Add extends it append-only.
type Mapper struct {
	tokenToIndex map[string]int
	indexToToken map[int]string
}

// Build constructs a Mapper from a token corpus. Token frequency is counted
// across every utterance; if maxSize > 0 only the maxSize most frequent
// tokens are retained, ties broken by first encounter. With maxSize <= 0
// every distinct token is retained in first-encounter order. Either way the
// selection order is deterministic, so repeated builds over the same corpus
// produce identical mappings.
func Build(corpus []utterance.Utterance, maxSize int) *Mapper {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for _, u := range corpus {
		for _, tok := range u {
			if _, seen := counts[tok]; !seen {
				firstSeen[tok] = len(order)
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	selected := order
	if maxSize > 0 {
		selected = append([]string(nil), order...)
		sort.SliceStable(selected, func(i, j int) bool {
			ci, cj := counts[selected[i]], counts[selected[j]]
			if ci != cj {
				return ci > cj
			}
			return firstSeen[selected[i]] < firstSeen[selected[j]]
		})
		if len(selected) > maxSize {
			selected = selected[:maxSize]
		}
	}

	m := &Mapper{
		tokenToIndex: make(map[string]int, len(selected)+1),
		indexToToken: make(map[int]string, len(selected)+1),
	}
	m.tokenToIndex[utterance.UnknownToken] = 0
	m.indexToToken[0] = utterance.UnknownToken

	for _, tok := range selected {
		if tok == utterance.UnknownToken {
			continue
		}
		i := len(m.indexToToken)
		m.tokenToIndex[tok] = i
		m.indexToToken[i] = tok
	}

	return m
}

// NewMapper builds a Mapper from the corpus and then adds the start, end,
// and unknown markers, guaranteeing the special tokens occupy valid indices
// even when the frequency cap would have excluded them.
func NewMapper(corpus []utterance.Utterance, maxSize int) *Mapper {
	m := Build(corpus, maxSize)
	for _, tok := range []string{utterance.StartToken, utterance.EndToken, utterance.UnknownToken} {
		m.Add(tok)
	}
	return m
}

// Add inserts a token with the next unused index. Adding a token that is
// already present is a no-op, so Add is idempotent.
func (m *Mapper) Add(tok string) {
	if _, ok := m.tokenToIndex[tok]; ok {
		return
	}
	i := len(m.indexToToken)
	m.tokenToIndex[tok] = i
	m.indexToToken[i] = tok
}

// Index returns the index for a token, or 0 (the unknown index) for any
// token outside the mapping. It never fails.
func (m *Mapper) Index(tok string) int {
	if i, ok := m.tokenToIndex[tok]; ok {
		return i
	}
	return 0
}

// Token returns the token at an index, or the unknown symbol for any index
// outside the mapping.
func (m *Mapper) Token(i int) string {
	if tok, ok := m.indexToToken[i]; ok {
		return tok
	}
	return utterance.UnknownToken
}

// Contains reports whether the token is present in the mapping.
func (m *Mapper) Contains(tok string) bool {
	_, ok := m.tokenToIndex[tok]
	return ok
}

// Size returns the number of distinct indices in the mapping, including
// the reserved unknown index.
func (m *Mapper) Size() int {
	return len(m.indexToToken)
}

// Tokens returns all mapped tokens in index order.
func (m *Mapper) Tokens() []string {
	tokens := make([]string, len(m.indexToToken))
	for i := range tokens {
		tokens[i] = m.indexToToken[i]
	}
	return tokens
}
