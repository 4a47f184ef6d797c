// Package utterance turns an ordered message corpus into (input, target)
// training pairs of token sequences.
package utterance

// Special tokens shared by the pair builder, the vocabulary mappers, and
// the tensor encoder.
const (
	// StartToken marks the beginning of a wrapped utterance, letting the
	// decoder learn where a response starts.
	StartToken = "<u>"

	// EndToken marks the end of a wrapped utterance, letting generation
	// detect when a complete response has been produced.
	EndToken = "</u>"

	// UnknownToken is the fallback vocabulary entry for out-of-vocabulary
	// tokens. It always occupies index 0 in every mapping.
	UnknownToken = "<unk>"

	// PadToken fills token sequences up to a fixed length.
	PadToken = "<pad>"
)

// Utterance is an ordered sequence of word tokens, optionally wrapped with
// start and end markers.
type Utterance = []string

// Wrap returns the utterance with the start marker prepended and the end
// marker appended. The result always has length len(u) + 2.
func Wrap(u Utterance) Utterance {
	wrapped := make(Utterance, 0, len(u)+2)
	wrapped = append(wrapped, StartToken)
	wrapped = append(wrapped, u...)
	wrapped = append(wrapped, EndToken)
	return wrapped
}

// Pad right-pads the utterance with pad tokens up to length n. Utterances
// already at or beyond n are returned unchanged.
func Pad(u Utterance, n int) Utterance {
	if len(u) >= n {
		return u
	}
	padded := make(Utterance, 0, n)
	padded = append(padded, u...)
	for len(padded) < n {
		padded = append(padded, PadToken)
	}
	return padded
}
