// Package encode converts token-sequence pairs into the fixed-shape one-hot
// tensors consumed by the seq2seq trainer.
package encode

import (
	"gorgonia.org/tensor"

	"github.com/r3d91ll/spindle/pkg/errors"
	"github.com/r3d91ll/spindle/pkg/utterance"
	"github.com/r3d91ll/spindle/pkg/vocab"
)

// Batch holds the three dense one-hot tensors for a pair set.
//
// EncoderInput has shape (numPairs, maxEncoderLen, encoderVocab).
// DecoderInput and DecoderTarget have shape (numPairs, maxDecoderLen,
// decoderVocab); DecoderTarget is DecoderInput time-shifted left by one
// position, so the leading start marker drops out of the targets.
// Positions past an utterance's length are all zero.
type Batch struct {
	EncoderInput  *tensor.Dense
	DecoderInput  *tensor.Dense
	DecoderTarget *tensor.Dense

	// NumPairs is the number of (input, target) examples in the batch.
	NumPairs int

	// MaxEncoderLen and MaxDecoderLen are the longest input and target
	// utterance lengths observed, which size the time dimensions.
	MaxEncoderLen int
	MaxDecoderLen int

	// EncoderVocab and DecoderVocab are the per-side vocabulary sizes,
	// which size the one-hot dimension.
	EncoderVocab int
	DecoderVocab int
}

// OneHot one-hot encodes the pair set against its two vocabulary mappers.
// Tokens outside a mapping light up the reserved unknown index 0. The input
// and target lists must have equal length.
func OneHot(inputs, targets []utterance.Utterance, in, tgt *vocab.Mapper) (*Batch, error) {
	if len(inputs) != len(targets) {
		return nil, errors.Newf(errors.ErrTensorShapeMismatch, errors.CategoryTensor,
			"got %d inputs but %d targets", len(inputs), len(targets))
	}

	b := &Batch{
		NumPairs:      len(inputs),
		MaxEncoderLen: maxLen(inputs),
		MaxDecoderLen: maxLen(targets),
		EncoderVocab:  in.Size(),
		DecoderVocab:  tgt.Size(),
	}
	if b.NumPairs == 0 {
		// Nothing to encode; the tensors stay nil and the trainer has no
		// work to do.
		return b, nil
	}

	encData := make([]float32, b.NumPairs*b.MaxEncoderLen*b.EncoderVocab)
	decData := make([]float32, b.NumPairs*b.MaxDecoderLen*b.DecoderVocab)
	tgtData := make([]float32, b.NumPairs*b.MaxDecoderLen*b.DecoderVocab)

	for i := range inputs {
		for j, tok := range inputs[i] {
			encData[(i*b.MaxEncoderLen+j)*b.EncoderVocab+in.Index(tok)] = 1
		}

		for k, tok := range targets[i] {
			idx := tgt.Index(tok)
			decData[(i*b.MaxDecoderLen+k)*b.DecoderVocab+idx] = 1

			if k > 0 {
				// The decoder target is the decoder input shifted one step
				// left, dropping the start marker at position 0.
				tgtData[(i*b.MaxDecoderLen+k-1)*b.DecoderVocab+idx] = 1
			}
		}
	}

	b.EncoderInput = tensor.New(
		tensor.WithShape(b.NumPairs, b.MaxEncoderLen, b.EncoderVocab),
		tensor.WithBacking(encData),
	)
	b.DecoderInput = tensor.New(
		tensor.WithShape(b.NumPairs, b.MaxDecoderLen, b.DecoderVocab),
		tensor.WithBacking(decData),
	)
	b.DecoderTarget = tensor.New(
		tensor.WithShape(b.NumPairs, b.MaxDecoderLen, b.DecoderVocab),
		tensor.WithBacking(tgtData),
	)

	return b, nil
}

// maxLen returns the longest utterance length in the set.
func maxLen(utterances []utterance.Utterance) int {
	longest := 0
	for _, u := range utterances {
		if len(u) > longest {
			longest = len(u)
		}
	}
	return longest
}
