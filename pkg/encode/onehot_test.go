package encode

import (
	"testing"

	"gorgonia.org/tensor"

	"github.com/r3d91ll/spindle/pkg/utterance"
	"github.com/r3d91ll/spindle/pkg/vocab"
)

// at reads one float32 cell out of a batch tensor.
func at(t *testing.T, d interface {
	At(...int) (interface{}, error)
}, coords ...int) float32 {
	t.Helper()
	v, err := d.At(coords...)
	if err != nil {
		t.Fatalf("At(%v): %v", coords, err)
	}
	return v.(float32)
}

func buildMappers(inputs, targets []utterance.Utterance) (*vocab.Mapper, *vocab.Mapper) {
	return vocab.NewMapper(inputs, 0), vocab.NewMapper(targets, 0)
}

// TestOneHotShapes tests the three tensor shapes against the contract:
// (numPairs, maxLen, vocabSize), sized independently per side.
func TestOneHotShapes(t *testing.T) {
	inputs := []utterance.Utterance{
		utterance.Wrap([]string{"hi"}),
		utterance.Wrap([]string{"hi", "there", "friend"}),
	}
	targets := []utterance.Utterance{
		utterance.Wrap([]string{"hello"}),
		utterance.Wrap([]string{"hello", "again"}),
	}
	in, tgt := buildMappers(inputs, targets)

	b, err := OneHot(inputs, targets, in, tgt)
	if err != nil {
		t.Fatalf("OneHot: %v", err)
	}

	if b.NumPairs != 2 {
		t.Errorf("NumPairs = %d, want 2", b.NumPairs)
	}
	if b.MaxEncoderLen != 5 {
		t.Errorf("MaxEncoderLen = %d, want 5", b.MaxEncoderLen)
	}
	if b.MaxDecoderLen != 4 {
		t.Errorf("MaxDecoderLen = %d, want 4", b.MaxDecoderLen)
	}

	wantEnc := tensor.Shape{2, 5, in.Size()}
	if got := b.EncoderInput.Shape(); !got.Eq(wantEnc) {
		t.Errorf("EncoderInput shape = %v, want %v", got, wantEnc)
	}
	wantDec := tensor.Shape{2, 4, tgt.Size()}
	if got := b.DecoderInput.Shape(); !got.Eq(wantDec) {
		t.Errorf("DecoderInput shape = %v, want %v", got, wantDec)
	}
	if got := b.DecoderTarget.Shape(); !got.Eq(wantDec) {
		t.Errorf("DecoderTarget shape = %v, want %v", got, wantDec)
	}
}

// TestOneHotEncoderCells tests that exactly the right cells light up for
// the encoder input.
func TestOneHotEncoderCells(t *testing.T) {
	inputs := []utterance.Utterance{utterance.Wrap([]string{"hi"})}
	targets := []utterance.Utterance{utterance.Wrap([]string{"yo"})}
	in, tgt := buildMappers(inputs, targets)

	b, err := OneHot(inputs, targets, in, tgt)
	if err != nil {
		t.Fatalf("OneHot: %v", err)
	}

	// inputs[0] is [<u> hi </u>].
	wrapped := inputs[0]
	for j, tok := range wrapped {
		if got := at(t, b.EncoderInput, 0, j, in.Index(tok)); got != 1 {
			t.Errorf("EncoderInput[0][%d][%d] = %v, want 1", j, in.Index(tok), got)
		}
	}

	// Every row sums to exactly one.
	for j := 0; j < b.MaxEncoderLen; j++ {
		var sum float32
		for k := 0; k < b.EncoderVocab; k++ {
			sum += at(t, b.EncoderInput, 0, j, k)
		}
		if sum != 1 {
			t.Errorf("EncoderInput row %d sums to %v, want 1", j, sum)
		}
	}
}

// TestOneHotDecoderTargetShift tests the time shift: the decoder target at
// position k-1 equals the decoder input at position k, and the start marker
// never appears in the targets.
func TestOneHotDecoderTargetShift(t *testing.T) {
	inputs := []utterance.Utterance{utterance.Wrap([]string{"q"})}
	targets := []utterance.Utterance{utterance.Wrap([]string{"a", "b"})}
	in, tgt := buildMappers(inputs, targets)

	b, err := OneHot(inputs, targets, in, tgt)
	if err != nil {
		t.Fatalf("OneHot: %v", err)
	}

	wrapped := targets[0] // [<u> a b </u>]
	for k := 1; k < len(wrapped); k++ {
		idx := tgt.Index(wrapped[k])
		if got := at(t, b.DecoderTarget, 0, k-1, idx); got != 1 {
			t.Errorf("DecoderTarget[0][%d][%d] = %v, want 1", k-1, idx, got)
		}
	}

	// The start marker position is dropped: no cell in the target should
	// carry the start marker's index.
	startIdx := tgt.Index(utterance.StartToken)
	for k := 0; k < b.MaxDecoderLen; k++ {
		if got := at(t, b.DecoderTarget, 0, k, startIdx); got != 0 {
			t.Errorf("DecoderTarget[0][%d] carries the start marker", k)
		}
	}

	// The last target row (beyond the shifted sequence) stays zero.
	last := b.MaxDecoderLen - 1
	for k := 0; k < b.DecoderVocab; k++ {
		if got := at(t, b.DecoderTarget, 0, last, k); got != 0 {
			t.Errorf("DecoderTarget[0][%d][%d] = %v, want 0", last, k, got)
		}
	}
}

// TestOneHotUnknownToken tests that out-of-vocabulary tokens light up the
// reserved unknown index.
func TestOneHotUnknownToken(t *testing.T) {
	inputs := []utterance.Utterance{utterance.Wrap([]string{"known"})}
	targets := []utterance.Utterance{utterance.Wrap([]string{"known"})}
	in, tgt := buildMappers(inputs, targets)

	// Encode a different pair set containing a token neither mapper has.
	novel := []utterance.Utterance{utterance.Wrap([]string{"martian"})}
	b, err := OneHot(novel, novel, in, tgt)
	if err != nil {
		t.Fatalf("OneHot: %v", err)
	}

	// Position 1 is "martian": unknown, index 0.
	if got := at(t, b.EncoderInput, 0, 1, 0); got != 1 {
		t.Errorf("unknown token cell = %v, want 1 at index 0", got)
	}
}

// TestOneHotPadding tests that positions past a short utterance's length
// stay all zero.
func TestOneHotPadding(t *testing.T) {
	inputs := []utterance.Utterance{
		utterance.Wrap([]string{"short"}),
		utterance.Wrap([]string{"a", "much", "longer", "utterance"}),
	}
	targets := []utterance.Utterance{
		utterance.Wrap([]string{"x"}),
		utterance.Wrap([]string{"y"}),
	}
	in, tgt := buildMappers(inputs, targets)

	b, err := OneHot(inputs, targets, in, tgt)
	if err != nil {
		t.Fatalf("OneHot: %v", err)
	}

	// Pair 0's input is 3 tokens long; rows 3..MaxEncoderLen-1 are zero.
	for j := 3; j < b.MaxEncoderLen; j++ {
		for k := 0; k < b.EncoderVocab; k++ {
			if got := at(t, b.EncoderInput, 0, j, k); got != 0 {
				t.Fatalf("padding cell [0][%d][%d] = %v, want 0", j, k, got)
			}
		}
	}
}

// TestOneHotMismatchedLengths tests the shape-mismatch error.
func TestOneHotMismatchedLengths(t *testing.T) {
	inputs := []utterance.Utterance{utterance.Wrap([]string{"a"})}
	var targets []utterance.Utterance
	in, tgt := buildMappers(inputs, inputs)

	if _, err := OneHot(inputs, targets, in, tgt); err == nil {
		t.Error("expected error for mismatched input/target counts")
	}
}

// TestOneHotEmpty tests that an empty pair set encodes to an empty batch.
func TestOneHotEmpty(t *testing.T) {
	in, tgt := buildMappers(nil, nil)

	b, err := OneHot(nil, nil, in, tgt)
	if err != nil {
		t.Fatalf("OneHot: %v", err)
	}
	if b.NumPairs != 0 || b.EncoderInput != nil {
		t.Errorf("empty batch = %+v, want zero pairs and nil tensors", b)
	}
}
