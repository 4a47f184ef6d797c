package seq2seq

import (
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/r3d91ll/spindle/pkg/encode"
	"github.com/r3d91ll/spindle/pkg/errors"
)

// TrainConfig holds trainer hyperparameters.
type TrainConfig struct {
	// Epochs is the number of passes over the batch.
	Epochs int

	// LearningRate feeds the Adam solver.
	LearningRate float64

	// Report, when set, is called after every epoch with the average
	// per-step loss.
	Report func(epoch int, avgLoss float64)
}

// Train fits the model to the batch. For every pair, every decoder timestep
// with a target row becomes one optimization step: the encoder sees the
// input utterance's token-bag summary, the decoder sees the current target
// token, and the loss is the cross-entropy against the next one.
func Train(m *Model, b *encode.Batch, cfg TrainConfig) error {
	if b.NumPairs == 0 {
		return nil
	}
	if b.EncoderVocab != m.encVocab || b.DecoderVocab != m.decVocab {
		return errors.Newf(errors.ErrModelTrainFailed, errors.CategoryModel,
			"batch vocabularies (%d, %d) do not match model (%d, %d)",
			b.EncoderVocab, b.DecoderVocab, m.encVocab, m.decVocab)
	}

	vm := gorgonia.NewTapeMachine(m.g, gorgonia.BindDualValues(m.learnables()...))
	defer vm.Close()

	solver := gorgonia.NewAdamSolver(gorgonia.WithLearnRate(cfg.LearningRate))

	encData := b.EncoderInput.Data().([]float32)
	decData := b.DecoderInput.Data().([]float32)
	tgtData := b.DecoderTarget.Data().([]float32)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		var totalLoss float64
		var steps int

		for i := 0; i < b.NumPairs; i++ {
			bag := encoderBag(encData, i, b.MaxEncoderLen, b.EncoderVocab)

			for k := 0; k < b.MaxDecoderLen; k++ {
				target := row(tgtData, i*b.MaxDecoderLen+k, b.DecoderVocab)
				if isZero(target) {
					// Past the end of this utterance's shifted targets.
					break
				}
				decIn := row(decData, i*b.MaxDecoderLen+k, b.DecoderVocab)

				if err := m.step(vm, solver, bag, decIn, target); err != nil {
					return errors.Wrapf(err, errors.ErrModelTrainFailed, errors.CategoryModel,
						"training step failed at epoch %d, pair %d, position %d", epoch, i, k)
				}

				totalLoss += m.lastLoss()
				steps++
			}
		}

		if cfg.Report != nil && steps > 0 {
			cfg.Report(epoch, totalLoss/float64(steps))
		}
	}

	return nil
}

// step runs one forward/backward pass and applies the solver update.
func (m *Model) step(vm gorgonia.VM, solver gorgonia.Solver, bag, decIn, target []float32) error {
	if err := gorgonia.Let(m.encBag, matrixOf(bag)); err != nil {
		return err
	}
	if err := gorgonia.Let(m.decIn, matrixOf(decIn)); err != nil {
		return err
	}
	if err := gorgonia.Let(m.decWant, matrixOf(target)); err != nil {
		return err
	}

	vm.Reset()
	if err := vm.RunAll(); err != nil {
		return err
	}

	return solver.Step(gorgonia.NodesToValueGrads(m.learnables()))
}

// lastLoss extracts the scalar loss from the most recent step.
func (m *Model) lastLoss() float64 {
	if m.lossVal == nil {
		return 0
	}
	switch v := m.lossVal.Data().(type) {
	case float32:
		return float64(v)
	case []float32:
		if len(v) > 0 {
			return float64(v[0])
		}
	}
	return 0
}

// matrixOf wraps a vocabulary-sized row as a (1, len) tensor for Let.
func matrixOf(row []float32) tensor.Tensor {
	return tensor.New(tensor.WithShape(1, len(row)), tensor.WithBacking(row))
}

// encoderBag sums the one-hot rows of pair i over time and normalizes by
// the number of occupied positions, producing a bag-of-tokens summary.
func encoderBag(encData []float32, i, maxLen, vocabSize int) []float32 {
	bag := make([]float32, vocabSize)
	var occupied float32

	for j := 0; j < maxLen; j++ {
		r := row(encData, i*maxLen+j, vocabSize)
		if isZero(r) {
			break
		}
		occupied++
		for k, v := range r {
			bag[k] += v
		}
	}

	if occupied > 0 {
		for k := range bag {
			bag[k] /= occupied
		}
	}
	return bag
}

// row slices row n out of flattened (rows, width) data.
func row(data []float32, n, width int) []float32 {
	return data[n*width : (n+1)*width]
}

// isZero reports whether every cell of the row is zero.
func isZero(row []float32) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}
	return true
}
