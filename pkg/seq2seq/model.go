// Package seq2seq trains an encoder-decoder response model on one-hot
// batches produced by the encode package.
//
// The network itself is deliberately small: a dense encoder summary feeding
// a per-timestep decoder softmax. The pipeline's contract with this package
// is only the batch shape; the architecture exists to close the loop from
// export files to a fitted predictor, not to compete on model quality.
package seq2seq

import (
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/r3d91ll/spindle/pkg/errors"
)

// Model is the encoder-decoder graph and its learnable weights.
type Model struct {
	g *gorgonia.ExprGraph

	// wEnc projects the encoder bag-of-tokens summary into latent space.
	wEnc *gorgonia.Node
	// wDec projects the current decoder input token into latent space.
	wDec *gorgonia.Node
	// wOut and bOut project the latent state onto decoder vocabulary logits.
	wOut *gorgonia.Node
	bOut *gorgonia.Node

	// Placeholders fed per training step.
	encBag   *gorgonia.Node
	decIn    *gorgonia.Node
	decWant  *gorgonia.Node
	loss     *gorgonia.Node
	lossVal  gorgonia.Value
	latent   int
	encVocab int
	decVocab int
}

// NewModel builds the training graph for the given vocabulary sizes and
// latent dimension.
func NewModel(encVocab, decVocab, latentDim int) (*Model, error) {
	if encVocab <= 0 || decVocab <= 0 || latentDim <= 0 {
		return nil, errors.Newf(errors.ErrModelBuildFailed, errors.CategoryModel,
			"invalid dimensions: encoder vocab %d, decoder vocab %d, latent %d",
			encVocab, decVocab, latentDim)
	}

	g := gorgonia.NewGraph()

	m := &Model{
		g:        g,
		latent:   latentDim,
		encVocab: encVocab,
		decVocab: decVocab,
	}

	m.wEnc = gorgonia.NewMatrix(g, tensor.Float32,
		gorgonia.WithShape(encVocab, latentDim),
		gorgonia.WithName("w_enc"),
		gorgonia.WithInit(gorgonia.GlorotU(1)))
	m.wDec = gorgonia.NewMatrix(g, tensor.Float32,
		gorgonia.WithShape(decVocab, latentDim),
		gorgonia.WithName("w_dec"),
		gorgonia.WithInit(gorgonia.GlorotU(1)))
	m.wOut = gorgonia.NewMatrix(g, tensor.Float32,
		gorgonia.WithShape(latentDim, decVocab),
		gorgonia.WithName("w_out"),
		gorgonia.WithInit(gorgonia.GlorotU(1)))
	m.bOut = gorgonia.NewMatrix(g, tensor.Float32,
		gorgonia.WithShape(1, decVocab),
		gorgonia.WithName("b_out"),
		gorgonia.WithInit(gorgonia.Zeroes()))

	m.encBag = gorgonia.NewMatrix(g, tensor.Float32,
		gorgonia.WithShape(1, encVocab), gorgonia.WithName("enc_bag"))
	m.decIn = gorgonia.NewMatrix(g, tensor.Float32,
		gorgonia.WithShape(1, decVocab), gorgonia.WithName("dec_in"))
	m.decWant = gorgonia.NewMatrix(g, tensor.Float32,
		gorgonia.WithShape(1, decVocab), gorgonia.WithName("dec_want"))

	if err := m.buildForward(); err != nil {
		return nil, errors.Wrap(err, errors.ErrModelBuildFailed, errors.CategoryModel,
			"failed to build forward graph")
	}

	return m, nil
}

// buildForward wires the forward pass and the cross-entropy loss.
func (m *Model) buildForward() error {
	encProj, err := gorgonia.Mul(m.encBag, m.wEnc)
	if err != nil {
		return err
	}
	decProj, err := gorgonia.Mul(m.decIn, m.wDec)
	if err != nil {
		return err
	}
	state, err := gorgonia.Add(encProj, decProj)
	if err != nil {
		return err
	}
	hidden, err := gorgonia.Tanh(state)
	if err != nil {
		return err
	}

	logits, err := gorgonia.Mul(hidden, m.wOut)
	if err != nil {
		return err
	}
	logits, err = gorgonia.Add(logits, m.bOut)
	if err != nil {
		return err
	}

	probs, err := gorgonia.SoftMax(logits)
	if err != nil {
		return err
	}
	logProbs, err := gorgonia.Log(probs)
	if err != nil {
		return err
	}
	picked, err := gorgonia.HadamardProd(m.decWant, logProbs)
	if err != nil {
		return err
	}
	total, err := gorgonia.Sum(picked)
	if err != nil {
		return err
	}
	m.loss, err = gorgonia.Neg(total)
	if err != nil {
		return err
	}

	gorgonia.Read(m.loss, &m.lossVal)

	if _, err := gorgonia.Grad(m.loss, m.learnables()...); err != nil {
		return err
	}
	return nil
}

// learnables returns the weight nodes updated by the solver.
func (m *Model) learnables() gorgonia.Nodes {
	return gorgonia.Nodes{m.wEnc, m.wDec, m.wOut, m.bOut}
}

// LatentDim returns the latent dimension the model was built with.
func (m *Model) LatentDim() int {
	return m.latent
}

// VocabSizes returns the encoder and decoder vocabulary sizes.
func (m *Model) VocabSizes() (enc, dec int) {
	return m.encVocab, m.decVocab
}
