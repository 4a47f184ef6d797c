// Package dataset describes the artifact a pipeline run produces: the
// utterance pairs, the two vocabularies, the encoded batch, and a manifest
// that records where it all came from.
package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/r3d91ll/spindle/pkg/encode"
	"github.com/r3d91ll/spindle/pkg/errors"
	"github.com/r3d91ll/spindle/pkg/utterance"
	"github.com/r3d91ll/spindle/pkg/vocab"
)

// Dataset is the output of one pipeline run.
type Dataset struct {
	// ID uniquely identifies the run.
	ID string

	// CorpusDir is the export tree the pairs were built from.
	CorpusDir string

	// CreatedAt is when the run finished building the dataset.
	CreatedAt time.Time

	// NumMessages is the number of messages loaded from the corpus.
	NumMessages int

	// Inputs and Targets are the wrapped utterance pairs, index-aligned.
	Inputs  []utterance.Utterance
	Targets []utterance.Utterance

	// InputVocab and TargetVocab map tokens for each side of the pair.
	InputVocab  *vocab.Mapper
	TargetVocab *vocab.Mapper

	// Batch holds the one-hot tensors.
	Batch *encode.Batch
}

// New creates a dataset shell for a run over the given corpus directory.
func New(corpusDir string) *Dataset {
	return &Dataset{
		ID:        uuid.New().String(),
		CorpusDir: corpusDir,
		CreatedAt: time.Now(),
	}
}

// NumPairs returns the number of utterance pairs in the dataset.
func (d *Dataset) NumPairs() int {
	return len(d.Inputs)
}

// Manifest is the JSON summary written next to a run's artifacts.
type Manifest struct {
	ID              string    `json:"id"`
	CorpusDir       string    `json:"corpus_dir"`
	CreatedAt       time.Time `json:"created_at"`
	NumMessages     int       `json:"num_messages"`
	NumPairs        int       `json:"num_pairs"`
	MaxEncoderLen   int       `json:"max_encoder_len"`
	MaxDecoderLen   int       `json:"max_decoder_len"`
	InputVocabSize  int       `json:"input_vocab_size"`
	TargetVocabSize int       `json:"target_vocab_size"`
}

// Manifest builds the summary for the dataset.
func (d *Dataset) Manifest() Manifest {
	m := Manifest{
		ID:          d.ID,
		CorpusDir:   d.CorpusDir,
		CreatedAt:   d.CreatedAt,
		NumMessages: d.NumMessages,
		NumPairs:    d.NumPairs(),
	}
	if d.Batch != nil {
		m.MaxEncoderLen = d.Batch.MaxEncoderLen
		m.MaxDecoderLen = d.Batch.MaxDecoderLen
	}
	if d.InputVocab != nil {
		m.InputVocabSize = d.InputVocab.Size()
	}
	if d.TargetVocab != nil {
		m.TargetVocabSize = d.TargetVocab.Size()
	}
	return m
}

// SaveManifest writes the manifest as indented JSON.
func (d *Dataset) SaveManifest(path string) error {
	data, err := json.MarshalIndent(d.Manifest(), "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrManifestWriteFailed, errors.CategoryIO,
			"failed to marshal manifest")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWriteFailed, errors.CategoryIO,
			"failed to create manifest directory %s", dir)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWriteFailed, errors.CategoryIO,
			"failed to write manifest %s", path)
	}
	return nil
}

// SaveVocabularies writes both mappers into dir as input_vocab.json and
// target_vocab.json.
func (d *Dataset) SaveVocabularies(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrVocabSaveFailed, errors.CategoryVocab,
			"failed to create vocabulary directory %s", dir)
	}
	if d.InputVocab != nil {
		if err := d.InputVocab.Save(filepath.Join(dir, "input_vocab.json")); err != nil {
			return err
		}
	}
	if d.TargetVocab != nil {
		if err := d.TargetVocab.Save(filepath.Join(dir, "target_vocab.json")); err != nil {
			return err
		}
	}
	return nil
}
