// Package pipeline runs the full dataset build: load and clean the corpus,
// pair adjacent utterances, map vocabularies, and encode one-hot tensors.
package pipeline

import (
	"io"

	"github.com/r3d91ll/spindle/pkg/config"
	"github.com/r3d91ll/spindle/pkg/corpus"
	"github.com/r3d91ll/spindle/pkg/dataset"
	"github.com/r3d91ll/spindle/pkg/encode"
	"github.com/r3d91ll/spindle/pkg/progress"
	"github.com/r3d91ll/spindle/pkg/utterance"
	"github.com/r3d91ll/spindle/pkg/vocab"
)

// Options tunes a pipeline run beyond the configuration itself.
type Options struct {
	// ProgressWriter receives progress output. nil disables progress
	// reporting entirely (useful in tests).
	ProgressWriter io.Writer
}

// Run builds a dataset from the configured corpus. Any error is fatal to
// the run; partial datasets are never returned.
func Run(cfg *config.Config, opts Options) (*dataset.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := dataset.New(cfg.CorpusDir)

	messages, err := loadCorpus(cfg.CorpusDir, opts.ProgressWriter)
	if err != nil {
		return nil, err
	}
	d.NumMessages = len(messages)

	d.Inputs, d.Targets = utterance.BuildPairs(messages, utterance.Options{
		MaxPairs:             cfg.MaxNumUtterances,
		MaxTokensPerSentence: cfg.MaxNumTokens,
		Verify:               cfg.VerifyUtterances,
		TargetUser:           cfg.TargetUser,
		RemoveSelfReplies:    cfg.RemoveSelfReplies,
	})

	// Each side of the pair gets its own vocabulary, built only from the
	// utterances that survived filtering.
	d.InputVocab = vocab.NewMapper(d.Inputs, cfg.MaxVocabularySize)
	d.TargetVocab = vocab.NewMapper(d.Targets, cfg.MaxVocabularySize)

	d.Batch, err = encode.OneHot(d.Inputs, d.Targets, d.InputVocab, d.TargetVocab)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// loadCorpus loads messages, drawing a progress bar when a writer is given.
func loadCorpus(dir string, w io.Writer) ([]corpus.Message, error) {
	if w == nil {
		return corpus.Load(dir)
	}

	var bar *progress.Bar
	messages, err := corpus.LoadWithProgress(dir, func(path string, index, total int) {
		if bar == nil {
			bar = progress.New(progress.Config{
				Total:     total,
				Message:   "Loading exports",
				ShowCount: true,
				Writer:    w,
			})
		}
		bar.Set(index + 1)
	})
	if err != nil {
		return nil, err
	}
	if bar != nil {
		bar.Finish()
	}
	return messages, nil
}
