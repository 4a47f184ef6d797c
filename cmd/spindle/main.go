// Spindle - Chat Corpus to Training Tensors
//
// Spindle turns chat-message export trees into one-hot training tensors
// for a seq2seq response model.
//
// Stages:
//   - Corpus: load and clean exported conversations
//   - Pairs: build adjacent utterance pairs with filtering
//   - Vocab: map tokens to indices for each side of the pair
//   - Encode: one-hot tensors for encoder input, decoder input, and target
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/r3d91ll/spindle/pkg/config"
	"github.com/r3d91ll/spindle/pkg/dataset"
	"github.com/r3d91ll/spindle/pkg/pipeline"
	"github.com/r3d91ll/spindle/pkg/seq2seq"
	"github.com/r3d91ll/spindle/pkg/shell"
)

const version = "1.0.0"

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Config file path (default: ~/.config/spindle/config.yaml)")
	corpusDir := flag.String("corpus", "", "Corpus directory (overrides config)")
	initConfig := flag.Bool("init", false, "Initialize default config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	train := flag.Bool("train", false, "Train the response model after building the dataset")
	inspect := flag.Bool("inspect", false, "Open the interactive inspector after building the dataset")
	manifestPath := flag.String("manifest", "", "Write a run manifest JSON to this path")
	vocabDir := flag.String("vocab-dir", "", "Write input/target vocabularies to this directory")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Spindle %s\n", version)
		os.Exit(0)
	}

	// Determine config path
	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}

	// Initialize config if requested
	if *initConfig {
		if err := config.InitConfig(cfgPath); err != nil {
			fmt.Printf("Failed to initialize config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config initialized at: %s\n", cfgPath)
		fmt.Println("Edit this file to configure the corpus and filters.")
		os.Exit(0)
	}

	// Load config
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *corpusDir != "" {
		cfg.CorpusDir = *corpusDir
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	// Show config location
	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config: %s\n", cfgPath)
	} else {
		fmt.Printf("Config: (using defaults, run -init to create)\n")
	}
	fmt.Printf("Corpus: %s\n", cfg.CorpusDir)
	fmt.Println()

	// Build the dataset
	ds, err := pipeline.Run(cfg, pipeline.Options{ProgressWriter: os.Stderr})
	if err != nil {
		fmt.Printf("Pipeline failed: %v\n", err)
		os.Exit(1)
	}

	m := ds.Manifest()
	fmt.Printf("Run %s\n", m.ID[:8])
	fmt.Printf("  %d messages -> %d pairs\n", m.NumMessages, m.NumPairs)
	fmt.Printf("  vocabularies: %d input, %d target\n", m.InputVocabSize, m.TargetVocabSize)
	fmt.Printf("  tensor shape: (%d, %d, %d)\n", m.NumPairs, m.MaxEncoderLen, m.InputVocabSize)
	fmt.Println()

	if *manifestPath != "" {
		if err := ds.SaveManifest(*manifestPath); err != nil {
			fmt.Printf("Failed to write manifest: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Manifest written to %s\n", *manifestPath)
	}

	if *vocabDir != "" {
		if err := ds.SaveVocabularies(*vocabDir); err != nil {
			fmt.Printf("Failed to write vocabularies: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Vocabularies written to %s\n", *vocabDir)
	}

	if *train {
		if err := trainModel(cfg, ds); err != nil {
			fmt.Printf("Training failed: %v\n", err)
			os.Exit(1)
		}
	}

	if *inspect {
		if err := runInspector(ctx, cfg, ds); err != nil && err != context.Canceled {
			fmt.Printf("Inspector error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("Done.")
}

func trainModel(cfg *config.Config, ds *dataset.Dataset) error {
	model, err := seq2seq.NewModel(ds.Batch.EncoderVocab, ds.Batch.DecoderVocab, cfg.Trainer.LatentDim)
	if err != nil {
		return err
	}

	fmt.Printf("Training: %d epochs, latent %d\n", cfg.Trainer.Epochs, cfg.Trainer.LatentDim)
	return seq2seq.Train(model, ds.Batch, seq2seq.TrainConfig{
		Epochs:       cfg.Trainer.Epochs,
		LearningRate: cfg.Trainer.LearningRate,
		Report: func(epoch int, avgLoss float64) {
			fmt.Printf("  epoch %d: loss %.4f\n", epoch+1, avgLoss)
		},
	})
}

func runInspector(ctx context.Context, cfg *config.Config, ds *dataset.Dataset) error {
	homeDir, _ := os.UserHomeDir()
	historyFile := filepath.Join(homeDir, ".spindle_history")

	sh, err := shell.New(ds, cfg, shell.Config{HistoryFile: historyFile})
	if err != nil {
		return err
	}
	return sh.Run(ctx)
}
