// Package shell provides the interactive dataset inspector for Spindle.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/r3d91ll/spindle/pkg/config"
	"github.com/r3d91ll/spindle/pkg/dataset"
	"github.com/r3d91ll/spindle/pkg/textclean"
	"github.com/r3d91ll/spindle/pkg/token"
	"github.com/r3d91ll/spindle/pkg/utterance"
)

// Shell is the interactive command-line interface over a built dataset.
type Shell struct {
	ds  *dataset.Dataset
	cfg *config.Config
	rl  *readline.Instance
	out io.Writer
}

// Config holds shell configuration.
type Config struct {
	HistoryFile string
}

// New creates a new interactive shell over the dataset.
func New(ds *dataset.Dataset, cfg *config.Config, shellCfg Config) (*Shell, error) {
	completer := NewShellCompleter(ds)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mspindle>\033[0m ",
		HistoryFile:     shellCfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		return nil, err
	}

	return &Shell{
		ds:  ds,
		cfg: cfg,
		rl:  rl,
		out: os.Stdout,
	}, nil
}

// Run starts the interactive loop.
func (s *Shell) Run(ctx context.Context) error {
	defer s.rl.Close()

	fmt.Fprintln(s.out, "Type text to see how the pipeline tokenizes and encodes it.")
	fmt.Fprintln(s.out, "Commands: /stats, /pair, /vocab, /index, /token, /help, /quit")
	fmt.Fprintln(s.out)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if err := s.handleCommand(line); err != nil {
				if err == errQuit {
					return nil
				}
				fmt.Fprintf(s.out, "Error: %v\n", err)
			}
			continue
		}

		if err := s.handleText(line); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

var errQuit = fmt.Errorf("quit")

func (s *Shell) handleCommand(line string) error {
	parts := strings.Fields(line)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit", "/q":
		return errQuit

	case "/help", "/h":
		s.printHelp()

	case "/stats":
		s.printStats()

	case "/pair":
		return s.handlePair(parts[1:])

	case "/vocab":
		return s.handleVocab(parts[1:])

	case "/index":
		return s.handleIndex(parts[1:])

	case "/token":
		return s.handleToken(parts[1:])

	default:
		fmt.Fprintf(s.out, "Unknown command: %s\n", cmd)
	}

	return nil
}

// handleText runs a raw line through the same clean/tokenize/wrap path the
// pipeline uses, then shows the input-vocabulary indices.
func (s *Shell) handleText(line string) error {
	cleaned, err := textclean.Clean(line)
	if err != nil {
		return err
	}
	tokens := token.Tokenize(cleaned, s.cfg.MaxNumTokens)
	wrapped := utterance.Wrap(tokens)

	fmt.Fprintf(s.out, "cleaned: %s\n", cleaned)
	fmt.Fprintf(s.out, "tokens:  %s\n", strings.Join(wrapped, " "))

	if s.ds.InputVocab != nil {
		indices := make([]string, len(wrapped))
		for i, tok := range wrapped {
			indices[i] = strconv.Itoa(s.ds.InputVocab.Index(tok))
		}
		fmt.Fprintf(s.out, "indices: %s\n", strings.Join(indices, " "))
	}

	fmt.Fprintln(s.out)
	return nil
}

func (s *Shell) handlePair(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: /pair <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("pair number must be an integer, got %q", args[0])
	}
	if n < 0 || n >= s.ds.NumPairs() {
		return fmt.Errorf("pair %d out of range [0, %d)", n, s.ds.NumPairs())
	}

	fmt.Fprintf(s.out, "input:  %s\n", strings.Join(s.ds.Inputs[n], " "))
	fmt.Fprintf(s.out, "target: %s\n", strings.Join(s.ds.Targets[n], " "))
	fmt.Fprintln(s.out)
	return nil
}

func (s *Shell) handleVocab(args []string) error {
	limit := 20
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("limit must be an integer, got %q", args[0])
		}
		limit = n
	}
	if s.ds.InputVocab == nil {
		return fmt.Errorf("dataset has no input vocabulary")
	}

	tokens := s.ds.InputVocab.Tokens()
	if limit > 0 && limit < len(tokens) {
		tokens = tokens[:limit]
	}
	for i, tok := range tokens {
		fmt.Fprintf(s.out, "  %4d  %s\n", i, tok)
	}
	fmt.Fprintf(s.out, "(%d of %d tokens)\n\n", len(tokens), s.ds.InputVocab.Size())
	return nil
}

func (s *Shell) handleIndex(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: /index <token>")
	}
	if s.ds.InputVocab == nil {
		return fmt.Errorf("dataset has no input vocabulary")
	}

	tok := args[0]
	idx := s.ds.InputVocab.Index(tok)
	if idx == 0 && tok != utterance.UnknownToken && !s.ds.InputVocab.Contains(tok) {
		fmt.Fprintf(s.out, "%s -> 0 (not in vocabulary, maps to %s)\n\n", tok, utterance.UnknownToken)
		return nil
	}
	fmt.Fprintf(s.out, "%s -> %d\n\n", tok, idx)
	return nil
}

func (s *Shell) handleToken(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: /token <index>")
	}
	if s.ds.InputVocab == nil {
		return fmt.Errorf("dataset has no input vocabulary")
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("index must be an integer, got %q", args[0])
	}
	fmt.Fprintf(s.out, "%d -> %s\n\n", n, s.ds.InputVocab.Token(n))
	return nil
}

func (s *Shell) printStats() {
	m := s.ds.Manifest()

	fmt.Fprintf(s.out, "Run %s\n", m.ID)
	fmt.Fprintf(s.out, "  corpus:       %s\n", m.CorpusDir)
	fmt.Fprintf(s.out, "  messages:     %d\n", m.NumMessages)
	fmt.Fprintf(s.out, "  pairs:        %d\n", m.NumPairs)
	fmt.Fprintf(s.out, "  encoder len:  %d\n", m.MaxEncoderLen)
	fmt.Fprintf(s.out, "  decoder len:  %d\n", m.MaxDecoderLen)
	fmt.Fprintf(s.out, "  input vocab:  %d\n", m.InputVocabSize)
	fmt.Fprintf(s.out, "  target vocab: %d\n", m.TargetVocabSize)

	if s.ds.Batch != nil && s.ds.Batch.EncoderInput != nil {
		fmt.Fprintf(s.out, "  tensors:      %v / %v / %v\n",
			s.ds.Batch.EncoderInput.Shape(),
			s.ds.Batch.DecoderInput.Shape(),
			s.ds.Batch.DecoderTarget.Shape())
	}
	fmt.Fprintln(s.out)
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  /stats           - Show dataset summary")
	fmt.Fprintln(s.out, "  /pair <n>        - Show utterance pair n")
	fmt.Fprintln(s.out, "  /vocab [n]       - List the first n vocabulary tokens (default 20)")
	fmt.Fprintln(s.out, "  /index <token>   - Look up a token's vocabulary index")
	fmt.Fprintln(s.out, "  /token <index>   - Look up the token at an index")
	fmt.Fprintln(s.out, "  /help            - Show this help")
	fmt.Fprintln(s.out, "  /quit            - Exit")
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Any other input is cleaned, tokenized, and encoded the way the")
	fmt.Fprintln(s.out, "pipeline would process it.")
	fmt.Fprintln(s.out)
}
