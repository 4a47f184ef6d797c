// Package config handles Spindle pipeline configuration loading.
//
// Configuration is resolved once at startup - YAML file, then environment
// overrides - and handed to the pipeline as an immutable value, so repeated
// runs and tests can vary options freely.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/r3d91ll/spindle/pkg/errors"
)

// Config is the root configuration structure.
type Config struct {
	// CorpusDir is the root of the export directory tree.
	CorpusDir string `yaml:"corpus_dir"`

	// MaxNumTokens caps tokens per sentence. Sentences are truncated to
	// this length, and verified utterances must fit within it in total.
	MaxNumTokens int `yaml:"max_num_tokens"`

	// MaxNumUtterances caps the number of utterance pairs produced.
	MaxNumUtterances int `yaml:"max_num_utterances"`

	// MaxVocabularySize caps each vocabulary to the most frequent tokens.
	// 0 keeps the full distinct token set.
	MaxVocabularySize int `yaml:"max_vocabulary_size"`

	// TargetUser, when set, keeps only pairs answered by this user.
	TargetUser string `yaml:"target_user"`

	// VerifyUtterances drops pairs where either side is oversized.
	VerifyUtterances bool `yaml:"verify_utterances"`

	// RemoveSelfReplies drops pairs where a user answers themselves.
	RemoveSelfReplies bool `yaml:"remove_self_replies"`

	// Trainer holds model hyperparameters.
	Trainer TrainerConfig `yaml:"trainer"`
}

// TrainerConfig holds seq2seq trainer settings.
type TrainerConfig struct {
	LatentDim    int     `yaml:"latent_dim"`
	Epochs       int     `yaml:"epochs"`
	LearningRate float64 `yaml:"learning_rate"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		CorpusDir:         "corpus",
		MaxNumTokens:      20,
		MaxNumUtterances:  250000,
		MaxVocabularySize: 5000,
		VerifyUtterances:  true,
		RemoveSelfReplies: true,
		Trainer: TrainerConfig{
			LatentDim:    256,
			Epochs:       10,
			LearningRate: 0.001,
		},
	}
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "spindle.yaml"
	}
	return filepath.Join(home, ".config", "spindle", "config.yaml")
}

// Load loads configuration from a file and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrConfigNotFound, errors.CategoryConfig,
				"config file %s does not exist", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigReadFailed, errors.CategoryConfig,
			"failed to read config %s", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParseFailed, errors.CategoryConfig,
			"failed to parse config %s", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns the default (with
// environment overrides applied) if the path is empty or the file does
// not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigWriteFailed, errors.CategoryConfig,
			"failed to create config directory %s", dir)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigWriteFailed, errors.CategoryConfig,
			"failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigWriteFailed, errors.CategoryConfig,
			"failed to write config file %s", path)
	}
	return nil
}

// InitConfig creates a default config file if it doesn't exist.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // Already exists
	}
	return Default().Save(path)
}

// applyEnv overrides fields from the pipeline's environment variables.
// Each variable is independently optional.
func (c *Config) applyEnv() error {
	if err := envInt("MAX_NUM_TOKENS", &c.MaxNumTokens); err != nil {
		return err
	}
	if err := envInt("MAX_NUM_UTTERANCES", &c.MaxNumUtterances); err != nil {
		return err
	}
	if err := envInt("MAX_VOCABULARY_SIZE", &c.MaxVocabularySize); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("TARGET_USER"); ok {
		c.TargetUser = v
	}
	if err := envBool("VERIFY_UTTERANCES", &c.VerifyUtterances); err != nil {
		return err
	}
	if err := envBool("REMOVE_SELF_REPLIES", &c.RemoveSelfReplies); err != nil {
		return err
	}
	return nil
}

// Validate checks option values and combinations.
func (c *Config) Validate() error {
	if c.CorpusDir == "" {
		return errors.New(errors.ErrConfigInvalid, errors.CategoryConfig,
			"corpus_dir must not be empty")
	}
	if c.MaxNumTokens < 0 {
		return invalidField("max_num_tokens", c.MaxNumTokens)
	}
	if c.MaxNumUtterances < 0 {
		return invalidField("max_num_utterances", c.MaxNumUtterances)
	}
	if c.MaxVocabularySize < 0 {
		return invalidField("max_vocabulary_size", c.MaxVocabularySize)
	}
	if c.VerifyUtterances && c.MaxNumTokens == 0 {
		return errors.New(errors.ErrConfigInvalid, errors.CategoryConfig,
			"verify_utterances requires a positive max_num_tokens")
	}
	if c.Trainer.LatentDim <= 0 {
		return invalidField("trainer.latent_dim", c.Trainer.LatentDim)
	}
	if c.Trainer.Epochs < 0 {
		return invalidField("trainer.epochs", c.Trainer.Epochs)
	}
	if c.Trainer.LearningRate <= 0 {
		return errors.Newf(errors.ErrConfigInvalid, errors.CategoryConfig,
			"trainer.learning_rate must be positive, got %v", c.Trainer.LearningRate)
	}
	return nil
}

func invalidField(field string, value int) error {
	return errors.Newf(errors.ErrConfigInvalid, errors.CategoryConfig,
		"%s must not be negative, got %d", field, value).
		WithContext("field", field).
		WithContext("value", strconv.Itoa(value))
}

// envInt overrides dst from an integer environment variable.
func envInt(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigInvalid, errors.CategoryConfig,
			"%s must be an integer, got %q", name, v)
	}
	*dst = n
	return nil
}

// envBool overrides dst from a boolean environment variable.
func envBool(name string, dst *bool) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigInvalid, errors.CategoryConfig,
			"%s must be a boolean, got %q", name, v)
	}
	*dst = b
	return nil
}
