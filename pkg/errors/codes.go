// Package errors provides error code constants for the Spindle pipeline.
// Error codes are organized by category for consistent handling and lookup.
package errors

// -----------------------------------------------------------------------------
// Configuration Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = "CONFIG_NOT_FOUND"

	// ErrConfigParseFailed indicates the configuration file could not be parsed.
	// Usually a YAML syntax error or invalid structure.
	ErrConfigParseFailed = "CONFIG_PARSE_FAILED"

	// ErrConfigInvalid indicates configuration values are invalid.
	// A negative cap or an otherwise impossible option combination.
	ErrConfigInvalid = "CONFIG_INVALID"

	// ErrConfigReadFailed indicates the config file could not be read.
	ErrConfigReadFailed = "CONFIG_READ_FAILED"

	// ErrConfigWriteFailed indicates the config file could not be written.
	ErrConfigWriteFailed = "CONFIG_WRITE_FAILED"
)

// -----------------------------------------------------------------------------
// Corpus Error Codes
// -----------------------------------------------------------------------------
// Loading and parsing errors are fatal: the pipeline never skips a broken
// export file and never produces a partial corpus.

const (
	// ErrCorpusReadFailed indicates an export file could not be read.
	ErrCorpusReadFailed = "CORPUS_READ_FAILED"

	// ErrCorpusParseFailed indicates an export file is not valid JSON or
	// does not have the expected messages structure.
	ErrCorpusParseFailed = "CORPUS_PARSE_FAILED"

	// ErrCorpusWalkFailed indicates the corpus directory tree could not be
	// traversed.
	ErrCorpusWalkFailed = "CORPUS_WALK_FAILED"
)

// -----------------------------------------------------------------------------
// Encoding Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrEncodingNotLatin1 indicates message text contains a code point above
	// U+00FF and cannot be reinterpreted as Latin-1 bytes.
	ErrEncodingNotLatin1 = "ENCODING_NOT_LATIN1"

	// ErrEncodingNotUTF8 indicates the reinterpreted byte sequence is not
	// valid UTF-8.
	ErrEncodingNotUTF8 = "ENCODING_NOT_UTF8"
)

// -----------------------------------------------------------------------------
// Vocabulary Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrVocabSaveFailed indicates a vocabulary mapping could not be written.
	ErrVocabSaveFailed = "VOCAB_SAVE_FAILED"

	// ErrVocabLoadFailed indicates a vocabulary mapping could not be read back.
	ErrVocabLoadFailed = "VOCAB_LOAD_FAILED"
)

// -----------------------------------------------------------------------------
// Tensor Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrTensorShapeMismatch indicates the input and target utterance lists
	// have different lengths and cannot be batched together.
	ErrTensorShapeMismatch = "TENSOR_SHAPE_MISMATCH"
)

// -----------------------------------------------------------------------------
// Model Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrModelBuildFailed indicates the trainer graph could not be constructed.
	ErrModelBuildFailed = "MODEL_BUILD_FAILED"

	// ErrModelTrainFailed indicates a training run aborted.
	ErrModelTrainFailed = "MODEL_TRAIN_FAILED"
)

// -----------------------------------------------------------------------------
// Dataset Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrManifestWriteFailed indicates the dataset manifest could not be written.
	ErrManifestWriteFailed = "MANIFEST_WRITE_FAILED"
)
