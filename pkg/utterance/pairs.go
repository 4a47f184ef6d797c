package utterance

import (
	"strings"

	"github.com/r3d91ll/spindle/pkg/corpus"
	"github.com/r3d91ll/spindle/pkg/token"
)

// Options controls pair building. The zero value applies no cap and no
// filters.
type Options struct {
	// MaxPairs caps the number of pairs produced. The builder exits early
	// once the cap is reached; it does not pre-slice the corpus. 0 means
	// unbounded.
	MaxPairs int

	// MaxTokensPerSentence is the per-sentence token cap passed to the
	// tokenizer and, when Verify is set, the per-utterance quality bound.
	MaxTokensPerSentence int

	// Verify drops any pair where either side's total token count exceeds
	// MaxTokensPerSentence after tokenization.
	Verify bool

	// TargetUser, when non-empty, keeps only pairs whose target message was
	// sent by this user. Comparison is case-folded.
	TargetUser string

	// RemoveSelfReplies drops pairs where input and target share a sender.
	RemoveSelfReplies bool
}

// BuildPairs forms adjacent-message pairs from the corpus: for every
// message after the first, the preceding message is the candidate input and
// the message itself the candidate target. Both sides are tokenized, then
// the verification, target-user, and self-reply filters are applied in that
// order; a pair failing any filter is skipped whole. Surviving pairs are
// wrapped with start/end markers on both sides and appended with index
// correspondence preserved: inputs[k] pairs with targets[k].
//
// Empty messages are valid: they tokenize to zero tokens, pass verification
// (0 never exceeds the cap), and wrap to [<u>, </u>].
//
// BuildPairs is deterministic and never fails; filters are silent
// exclusions, not errors.
func BuildPairs(messages []corpus.Message, opts Options) (inputs, targets []Utterance) {
	targetUser := strings.ToLower(opts.TargetUser)

	for i := 1; i < len(messages); i++ {
		if opts.MaxPairs > 0 && len(inputs) == opts.MaxPairs {
			break
		}

		input := messages[i-1]
		target := messages[i]

		inputTokens := token.Tokenize(input.Content, opts.MaxTokensPerSentence)
		targetTokens := token.Tokenize(target.Content, opts.MaxTokensPerSentence)

		if opts.Verify && !(verify(inputTokens, opts.MaxTokensPerSentence) && verify(targetTokens, opts.MaxTokensPerSentence)) {
			continue
		}
		if targetUser != "" && target.SenderName != targetUser {
			continue
		}
		if opts.RemoveSelfReplies && input.SenderName == target.SenderName {
			continue
		}

		inputs = append(inputs, Wrap(inputTokens))
		targets = append(targets, Wrap(targetTokens))
	}

	return inputs, targets
}

// verify reports whether a tokenized utterance is within the quality bound.
// The cap is the same value the tokenizer applies per sentence, so only
// multi-sentence utterances can fail here.
func verify(tokens []string, maxTokens int) bool {
	return len(tokens) <= maxTokens
}
