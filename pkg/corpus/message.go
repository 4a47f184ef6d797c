// Package corpus loads chat-message archives from export directory trees.
// It is the front of the pipeline - every downstream stage consumes the
// ordered message sequence this package produces.
package corpus

// Message is the atomic unit of the corpus: one cleaned chat message.
type Message struct {
	// SenderName is the cleaned display name of the message author.
	SenderName string `json:"sender_name"`

	// Content is the cleaned message text. May be empty after cleaning
	// (for example a message that was punctuation only).
	Content string `json:"content"`
}

// ValidationError describes an invalid message field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks if the message is valid.
// Returns a ValidationError if invalid, nil if valid.
func (m *Message) Validate() *ValidationError {
	if m.SenderName == "" {
		return &ValidationError{Field: "sender_name", Message: "sender_name is required"}
	}
	return nil
}

// exportFile mirrors the on-disk structure of one conversation export.
// Title and participants are parsed so real exports load unmodified, but
// only the messages list feeds the pipeline.
type exportFile struct {
	Title        string              `json:"title"`
	Participants []exportParticipant `json:"participants"`
	Messages     []exportMessage     `json:"messages"`
}

type exportParticipant struct {
	Name string `json:"name"`
}

// exportMessage is one raw message record. Content is a pointer so that an
// absent content field (a sticker or attachment message) is distinguishable
// from present-but-empty text.
type exportMessage struct {
	SenderName string  `json:"sender_name"`
	Content    *string `json:"content"`
}
