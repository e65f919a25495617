package quizgen

import "time"

// Source identifies where a question came from.
type Source string

const (
	// SourceGenerated marks a question produced by a generative provider.
	SourceGenerated Source = "generated"

	// SourceLocalBank marks a question taken from the curated local bank.
	SourceLocalBank Source = "local-bank"
)

// OptionLetters are the semantic labels of the four answer choices.
var OptionLetters = [4]string{"A", "B", "C", "D"}

// Question is a single multiple-choice exam question ready for delivery.
type Question struct {
	// ID is an opaque unique identifier assigned when the record is
	// accepted into a batch. Never reused, even for textually-identical
	// fallback content.
	ID string `json:"id"`

	// Text is the question body. May embed the constrained math markup
	// dialect used by the rendering layer.
	Text string `json:"text"`

	// Options are the four answer choices, labeled A-D by position.
	Options [4]string `json:"options"`

	// CorrectOption is one of "A", "B", "C", "D".
	CorrectOption string `json:"correctOption"`

	// Explanation is the rationale shown after answering.
	Explanation string `json:"explanation"`

	Subject   string `json:"subject"`
	Objective string `json:"objective,omitempty"`

	// Difficulty is ordinal, 1 (easiest) to 5 (hardest).
	Difficulty int `json:"difficultyLevel"`

	// Source is set once at creation and never changes.
	Source Source `json:"source"`

	CreatedAt time.Time `json:"createdAt"`
}

// CorrectText returns the text of the correct option, or "" when
// CorrectOption is not a valid letter.
func (q *Question) CorrectText() string {
	for i, l := range OptionLetters {
		if l == q.CorrectOption {
			return q.Options[i]
		}
	}
	return ""
}

// BatchRequest describes one batch-generation call.
type BatchRequest struct {
	Subject   string
	Objective string
	Count     int

	// Difficulty is ordinal 1-5; 0 means unspecified.
	Difficulty int

	// SessionID groups usage-tracking records. Optional.
	SessionID string
}

// Batch is the result of one batch-generation call.
type Batch struct {
	Questions []Question

	// Source is "generated" unless every slot fell back to the local
	// bank, in which case "local-bank".
	Source Source

	// Warning is set when any slot was filled from the fallback library.
	// A batch with a warning is still a successful batch.
	Warning string
}
