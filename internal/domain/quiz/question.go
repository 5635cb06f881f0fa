// Package quiz turns free-text multiple-choice output from a language model into
// structured question records.
package quiz

// Option labels.
const (
	OptionA = "A"
	OptionB = "B"
	OptionC = "C"
	OptionD = "D"
)

// DefaultHint: hint used when the model did not supply one.
const DefaultHint = "Try again! Review the information provided."

// Question: one multiple-choice question. Correct and Hint are always set on parsed records.
type Question struct {
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
	Correct  string            `json:"correct"`
	Hint     string            `json:"hint"`
}

func isOptionLabel(b byte) bool {
	return b >= 'A' && b <= 'D'
}
