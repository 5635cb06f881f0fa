package quiz

import (
	"strings"
	"unicode/utf8"
)

const (
	minTopicLen   = 6
	maxTopicIndex = 10
)

var topicStopwords = map[string]struct{}{
	"should": {}, "would": {}, "could": {}, "about": {},
	"there": {}, "their": {}, "which": {}, "these": {},
}

// GenerateFallback: builds one generic question from the answer text without a model call.
// Two or more topic words produce a topic question (correct B); otherwise a category question (correct A).
func GenerateFallback(answer string) []Question {
	topics := topicWords(answer)
	if len(topics) < 2 {
		return []Question{{
			Question: "Which of the following best represents the main point of the information?",
			Options: map[string]string{
				OptionA: "It provides factual information about a specific topic.",
				OptionB: "It gives instructions on how to perform an action.",
				OptionC: "It explains a concept or theory.",
				OptionD: "It compares different viewpoints or approaches.",
			},
			Correct: OptionA,
			Hint:    "Consider what category the information falls into.",
		}}
	}

	topic1 := topics[0]
	topic2 := topics[min(len(topics)-1, maxTopicIndex)]
	return []Question{{
		Question: "Based on the information provided, which statement is most accurate?",
		Options: map[string]string{
			OptionA: "The information primarily discusses " + topic1 + ".",
			OptionB: "The information focuses on the relationship between " + topic1 + " and " + topic2 + ".",
			OptionC: "The information doesn't mention " + topic1 + ".",
			OptionD: "The information contradicts facts about " + topic1 + ".",
		},
		Correct: OptionB,
		Hint:    "Review the main topics covered in the information.",
	}}
}

// topicWords: whitespace tokens of at least minTopicLen runes that are not stopwords.
// Punctuation stays attached.
func topicWords(text string) []string {
	var words []string
	for _, token := range strings.Fields(text) {
		if utf8.RuneCountInString(token) < minTopicLen {
			continue
		}
		if _, stop := topicStopwords[strings.ToLower(token)]; stop {
			continue
		}
		words = append(words, token)
	}
	return words
}
