package quiz

import (
	"log/slog"
	"strings"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/logging"
)

// Parser: line-oriented quiz extractor. Safe for concurrent use.
type Parser struct {
	logger *slog.Logger
}

// NewParser: creates a parser that reports defaulted fields to logger.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logging.OrDiscard(logger)}
}

// Parse: parses raw without diagnostics.
func Parse(raw string) []Question {
	return NewParser(nil).Parse(raw)
}

type lineKind int

const (
	lineOther lineKind = iota
	lineQuestion
	lineOption
	lineAltOption
	lineCorrect
	lineHint
)

// Parse: scans raw line by line and returns the questions in source order.
// It never fails; text without a question marker yields an empty slice.
func (p *Parser) Parse(raw string) []Question {
	questions := make([]Question, 0, 2)
	var current *Question

	flush := func() {
		if current == nil || current.Question == "" || len(current.Options) == 0 {
			return
		}
		if current.Correct == "" {
			p.logger.Warn("quiz_correct_defaulted", "question", current.Question, "correct", OptionA)
			current.Correct = OptionA
		}
		if current.Hint == "" {
			current.Hint = DefaultHint
		}
		questions = append(questions, *current)
	}

	for _, line := range splitLines(raw) {
		kind := classify(line, current != nil)
		switch kind {
		case lineQuestion:
			flush()
			current = &Question{
				Question: afterColon(line),
				Options:  make(map[string]string, 4),
			}
		case lineOption:
			current.Options[line[:1]] = strings.TrimSpace(line[2:])
		case lineAltOption:
			if line[0] == '(' {
				current.Options[line[1:2]] = strings.TrimSpace(line[3:])
			} else {
				current.Options[line[:1]] = strings.TrimSpace(line[2:])
			}
		case lineCorrect:
			if letter := scanCorrect(afterColon(line), current.Correct == ""); letter != "" {
				current.Correct = letter
			}
		case lineHint:
			current.Hint = afterColon(line)
		}
	}
	flush()

	if len(questions) == 0 && strings.TrimSpace(raw) != "" {
		p.logger.Warn("quiz_parse_empty", "raw_len", len(raw))
	}
	return questions
}

// classify: first matching category wins. Only question lines are recognised
// while no question is open.
func classify(line string, open bool) lineKind {
	lower := strings.ToLower(line)
	switch {
	case hasAnyPrefix(lower, "q:", "question:", "question "):
		return lineQuestion
	case !open:
		return lineOther
	case len(line) >= 2 && isOptionLabel(line[0]) && line[1] == ':':
		return lineOption
	case len(line) >= 3 && line[0] == '(' && isOptionLabel(line[1]) && line[2] == ')':
		return lineAltOption
	case len(line) >= 2 && isOptionLabel(line[0]) && line[1] == '.':
		return lineAltOption
	case hasAnyPrefix(lower, "correct:", "answer:", "correct answer", "the answer is"):
		return lineCorrect
	case hasAnyPrefix(lower, "hint:", "hint ", "if wrong"):
		return lineHint
	default:
		return lineOther
	}
}

// scanCorrect: first A-D in string order. When none is present and allowFirst is
// set, the upper-cased first character is accepted if it is a label.
func scanCorrect(text string, allowFirst bool) string {
	if i := strings.IndexAny(text, "ABCD"); i >= 0 {
		return text[i : i+1]
	}
	if allowFirst && text != "" {
		first := strings.ToUpper(text[:1])
		if isOptionLabel(first[0]) {
			return first
		}
	}
	return ""
}

func afterColon(line string) string {
	if _, rest, ok := strings.Cut(line, ":"); ok {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(line)
}

func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	lines := strings.Split(raw, "\n")
	out := lines[:0]
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
