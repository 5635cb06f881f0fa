package quiz

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
)

const wellFormed = `Q: What is the boiling point of water at sea level?
A: 50 C
B: 100 C
C: 150 C
D: 200 C
CORRECT: B
HINT: Think about a kettle.

Q: Which gas do plants absorb?
A: Oxygen
B: Nitrogen
C: Carbon dioxide
D: Helium
CORRECT: C
HINT: Humans exhale it.`

type recordingHandler struct {
	mu      sync.Mutex
	entries []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	h.entries = append(h.entries, record)
	h.mu.Unlock()
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	msgs := make([]string, 0, len(h.entries))
	for _, entry := range h.entries {
		msgs = append(msgs, entry.Message)
	}
	return msgs
}

func TestParseWellFormed(t *testing.T) {
	got := Parse(wellFormed)
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}

	first := got[0]
	if first.Question != "What is the boiling point of water at sea level?" {
		t.Fatalf("unexpected question: %q", first.Question)
	}
	if len(first.Options) != 4 || first.Options[OptionB] != "100 C" {
		t.Fatalf("unexpected options: %+v", first.Options)
	}
	if first.Correct != OptionB || first.Hint != "Think about a kettle." {
		t.Fatalf("unexpected correct/hint: %q %q", first.Correct, first.Hint)
	}

	second := got[1]
	if second.Question != "Which gas do plants absorb?" || second.Correct != OptionC {
		t.Fatalf("unexpected second question: %+v", second)
	}
	if second.Hint != "Humans exhale it." {
		t.Fatalf("unexpected hint: %q", second.Hint)
	}
}

func TestParseNoQuestionMarker(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n",
		"A: orphan option\nCORRECT: A\nHINT: nothing",
		"Here are some questions about the topic.",
	}
	for _, input := range inputs {
		if got := Parse(input); len(got) != 0 {
			t.Fatalf("expected no questions for %q, got %+v", input, got)
		}
	}
}

func TestParseIsPure(t *testing.T) {
	first := Parse(wellFormed)
	second := Parse(wellFormed)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parse is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestParseDefaultsCorrect(t *testing.T) {
	handler := &recordingHandler{}
	parser := NewParser(slog.New(handler))

	got := parser.Parse("Q: Pick one\nA: x\nB: y\nHINT: any")
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	if got[0].Correct != OptionA {
		t.Fatalf("expected default correct A, got %q", got[0].Correct)
	}
	if got[0].Hint != "any" {
		t.Fatalf("unexpected hint: %q", got[0].Hint)
	}
	msgs := handler.messages()
	if len(msgs) != 1 || msgs[0] != "quiz_correct_defaulted" {
		t.Fatalf("expected defaulted warning, got %v", msgs)
	}
}

func TestParseDefaultsHint(t *testing.T) {
	got := Parse("Q: Pick one\nA: x\nB: y\nCORRECT: B")
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	if got[0].Hint != DefaultHint {
		t.Fatalf("expected default hint, got %q", got[0].Hint)
	}
	if got[0].Correct != OptionB {
		t.Fatalf("unexpected correct: %q", got[0].Correct)
	}
}

func TestParseDefaultsAtQuestionBoundary(t *testing.T) {
	got := Parse("Q: first\nA: x\nQ: second\nA: y\nCORRECT: A\nHINT: h")
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}
	if got[0].Correct != OptionA || got[0].Hint != DefaultHint {
		t.Fatalf("expected defaults on first question, got %+v", got[0])
	}
}

func TestParseTrailingAccumulator(t *testing.T) {
	got := Parse("Q: kept\nA: only option")
	if len(got) != 1 || got[0].Question != "kept" {
		t.Fatalf("expected trailing question to be flushed, got %+v", got)
	}

	got = Parse("Q: kept\nA: x\nQ: dropped, no options\nCORRECT: B")
	if len(got) != 1 || got[0].Question != "kept" {
		t.Fatalf("expected trailing optionless question to be dropped, got %+v", got)
	}
}

func TestParseDropsEmptyQuestionText(t *testing.T) {
	got := Parse("Q:\nA: x\nB: y")
	if len(got) != 0 {
		t.Fatalf("expected empty question text to be dropped, got %+v", got)
	}
}

func TestParseAlternateOptionFormats(t *testing.T) {
	primary := Parse("Q: Pick\nA: one\nB: two\nC: three\nD: four\nCORRECT: D\nHINT: h")
	paren := Parse("Q: Pick\n(A) one\n(B) two\n(C) three\n(D) four\nCORRECT: D\nHINT: h")
	dotted := Parse("Q: Pick\nA. one\nB. two\nC. three\nD. four\nCORRECT: D\nHINT: h")

	if !reflect.DeepEqual(primary, paren) {
		t.Fatalf("parenthesised options differ:\n%+v\n%+v", primary, paren)
	}
	if !reflect.DeepEqual(primary, dotted) {
		t.Fatalf("dotted options differ:\n%+v\n%+v", primary, dotted)
	}
}

func TestParseQuestionStartVariants(t *testing.T) {
	cases := map[string]string{
		"Q: What?":                   "What?",
		"q: lower?":                  "lower?",
		"Question: Long form?":       "Long form?",
		"QUESTION 1: Numbered?":      "Numbered?",
		"question two without colon": "question two without colon",
	}
	for line, want := range cases {
		got := Parse(line + "\nA: x")
		if len(got) != 1 || got[0].Question != want {
			t.Fatalf("line %q: expected question %q, got %+v", line, want, got)
		}
	}
}

func TestParseOptionEdgeCases(t *testing.T) {
	got := Parse("Q: Pick\nA:\nB:text without space\na: lowercase ignored")
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	opts := got[0].Options
	if text, ok := opts[OptionA]; !ok || text != "" {
		t.Fatalf("expected empty option A, got %q (present=%v)", text, ok)
	}
	if opts[OptionB] != "text without space" {
		t.Fatalf("unexpected option B: %q", opts[OptionB])
	}
	if len(opts) != 2 {
		t.Fatalf("lowercase label should not be an option: %+v", opts)
	}
}

func TestParseCorrectAnswerVariants(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"CORRECT: C", OptionC},
		{"Answer: D", OptionD},
		{"correct: (b)", OptionA},
		{"The answer is C", OptionC},
		{"CORRECT: d", OptionD},
		{"Correct Answer: B", OptionB},
		// first A-D in string order wins, even inside prose
		{"CORRECT: Definitely A", OptionD},
		{"Correct answer is B", OptionC},
	}
	for _, tc := range cases {
		got := Parse("Q: Pick\nA: w\nB: x\nC: y\nD: z\n" + tc.line)
		if len(got) != 1 {
			t.Fatalf("%q: expected 1 question, got %d", tc.line, len(got))
		}
		if got[0].Correct != tc.want {
			t.Fatalf("%q: expected correct %q, got %q", tc.line, tc.want, got[0].Correct)
		}
	}
}

func TestParseCorrectKeepsEarlierValueWhenNoLetter(t *testing.T) {
	got := Parse("Q: Pick\nA: w\nB: x\nCORRECT: B\nANSWER: none given")
	if len(got) != 1 || got[0].Correct != OptionB {
		t.Fatalf("expected earlier correct to survive, got %+v", got)
	}

	got = Parse("Q: Pick\nA: w\nB: x\nCORRECT: B\nANSWER: Definitely")
	if len(got) != 1 || got[0].Correct != OptionD {
		t.Fatalf("expected later letter to overwrite, got %+v", got)
	}
}

func TestParseHintVariants(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"HINT: look closer", "look closer"},
		{"hint: lower case", "lower case"},
		{"Hint 2 look again", "Hint 2 look again"},
		{"If wrong: re-read the text", "re-read the text"},
	}
	for _, tc := range cases {
		got := Parse("Q: Pick\nA: x\n" + tc.line)
		if len(got) != 1 || got[0].Hint != tc.want {
			t.Fatalf("%q: expected hint %q, got %+v", tc.line, tc.want, got)
		}
	}

	got := Parse("Q: Pick\nA: x\nHINT: first\nHINT: second")
	if got[0].Hint != "second" {
		t.Fatalf("expected later hint to overwrite, got %q", got[0].Hint)
	}
}

func TestParseCategoryPriority(t *testing.T) {
	// "A." is an option even though the rest reads like an answer line
	got := Parse("Q: Pick\nA. The answer is B\nB: x")
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	if got[0].Options[OptionA] != "The answer is B" {
		t.Fatalf("unexpected option A: %q", got[0].Options[OptionA])
	}
	if got[0].Correct != OptionA {
		t.Fatalf("option line must not set correct, got %q", got[0].Correct)
	}

	// a question marker always starts a new question
	got = Parse("Q: one\nA: x\nquestion two: next\nB: y")
	if len(got) != 2 || got[1].Question != "next" {
		t.Fatalf("unexpected questions: %+v", got)
	}
}

func TestParseLineEndingsAndWhitespace(t *testing.T) {
	raw := "  Q: Windows?\r\n   A: yes  \r\nB: no\rCORRECT: A\r\n\r\n  HINT:   spaced  "
	got := Parse(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	q := got[0]
	if q.Question != "Windows?" || q.Options[OptionA] != "yes" || q.Options[OptionB] != "no" {
		t.Fatalf("unexpected question: %+v", q)
	}
	if q.Correct != OptionA || q.Hint != "spaced" {
		t.Fatalf("unexpected correct/hint: %+v", q)
	}
}

func TestParseLinesBeforeFirstQuestionIgnored(t *testing.T) {
	got := Parse("Sure! Here are your questions.\nA: stray\nCORRECT: D\nHINT: stray\nQ: Real\nA: x")
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	if len(got[0].Options) != 1 || got[0].Correct != OptionA || got[0].Hint != DefaultHint {
		t.Fatalf("stray lines leaked into question: %+v", got[0])
	}
}

func TestParseLogsEmptyResult(t *testing.T) {
	handler := &recordingHandler{}
	parser := NewParser(slog.New(handler))

	if got := parser.Parse("no quiz here"); len(got) != 0 {
		t.Fatalf("expected empty result")
	}
	msgs := handler.messages()
	if len(msgs) != 1 || msgs[0] != "quiz_parse_empty" {
		t.Fatalf("expected quiz_parse_empty, got %v", msgs)
	}

	handler = &recordingHandler{}
	NewParser(slog.New(handler)).Parse("   ")
	if len(handler.messages()) != 0 {
		t.Fatalf("blank input should not be reported")
	}
}

func TestParseLongOutput(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("Q: question\nA: a\nB: b\nCORRECT: B\nHINT: h\n")
	}
	if got := Parse(b.String()); len(got) != 50 {
		t.Fatalf("expected 50 questions, got %d", len(got))
	}
}
