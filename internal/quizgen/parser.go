package quizgen

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Backfill placeholders. A partially-specified but structurally valid
// question is preferred over discarding a provider response outright.
const (
	placeholderText        = "Which of the following statements is correct?"
	placeholderExplanation = "No explanation was provided for this question."
)

var placeholderOptions = [4]string{
	"Option A",
	"Option B",
	"Option C",
	"Option D",
}

// rawQuestion is the wire shape the providers are asked to produce.
type rawQuestion struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// ErrMalformedResponse indicates provider output that could not be turned
// into a structurally valid question, even after repair. The orchestrator
// treats it as a provider failure for the slot.
type ErrMalformedResponse struct {
	Raw string
	Err error
}

func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("malformed provider response: %v", e.Err)
}

func (e *ErrMalformedResponse) Unwrap() error { return e.Err }

// ParseQuestion extracts a structured question record from free-form
// provider text. It scans for the longest brace-delimited substring,
// parses it (repairing near-JSON once if the strict parse fails), then
// backfills any missing field with a safe placeholder and normalizes the
// correct-answer letter.
func ParseQuestion(raw string) (*Question, error) {
	candidate, ok := extractJSONObject(raw)
	if !ok {
		return nil, &ErrMalformedResponse{Raw: raw, Err: fmt.Errorf("no JSON object found")}
	}

	var rec rawQuestion
	if err := json.Unmarshal([]byte(candidate), &rec); err != nil {
		repaired := repairJSON(candidate)
		if err2 := json.Unmarshal([]byte(repaired), &rec); err2 != nil {
			return nil, &ErrMalformedResponse{Raw: raw, Err: err2}
		}
	}

	backfill(&rec)
	rec.CorrectAnswer = NormalizeLetter(rec.CorrectAnswer)

	if err := validateRecord(rec); err != nil {
		return nil, &ErrMalformedResponse{Raw: raw, Err: err}
	}

	q := &Question{
		Text:          rec.QuestionText,
		CorrectOption: rec.CorrectAnswer,
		Explanation:   rec.Explanation,
	}
	copy(q.Options[:], rec.Options)
	return q, nil
}

// extractJSONObject returns the longest brace-delimited substring: from
// the first '{' to the last '}'. Strips markdown code fences first, since
// several providers wrap JSON in them regardless of instructions.
func extractJSONObject(s string) (string, bool) {
	s = stripCodeFences(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

var (
	unquotedKeyRe = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// repairJSON applies a bounded set of textual repairs to near-JSON:
// quote unquoted keys, convert single to double quotes, strip trailing
// commas. One shot; if the result still doesn't parse, the response is
// malformed beyond repair.
func repairJSON(s string) string {
	s = unquotedKeyRe.ReplaceAllString(s, `$1"$2":`)
	s = strings.ReplaceAll(s, "'", `"`)
	s = trailingComma.ReplaceAllString(s, "$1")
	return s
}

// backfill fills absent fields with placeholders.
func backfill(rec *rawQuestion) {
	if strings.TrimSpace(rec.QuestionText) == "" {
		rec.QuestionText = placeholderText
	}
	if strings.TrimSpace(rec.Explanation) == "" {
		rec.Explanation = placeholderExplanation
	}
	if strings.TrimSpace(rec.CorrectAnswer) == "" {
		rec.CorrectAnswer = "A"
	}

	if len(rec.Options) > 4 {
		rec.Options = rec.Options[:4]
	}
	for len(rec.Options) < 4 {
		rec.Options = append(rec.Options, "")
	}
	for i, opt := range rec.Options {
		if strings.TrimSpace(opt) == "" {
			rec.Options[i] = placeholderOptions[i]
		}
	}
}
