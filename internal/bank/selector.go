package bank

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/abhisek/quizforge/internal/quizgen"
)

// SelectRequest describes one offline selection call.
type SelectRequest struct {
	Subject   string
	Objective string
	Count     int
}

// Selection is the result of one offline selection call.
type Selection struct {
	Questions []quizgen.Question
	Warning   string
}

// Selector answers offline requests against the static bank, widening the
// candidate pool progressively until enough items are available.
type Selector struct {
	bank *Bank
	now  func() time.Time
}

// NewSelector creates a Selector over the given bank.
func NewSelector(b *Bank) *Selector {
	return &Selector{bank: b, now: time.Now}
}

type candidate struct {
	entry   Entry
	subject string
}

// Select returns up to req.Count questions. The pool starts narrow
// (subject + objective) and widens to subject-only, then to the entire
// bank, attaching a warning describing the shortfall at the point it is
// resolved. The final pool is shuffled and each returned item is re-keyed
// with a fresh identifier so repeated selections of the same underlying
// content stay distinguishable to callers tracking usage by id.
func (s *Selector) Select(req SelectRequest) (*Selection, error) {
	if req.Count < 1 {
		return nil, &quizgen.ErrInvalidRequest{Reason: "count must be at least 1"}
	}

	subjectPool := s.subjectCandidates(req.Subject)

	var pool []candidate
	var warnings []string

	if req.Objective != "" {
		pool = filterByObjective(subjectPool, req.Objective)
		if len(pool) < req.Count {
			pool = mergeCandidates(pool, subjectPool)
			warnings = append(warnings, fmt.Sprintf(
				"objective %q matched too few questions; widened to all available subject questions", req.Objective))
		}
	} else {
		pool = subjectPool
	}

	if len(pool) < req.Count {
		pool = mergeCandidates(pool, s.allCandidates())
		warnings = append(warnings, fmt.Sprintf(
			"only %d questions available after widening; drawing from the entire bank", len(pool)))
	}

	// Uniform random permutation (Fisher-Yates), then take the head.
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	take := req.Count
	if take > len(pool) {
		take = len(pool)
		warnings = append(warnings, fmt.Sprintf(
			"requested %d questions but the bank holds only %d", req.Count, len(pool)))
	}

	ts := s.now().UTC()
	out := make([]quizgen.Question, take)
	for i, c := range pool[:take] {
		out[i] = rekey(c, ts)
	}

	sel := &Selection{Questions: out}
	if len(warnings) > 0 {
		sel.Warning = strings.Join(warnings, "; ")
	}
	return sel, nil
}

func (s *Selector) subjectCandidates(subject string) []candidate {
	if subject == "" {
		return s.allCandidates()
	}

	entries := s.bank.Subject(subject)
	out := make([]candidate, len(entries))
	for i, e := range entries {
		out[i] = candidate{entry: e, subject: strings.ToLower(strings.TrimSpace(subject))}
	}
	return out
}

func (s *Selector) allCandidates() []candidate {
	var out []candidate
	for _, subject := range s.bank.Subjects() {
		for _, e := range s.bank.Subject(subject) {
			out = append(out, candidate{entry: e, subject: subject})
		}
	}
	return out
}

// filterByObjective keeps candidates whose text or objective metadata
// matches the requested objective, by full substring or by any keyword.
func filterByObjective(pool []candidate, objective string) []candidate {
	objective = strings.ToLower(strings.TrimSpace(objective))
	keywords := strings.Fields(objective)

	var out []candidate
	for _, c := range pool {
		haystack := strings.ToLower(c.entry.Text + " " + c.entry.Objective)
		if strings.Contains(haystack, objective) {
			out = append(out, c)
			continue
		}
		for _, kw := range keywords {
			if len(kw) > 3 && strings.Contains(haystack, kw) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// mergeCandidates appends items of next not already present in pool,
// preserving unique-by-identity semantics across widening stages.
func mergeCandidates(pool, next []candidate) []candidate {
	seen := make(map[string]struct{}, len(pool))
	for _, c := range pool {
		seen[c.entry.ID] = struct{}{}
	}
	for _, c := range next {
		if _, ok := seen[c.entry.ID]; ok {
			continue
		}
		seen[c.entry.ID] = struct{}{}
		pool = append(pool, c)
	}
	return pool
}

// rekey converts a bank entry to a served question with a fresh id
// combining the origin id and the call timestamp.
func rekey(c candidate, ts time.Time) quizgen.Question {
	q := quizgen.Question{
		ID:            fmt.Sprintf("%s-%d", c.entry.ID, ts.UnixNano()),
		Text:          c.entry.Text,
		CorrectOption: c.entry.CorrectOption,
		Explanation:   c.entry.Explanation,
		Subject:       c.subject,
		Objective:     c.entry.Objective,
		Difficulty:    c.entry.Difficulty,
		Source:        quizgen.SourceLocalBank,
		CreatedAt:     ts,
	}
	copy(q.Options[:], c.entry.Options)
	return q
}
