package bank

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/quizforge/internal/quizgen"
)

func testSelector(t *testing.T) *Selector {
	t.Helper()
	b, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return NewSelector(b)
}

func TestSelect_SubjectOnly(t *testing.T) {
	s := testSelector(t)

	sel, err := s.Select(SelectRequest{Subject: "math", Count: 3})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if len(sel.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(sel.Questions))
	}
	if sel.Warning != "" {
		t.Errorf("unexpected warning: %q", sel.Warning)
	}

	ids := map[string]bool{}
	for i, q := range sel.Questions {
		if q.Subject != "math" {
			t.Errorf("question %d subject = %q, want math", i, q.Subject)
		}
		if q.Source != quizgen.SourceLocalBank {
			t.Errorf("question %d source = %q, want %q", i, q.Source, quizgen.SourceLocalBank)
		}
		if q.ID == "" || ids[q.ID] {
			t.Errorf("question %d id %q empty or duplicated", i, q.ID)
		}
		ids[q.ID] = true
		if q.CreatedAt.IsZero() {
			t.Errorf("question %d has zero creation time", i)
		}
	}
}

func TestSelect_RekeyEmbedsOriginAndTimestamp(t *testing.T) {
	s := testSelector(t)
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	sel, err := s.Select(SelectRequest{Subject: "physics", Count: 1})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	id := sel.Questions[0].ID
	if !strings.Contains(id, "-") {
		t.Fatalf("id %q does not look re-keyed", id)
	}
	if !strings.HasSuffix(id, fmt.Sprintf("-%d", fixed.UnixNano())) {
		t.Errorf("id %q does not end with the call timestamp", id)
	}
}

func TestSelect_RepeatedCallsYieldFreshIDs(t *testing.T) {
	s := testSelector(t)

	a, err := s.Select(SelectRequest{Subject: "chemistry", Count: 2})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	time.Sleep(time.Millisecond)
	b, err := s.Select(SelectRequest{Subject: "chemistry", Count: 2})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	seen := map[string]bool{}
	for _, q := range a.Questions {
		seen[q.ID] = true
	}
	for _, q := range b.Questions {
		if seen[q.ID] {
			t.Errorf("id %q reused across calls", q.ID)
		}
	}
}

func TestSelect_ObjectiveFilter(t *testing.T) {
	s := testSelector(t)

	sel, err := s.Select(SelectRequest{Subject: "math", Objective: "linear equations", Count: 1})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Warning != "" {
		t.Errorf("unexpected warning: %q", sel.Warning)
	}

	q := sel.Questions[0]
	haystack := strings.ToLower(q.Text + " " + q.Objective)
	if !strings.Contains(haystack, "linear") && !strings.Contains(haystack, "equations") {
		t.Errorf("selected question %q does not match the objective", q.Text)
	}
}

func TestSelect_WidensWhenObjectiveTooNarrow(t *testing.T) {
	s := testSelector(t)

	sel, err := s.Select(SelectRequest{Subject: "math", Objective: "quantum chromodynamics", Count: 3})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if len(sel.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(sel.Questions))
	}
	if !strings.Contains(sel.Warning, "widened") {
		t.Errorf("warning %q should describe the widening", sel.Warning)
	}
	for i, q := range sel.Questions {
		if q.Subject != "math" {
			t.Errorf("question %d subject = %q, want math (widened within subject)", i, q.Subject)
		}
	}
}

func TestSelect_WidensToEntireBank(t *testing.T) {
	s := testSelector(t)
	mathCount := len(s.bank.Subject("math"))

	sel, err := s.Select(SelectRequest{Subject: "math", Count: mathCount + 2})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if len(sel.Questions) != mathCount+2 {
		t.Fatalf("got %d questions, want %d", len(sel.Questions), mathCount+2)
	}
	if sel.Warning == "" {
		t.Error("expected a warning after drawing from the entire bank")
	}

	subjects := map[string]bool{}
	for _, q := range sel.Questions {
		subjects[q.Subject] = true
	}
	if len(subjects) < 2 {
		t.Error("widened selection should span more than one subject")
	}
}

func TestSelect_CountExceedsBank(t *testing.T) {
	s := testSelector(t)

	sel, err := s.Select(SelectRequest{Subject: "math", Count: 10_000})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if len(sel.Questions) != s.bank.Size() {
		t.Errorf("got %d questions, want the whole bank (%d)", len(sel.Questions), s.bank.Size())
	}
	if !strings.Contains(sel.Warning, "holds only") {
		t.Errorf("warning %q should describe the shortfall", sel.Warning)
	}
}

func TestSelect_UnknownSubjectWidens(t *testing.T) {
	s := testSelector(t)

	sel, err := s.Select(SelectRequest{Subject: "philosophy", Count: 2})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(sel.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(sel.Questions))
	}
	if sel.Warning == "" {
		t.Error("expected a warning for an unknown subject")
	}
}

func TestSelect_EmptySubjectUsesWholeBank(t *testing.T) {
	s := testSelector(t)

	sel, err := s.Select(SelectRequest{Count: 4})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(sel.Questions) != 4 {
		t.Fatalf("got %d questions, want 4", len(sel.Questions))
	}
}

func TestSelect_InvalidCount(t *testing.T) {
	s := testSelector(t)

	for _, count := range []int{0, -1} {
		_, err := s.Select(SelectRequest{Subject: "math", Count: count})
		var invalid *quizgen.ErrInvalidRequest
		if !errors.As(err, &invalid) {
			t.Errorf("count %d: err = %v, want *ErrInvalidRequest", count, err)
		}
	}
}
