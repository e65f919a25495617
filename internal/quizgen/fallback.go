package quizgen

import (
	"fmt"
	"sort"
	"strings"
)

// FallbackQuestion is one hand-authored entry in the fallback library.
type FallbackQuestion struct {
	Text          string
	Options       [4]string
	CorrectOption string
	Explanation   string
	Difficulty    int
}

// FallbackLibrary holds the static, subject-keyed library of hand-authored
// questions used when generative attempts are exhausted. Immutable after
// construction.
type FallbackLibrary struct {
	bySubject map[string][]FallbackQuestion
	subjects  []string
	generic   FallbackQuestion
}

// NewFallbackLibrary returns the built-in library.
func NewFallbackLibrary() *FallbackLibrary {
	subjects := make([]string, 0, len(seedFallbacks))
	for s := range seedFallbacks {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	return &FallbackLibrary{
		bySubject: seedFallbacks,
		subjects:  subjects,
		generic:   genericFallback,
	}
}

// Compose selects one question deterministically per (subject,
// attemptIndex) and relabels it for the request. Always produces a
// structurally valid record; the ID is left empty and assigned by the
// orchestrator at acceptance.
func (l *FallbackLibrary) Compose(subject, objective string, attemptIndex int) Question {
	entry := l.generic
	if list, ok := l.bySubject[normalizeSubject(subject)]; ok && len(list) > 0 {
		entry = list[attemptIndex%len(list)]
	}
	return l.relabel(entry, subject, objective)
}

// ComposeUnique returns a question for the request that the taken
// predicate accepts, walking the whole library starting at attemptIndex
// within the subject's own entries. When every entry is taken, a repeat
// of the start entry is served with a variant number worked into the
// text so its fingerprint stays distinct from the earlier serving.
func (l *FallbackLibrary) ComposeUnique(subject, objective string, attemptIndex int, taken func(Question) bool) Question {
	entries := l.walk(subject)
	n := len(entries)

	for off := 0; off < n; off++ {
		q := l.relabel(entries[(attemptIndex+off)%n], subject, objective)
		if taken == nil || !taken(q) {
			return q
		}
	}

	base := entries[attemptIndex%n]
	for variant := 2; ; variant++ {
		q := l.relabel(base, subject, objective)
		q.Text = fmt.Sprintf("(Variant %d) %s", variant, base.Text)
		if taken == nil || !taken(q) {
			return q
		}
	}
}

// walk returns every library entry in deterministic order: the subject's
// own entries first, then the generic template, then the remaining
// subjects' entries.
func (l *FallbackLibrary) walk(subject string) []FallbackQuestion {
	norm := normalizeSubject(subject)

	out := append([]FallbackQuestion{}, l.bySubject[norm]...)
	out = append(out, l.generic)
	for _, s := range l.subjects {
		if s == norm {
			continue
		}
		out = append(out, l.bySubject[s]...)
	}
	return out
}

func (l *FallbackLibrary) relabel(entry FallbackQuestion, subject, objective string) Question {
	return Question{
		Text:          entry.Text,
		Options:       entry.Options,
		CorrectOption: entry.CorrectOption,
		Explanation:   entry.Explanation,
		Subject:       subject,
		Objective:     objective,
		Difficulty:    entry.Difficulty,
		Source:        SourceLocalBank,
	}
}

// Size reports the number of entries available for a subject, counting
// the generic template for unknown subjects.
func (l *FallbackLibrary) Size(subject string) int {
	if list, ok := l.bySubject[normalizeSubject(subject)]; ok && len(list) > 0 {
		return len(list)
	}
	return 1
}

func normalizeSubject(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var genericFallback = FallbackQuestion{
	Text: "A claim is supported by a single anecdote. What is the strongest reason to doubt the claim?",
	Options: [4]string{
		"Anecdotes cannot be written down reliably",
		"A single case cannot rule out coincidence or selection effects",
		"Claims are only credible when made by experts",
		"Anecdotes are always false",
	},
	CorrectOption: "B",
	Explanation:   "One observation cannot distinguish a real effect from chance or a biased sample; that is why systematic evidence is required.",
	Difficulty:    3,
}

// seedFallbacks is the curated per-subject library. Entries are
// deliberately conservative: each must stand on its own with no topical
// guarantee relative to the requested objective.
var seedFallbacks = map[string][]FallbackQuestion{
	"math": {
		{
			Text: "A price is increased by 20% and the new price is then decreased by 20%. How does the final price compare to the original?",
			Options: [4]string{
				"It is equal to the original",
				"It is 4% lower than the original",
				"It is 4% higher than the original",
				"It is 2% lower than the original",
			},
			CorrectOption: "B",
			Explanation:   "1.20 * 0.80 = 0.96, so the final price is 96% of the original, a 4% decrease.",
			Difficulty:    3,
		},
		{
			Text: "If x + y = 10 and x - y = 4, what is the value of x * y?",
			Options: [4]string{
				"21",
				"24",
				"40",
				"16",
			},
			CorrectOption: "A",
			Explanation:   "Adding the equations gives 2x = 14, so x = 7 and y = 3. Then x * y = 21.",
			Difficulty:    2,
		},
		{
			Text: "Which of the following is closest to sqrt(50)?",
			Options: [4]string{
				"6.9",
				"7.1",
				"7.5",
				"25",
			},
			CorrectOption: "B",
			Explanation:   "7^2 = 49 and 7.1^2 = 50.41, so sqrt(50) is just above 7 and closest to 7.1.",
			Difficulty:    2,
		},
		{
			Text: "A fair coin is flipped 3 times. What is the probability of getting at least one head?",
			Options: [4]string{
				"1/2",
				"3/8",
				"7/8",
				"2/3",
			},
			CorrectOption: "C",
			Explanation:   "P(at least one head) = 1 - P(no heads) = 1 - (1/2)^3 = 7/8.",
			Difficulty:    3,
		},
		{
			Text: "The average of five numbers is 12. Four of them are 10, 11, 13, and 14. What is the fifth?",
			Options: [4]string{
				"12",
				"10",
				"14",
				"15",
			},
			CorrectOption: "A",
			Explanation:   "The five numbers sum to 60. The four given sum to 48, so the fifth is 12.",
			Difficulty:    2,
		},
	},
	"physics": {
		{
			Text: "A ball is thrown straight up. At the highest point of its flight, which statement is true?",
			Options: [4]string{
				"Its velocity and acceleration are both zero",
				"Its velocity is zero and its acceleration is g downward",
				"Its velocity is zero and its acceleration is zero",
				"Its velocity is g and its acceleration is zero",
			},
			CorrectOption: "B",
			Explanation:   "At the apex the instantaneous velocity is zero, but gravity still acts, so the acceleration remains g downward.",
			Difficulty:    3,
		},
		{
			Text: "Two resistors of 4 ohm and 12 ohm are connected in parallel. What is the combined resistance?",
			Options: [4]string{
				"16 ohm",
				"8 ohm",
				"3 ohm",
				"6 ohm",
			},
			CorrectOption: "C",
			Explanation:   "1/R = 1/4 + 1/12 = 4/12, so R = 3 ohm. Parallel resistance is always below the smallest branch.",
			Difficulty:    3,
		},
		{
			Text: "A heavier and a lighter object are dropped from the same height in vacuum. Which hits the ground first?",
			Options: [4]string{
				"The heavier object",
				"The lighter object",
				"They land together",
				"It depends on their shapes",
			},
			CorrectOption: "C",
			Explanation:   "Without air resistance all objects fall with the same acceleration g, so they land at the same time.",
			Difficulty:    2,
		},
		{
			Text: "Which quantity is conserved in a perfectly inelastic collision?",
			Options: [4]string{
				"Kinetic energy only",
				"Momentum only",
				"Both momentum and kinetic energy",
				"Neither momentum nor kinetic energy",
			},
			CorrectOption: "B",
			Explanation:   "Momentum is conserved in all collisions; kinetic energy is lost to deformation and heat when the bodies stick together.",
			Difficulty:    3,
		},
	},
	"chemistry": {
		{
			Text: "What is the pH of a 0.01 M solution of a strong monoprotic acid?",
			Options: [4]string{
				"1",
				"2",
				"12",
				"0.01",
			},
			CorrectOption: "B",
			Explanation:   "A strong acid dissociates completely, so [H+] = 0.01 M and pH = -log10(0.01) = 2.",
			Difficulty:    3,
		},
		{
			Text: "Which change shifts the equilibrium N2 + 3H2 <-> 2NH3 toward ammonia?",
			Options: [4]string{
				"Decreasing the pressure",
				"Increasing the pressure",
				"Removing hydrogen",
				"Adding an inert gas at constant volume",
			},
			CorrectOption: "B",
			Explanation:   "The forward reaction reduces the number of gas moles from 4 to 2, so higher pressure favors ammonia.",
			Difficulty:    4,
		},
		{
			Text: "An element has electron configuration 1s2 2s2 2p6 3s1. How does it most readily react?",
			Options: [4]string{
				"By gaining one electron",
				"By losing one electron",
				"By sharing three electrons",
				"It does not react",
			},
			CorrectOption: "B",
			Explanation:   "A single 3s electron outside a noble-gas core is easily lost, giving a +1 ion. This is sodium's behavior.",
			Difficulty:    3,
		},
	},
	"biology": {
		{
			Text: "A cell is placed in a solution and swells. Compared to the cell's interior, the solution is:",
			Options: [4]string{
				"Hypertonic",
				"Hypotonic",
				"Isotonic",
				"Saturated",
			},
			CorrectOption: "B",
			Explanation:   "Water moves into the cell by osmosis when the outside solution has the lower solute concentration, i.e. is hypotonic.",
			Difficulty:    3,
		},
		{
			Text: "Two parents heterozygous for one trait (Aa x Aa) have offspring. What fraction shows the recessive phenotype?",
			Options: [4]string{
				"1/2",
				"1/4",
				"3/4",
				"None",
			},
			CorrectOption: "B",
			Explanation:   "The cross gives 1 AA : 2 Aa : 1 aa, so one quarter of offspring are aa and show the recessive phenotype.",
			Difficulty:    2,
		},
		{
			Text: "Which process directly produces the most ATP per glucose molecule?",
			Options: [4]string{
				"Glycolysis",
				"The Krebs cycle",
				"Oxidative phosphorylation",
				"Fermentation",
			},
			CorrectOption: "C",
			Explanation:   "The electron transport chain and oxidative phosphorylation account for roughly 26-28 of the ~30 ATP yielded per glucose.",
			Difficulty:    3,
		},
	},
}
