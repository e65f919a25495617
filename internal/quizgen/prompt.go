package quizgen

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const systemPrompt = `You are an exam author writing challenging multiple-choice questions for serious learners.

Rules:
- Write a single question with exactly 4 answer options.
- Exactly one option is unambiguously correct. Do not write "all of the above" or "none of the above".
- The three distractors must be plausible and grounded in common misconceptions, not random values.
- The question must be structurally different from anything a student would call a textbook repeat.
- Keep the question self-contained: no references to figures, passages, or prior questions.
- Respond with a single JSON object in exactly this shape, and nothing else:

{"question_text": "...", "options": ["...", "...", "...", "..."], "correct_answer": "A", "explanation": "..."}

- "correct_answer" is the letter of the correct option: A, B, C, or D.
- "explanation" is a short rationale for the correct answer.`

// archetypes is the rotation of structural templates for how a question is
// posed. Selection is keyed by attempt index so replacement attempts for
// the same slot land on a different structure.
var archetypes = []string{
	"Pose a scenario: describe a concrete situation and ask what happens or what should be done.",
	"Require a multi-step calculation: the answer must need at least two distinct operations to reach.",
	"Set a conceptual trap: make the most tempting wrong option the one a student with a shallow understanding would pick.",
	"Ask for a comparison: which of two or more things is larger, faster, stronger, or more likely, and under what condition.",
	"Ask for a prediction: given a setup, what is the expected outcome or trend.",
	"Use error spotting: present a worked statement or short derivation containing one mistake and ask to identify it.",
	"Ask for the best justification: the options are explanations and only one actually supports the stated fact.",
}

// contexts is the rotation of narrative framings, chosen pseudo-randomly
// per call for lexical diversity across repeated calls.
var contexts = []string{
	"Frame it in a laboratory or experiment setting.",
	"Frame it around an everyday situation a student would recognize.",
	"Frame it as a problem an engineer or practitioner would face.",
	"Frame it historically, around how the idea was first worked out.",
	"Frame it abstractly, with no story dressing at all.",
	"Frame it around a measurement or observation and its interpretation.",
}

// PromptInput holds everything the composer needs for one attempt.
type PromptInput struct {
	Subject   string
	Objective string

	// Difficulty is ordinal 1-5; 0 means unspecified.
	Difficulty int

	// AttemptIndex selects the archetype. Replacement attempts use a
	// shifted index so the composer diversifies structure.
	AttemptIndex int
}

// BuildPrompt produces the generation instruction for one attempt.
// Pure construction: the only nondeterminism is the context framing pick.
func BuildPrompt(in PromptInput) string {
	archetype := archetypes[in.AttemptIndex%len(archetypes)]
	framing := contexts[rand.IntN(len(contexts))]

	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", in.Subject)
	if in.Objective != "" {
		fmt.Fprintf(&b, "Learning objective: %s\n", in.Objective)
	}
	if in.Difficulty > 0 {
		fmt.Fprintf(&b, "Difficulty: %d of 5\n", in.Difficulty)
	}

	b.WriteString("\nQuestion structure: ")
	b.WriteString(archetype)
	b.WriteString("\n")
	b.WriteString(framing)
	b.WriteString("\n")

	return b.String()
}

// ArchetypeCount reports the size of the archetype rotation.
func ArchetypeCount() int { return len(archetypes) }
