package quizgen

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/quizforge/internal/llm"
)

// QuestionSchema is the structured-output hint handed to providers. The
// parser does not trust providers to honor it; it is a hint, and the
// repaired record is validated against the same definition afterwards.
var QuestionSchema = &llm.Schema{
	Name:        "exam-question",
	Description: "A single multiple-choice exam question with four options",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The question body shown to the learner",
			},
			"options": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"minItems":    4,
				"maxItems":    4,
				"description": "Exactly 4 answer options, ordered A to D",
			},
			"correct_answer": map[string]any{
				"type":        "string",
				"enum":        []any{"A", "B", "C", "D"},
				"description": "The letter of the correct option",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Short rationale for the correct answer",
			},
		},
		"required":             []any{"question_text", "options", "correct_answer", "explanation"},
		"additionalProperties": false,
	},
}

// compiledQuestionSchema caches the compiled schema.
var (
	compileOnce      sync.Once
	compiledSchema   *jsonschema.Schema
	compileSchemaErr error
)

// validateRecord checks a repaired and backfilled record against the
// question schema. Failure here means the repair pipeline produced
// something structurally unusable and the candidate counts as malformed.
func validateRecord(rec rawQuestion) error {
	compileOnce.Do(func() {
		compiledSchema, compileSchemaErr = compileQuestionSchema()
	})
	if compileSchemaErr != nil {
		return fmt.Errorf("compile question schema: %w", compileSchemaErr)
	}

	// The jsonschema library validates a parsed JSON value (any), so
	// round-trip the record through encoding/json.
	recBytes, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(recBytes, &parsed); err != nil {
		return fmt.Errorf("parse record: %w", err)
	}

	if err := compiledSchema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compileQuestionSchema() (*jsonschema.Schema, error) {
	defBytes, err := json.Marshal(QuestionSchema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", QuestionSchema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	return c.Compile(schemaURL)
}
