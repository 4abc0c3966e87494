package generator

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/nchandra/eduquest/internal/domain/quizModel"
)

var multipleChoiceSchema = map[string]any{
	"type":     "object",
	"required": []any{"question", "options", "correct_answer", "explanation"},
	"properties": map[string]any{
		"question":       map[string]any{"type": "string", "minLength": 1},
		"options":        map[string]any{"type": "array", "minItems": 4, "maxItems": 4, "items": map[string]any{"type": "string", "minLength": 1}},
		"correct_answer": map[string]any{"type": "string", "minLength": 1},
		"explanation":    map[string]any{"type": "string"},
	},
	"additionalProperties": false,
}

var shortAnswerSchema = map[string]any{
	"type":     "object",
	"required": []any{"question", "correct_answer", "explanation"},
	"properties": map[string]any{
		"question":       map[string]any{"type": "string", "minLength": 1},
		"correct_answer": map[string]any{"type": "string", "minLength": 1},
		"explanation":    map[string]any{"type": "string"},
	},
	"additionalProperties": false,
}

// compiled schemas keyed by question type
var schemaCache sync.Map

func validateShape(questionType quizModel.QuestionType, parsed any) error {
	compiled, err := compiledSchema(questionType)
	if err != nil {
		return err
	}
	return compiled.Validate(parsed)
}

func compiledSchema(questionType quizModel.QuestionType) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(questionType); ok {
		return cached.(*jsonschema.Schema), nil
	}

	definition := shortAnswerSchema
	if questionType == quizModel.MultipleChoice {
		definition = multipleChoiceSchema
	}

	// The compiler wants a parsed JSON value, not a Go map with typed slices.
	defBytes, err := json.Marshal(definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", questionType)
	if err := compiler.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(questionType, compiled)
	return compiled, nil
}
