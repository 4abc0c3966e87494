package llm

import "context"

// Provider is the single abstraction over the generative model. Every
// model-backed step (question generation, entailment judging, feedback)
// goes through Generate.
type Provider interface {
	Generate(ctx context.Context, systemInstruction string, prompt string) (string, error)
}
