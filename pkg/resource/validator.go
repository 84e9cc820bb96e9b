package resource

// Validator checks and normalizes a raw payload before any store mutation.
// A non-nil error means the returned value must be ignored and nothing may
// be written. Implementations are stateless across calls and supplied at
// repository construction.
type Validator interface {
	Validate(payload map[string]any) (map[string]any, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(payload map[string]any) (map[string]any, error)

func (f ValidatorFunc) Validate(payload map[string]any) (map[string]any, error) {
	return f(payload)
}

// Identity returns the default validator: payloads pass through unchanged.
func Identity() Validator {
	return ValidatorFunc(func(payload map[string]any) (map[string]any, error) {
		return payload, nil
	})
}
