package assets

import "testing"

func TestValidator(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name    string
		payload map[string]any
		wantErr bool
	}{
		{"valid create", map[string]any{"name": "clip", "kind": "video", "size": 10.5}, false},
		{"partial update without name", map[string]any{"description": "updated"}, false},
		{"empty name", map[string]any{"name": "   "}, true},
		{"non-string name", map[string]any{"name": 42}, true},
		{"unknown kind", map[string]any{"name": "clip", "kind": "hologram"}, true},
		{"negative size", map[string]any{"name": "clip", "size": -1}, true},
		{"non-numeric duration", map[string]any{"name": "clip", "duration": "long"}, true},
		{"valid status", map[string]any{"status": 1}, false},
		{"status out of range", map[string]any{"status": 7}, true},
		{"fractional status", map[string]any{"status": 1.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.Validate(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatorNormalizesName(t *testing.T) {
	validator := NewValidator()

	value, err := validator.Validate(map[string]any{"name": "  clip  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value["name"] != "clip" {
		t.Errorf("name: got %q, want clip", value["name"])
	}
}

func TestValidatorDoesNotMutatePayload(t *testing.T) {
	validator := NewValidator()
	payload := map[string]any{"name": "  clip  "}

	if _, err := validator.Validate(payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload["name"] != "  clip  " {
		t.Error("validator mutated the caller's payload")
	}
}
