package assets

import (
	"fmt"
	"strings"

	"github.com/curator-io/curator/pkg/resource"
)

var validKinds = map[string]struct{}{
	"video":    {},
	"image":    {},
	"audio":    {},
	"document": {},
}

// NewValidator returns the asset payload validator. It normalizes and
// checks the fields present in the payload; fields the payload omits are
// not required, so the same validator serves both creates and updates.
func NewValidator() resource.Validator {
	return resource.ValidatorFunc(func(payload map[string]any) (map[string]any, error) {
		value := make(map[string]any, len(payload))
		for k, v := range payload {
			value[k] = v
		}

		if raw, ok := value["name"]; ok {
			name, _ := raw.(string)
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, fmt.Errorf("name must be a non-empty string")
			}
			value["name"] = name
		}

		if raw, ok := value["kind"]; ok {
			kind, _ := raw.(string)
			if _, valid := validKinds[kind]; !valid {
				return nil, fmt.Errorf("invalid kind: %v", raw)
			}
		}

		for _, field := range []string{"size", "duration"} {
			if raw, ok := value[field]; ok {
				n, err := asNumber(raw)
				if err != nil {
					return nil, fmt.Errorf("%s must be numeric", field)
				}
				if n < 0 {
					return nil, fmt.Errorf("%s cannot be negative", field)
				}
			}
		}

		if raw, ok := value["status"]; ok {
			n, err := asNumber(raw)
			if err != nil || n != float64(int(n)) || int(n) < int(resource.StatusInactive) || int(n) > int(resource.StatusDeleted) {
				return nil, fmt.Errorf("invalid status: %v", raw)
			}
		}

		return value, nil
	})
}

func asNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}
