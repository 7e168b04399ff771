package flow

import (
	"context"
	"encoding/json"
	"fmt"
)

// Run invokes f with a typed request and decodes the response into Out.
// Both sides go through their JSON encoding, so struct tags decide field
// names and omitempty fields count as absent.
func Run[In, Out any](ctx context.Context, f *Flow, in In) (Out, error) {
	var out Out

	raw, err := toJSONValue(in)
	if err != nil {
		return out, fmt.Errorf("%w: %s: encode request: %v", ErrInvalidInput, f.Name(), err)
	}

	resp, err := f.Invoke(ctx, raw)
	if err != nil {
		return out, err
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return out, fmt.Errorf("%s: encode response: %w", f.Name(), err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("%s: decode response: %w", f.Name(), err)
	}
	return out, nil
}

func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
