package flow

import (
	"context"
	"fmt"
	"slices"
)

// Registry maps flow names to flows. It is immutable after construction.
type Registry struct {
	flows map[string]*Flow
	names []string
}

// NewRegistry indexes flows by name. Duplicate names are rejected.
func NewRegistry(flows ...*Flow) (*Registry, error) {
	r := &Registry{flows: make(map[string]*Flow, len(flows))}
	for _, f := range flows {
		if f == nil {
			return nil, fmt.Errorf("%w: nil flow", ErrInvalidDefinition)
		}
		if _, dup := r.flows[f.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate flow name %q", ErrInvalidDefinition, f.Name())
		}
		r.flows[f.Name()] = f
		r.names = append(r.names, f.Name())
	}
	slices.Sort(r.names)
	return r, nil
}

// Get returns the named flow or ErrUnknownFlow.
func (r *Registry) Get(name string) (*Flow, error) {
	f, ok := r.flows[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFlow, name)
	}
	return f, nil
}

// Names returns the flow names in sorted order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Flows returns the flows sorted by name.
func (r *Registry) Flows() []*Flow {
	out := make([]*Flow, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.flows[name])
	}
	return out
}

// Invoke runs the named flow.
func (r *Registry) Invoke(ctx context.Context, name string, raw any) (map[string]any, error) {
	f, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return f.Invoke(ctx, raw)
}
