package tools

import (
	"fmt"

	"github.com/user/shopchat/internal/errors"
)

// Registry is an ordered, name-unique set of tools. It is built once per
// request and never mutated afterwards.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

// NewRegistry creates a registry preserving the given order. Duplicate tool
// names and duplicate parameter names within one tool are rejected.
func NewRegistry(tools ...Tool) (*Registry, error) {
	reg := &Registry{
		tools:  make([]Tool, 0, len(tools)),
		byName: make(map[string]Tool, len(tools)),
	}

	for _, tool := range tools {
		if tool == nil {
			return nil, fmt.Errorf("nil tool at position %d", len(reg.tools))
		}
		name := tool.Name()
		if name == "" {
			return nil, fmt.Errorf("tool at position %d has an empty name", len(reg.tools))
		}
		if _, exists := reg.byName[name]; exists {
			return nil, fmt.Errorf("duplicate tool name '%s'", name)
		}

		seen := make(map[string]bool)
		for _, p := range tool.Params() {
			if seen[p.Name] {
				return nil, fmt.Errorf("tool '%s' declares parameter '%s' twice", name, p.Name)
			}
			seen[p.Name] = true
		}

		reg.tools = append(reg.tools, tool)
		reg.byName[name] = tool
	}

	return reg, nil
}

// MustRegistry is NewRegistry for statically known tool sets
func MustRegistry(tools ...Tool) *Registry {
	reg, err := NewRegistry(tools...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Lookup finds a tool by exact name
func (r *Registry) Lookup(name string) (Tool, error) {
	if tool, ok := r.byName[name]; ok {
		return tool, nil
	}
	return nil, errors.NewToolNotFoundError(name, r.Names())
}

// Tools returns the tools in registry order
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Names returns the tool names in registry order
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, tool := range r.tools {
		names[i] = tool.Name()
	}
	return names
}

// Len returns the number of tools
func (r *Registry) Len() int {
	return len(r.tools)
}
