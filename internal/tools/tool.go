package tools

import (
	"context"
)

// Kind is the JSON-schema type of a tool parameter
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
)

// Param describes one argument of a tool
type Param struct {
	Name        string
	Description string
	Kind        Kind
	Required    bool
}

// Tool is the interface that all tools must implement
type Tool interface {
	// Name returns the tool name, unique within a registry
	Name() string

	// Description returns a description of what the tool does
	Description() string

	// Params returns the ordered parameter list
	Params() []Param

	// Execute runs the tool with arguments decoded from the model's JSON
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

// InvokeFunc is the callback behind a Spec
type InvokeFunc func(ctx context.Context, args map[string]interface{}) (string, error)

// Spec is a Tool backed by a closure. Request handlers use it to bind
// request-scoped collaborators without declaring a type per tool.
type Spec struct {
	name        string
	description string
	params      []Param
	invoke      InvokeFunc
}

// NewSpec creates a closure-backed tool
func NewSpec(name, description string, params []Param, invoke InvokeFunc) *Spec {
	return &Spec{
		name:        name,
		description: description,
		params:      params,
		invoke:      invoke,
	}
}

func (s *Spec) Name() string {
	return s.name
}

func (s *Spec) Description() string {
	return s.description
}

func (s *Spec) Params() []Param {
	return s.params
}

func (s *Spec) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	return s.invoke(ctx, args)
}
