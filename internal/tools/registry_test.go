package tools

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/user/shopchat/internal/errors"
)

func echoTool(name string, params ...Param) *Spec {
	return NewSpec(name, "echo "+name, params, func(ctx context.Context, args map[string]interface{}) (string, error) {
		return name, nil
	})
}

func TestNewRegistry_PreservesOrder(t *testing.T) {
	reg, err := NewRegistry(echoTool("b"), echoTool("a"), echoTool("c"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	names := reg.Names()
	if len(names) != 3 || names[0] != "b" || names[1] != "a" || names[2] != "c" {
		t.Errorf("Expected [b a c], got %v", names)
	}
	if reg.Len() != 3 {
		t.Errorf("Expected Len 3, got %d", reg.Len())
	}
}

func TestNewRegistry_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		tools []Tool
	}{
		{"duplicate tool", []Tool{echoTool("a"), echoTool("a")}},
		{"empty name", []Tool{echoTool("")}},
		{"nil tool", []Tool{nil}},
		{"duplicate param", []Tool{echoTool("a",
			Param{Name: "x", Kind: KindString},
			Param{Name: "x", Kind: KindNumber},
		)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry(tt.tools...); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestNewRegistry_EmptyIsLegal(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("Expected empty registry, got %d tools", reg.Len())
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg := MustRegistry(echoTool("convert_currencies"), echoTool("search_products"))

	tool, err := reg.Lookup("search_products")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tool.Name() != "search_products" {
		t.Errorf("Expected search_products, got %s", tool.Name())
	}

	_, err = reg.Lookup("Search_Products")
	if err == nil {
		t.Fatal("Expected lookup to be case-sensitive")
	}

	var notFound *errors.ToolNotFoundError
	if !stderrors.As(err, &notFound) {
		t.Fatalf("Expected ToolNotFoundError, got %T", err)
	}
	if notFound.Tool != "Search_Products" {
		t.Errorf("Expected tool name in error, got '%s'", notFound.Tool)
	}
}

func TestMustRegistry_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for duplicate tool names")
		}
	}()
	MustRegistry(echoTool("a"), echoTool("a"))
}
