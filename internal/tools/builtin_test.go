package tools

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/user/shopchat/internal/errors"
)

type fakeConverter struct {
	calls  int
	amount float64
	from   string
	to     string
}

func (f *fakeConverter) Convert(ctx context.Context, amount float64, from, to string) (string, error) {
	f.calls++
	f.amount, f.from, f.to = amount, from, to
	return "100 COP = 0.0251 USD", nil
}

type fakeSearcher struct {
	query string
	err   error
}

func (f *fakeSearcher) Search(ctx context.Context, name string) (string, error) {
	f.query = name
	if f.err != nil {
		return "", f.err
	}
	return `[{"displayTitle":"iPhone 12"}]`, nil
}

func TestConvertCurrenciesTool(t *testing.T) {
	conv := &fakeConverter{}
	tool := NewConvertCurrenciesTool(conv)

	if tool.Name() != "convert_currencies" {
		t.Errorf("Expected name 'convert_currencies', got '%s'", tool.Name())
	}
	if len(tool.Params()) != 3 {
		t.Errorf("Expected 3 params, got %d", len(tool.Params()))
	}

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"amount": float64(100), "from": "cop", "to": "usd",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "100 COP = 0.0251 USD" {
		t.Errorf("Unexpected result %q", result)
	}
	if conv.amount != 100 || conv.from != "COP" || conv.to != "USD" {
		t.Errorf("Expected normalized arguments, got %v %s %s", conv.amount, conv.from, conv.to)
	}
}

func TestConvertCurrenciesTool_InvalidArguments(t *testing.T) {
	conv := &fakeConverter{}
	tool := NewConvertCurrenciesTool(conv)

	_, err := tool.Execute(context.Background(), map[string]interface{}{"amount": "lots", "from": "COP", "to": "USD"})
	var validation *errors.ValidationError
	if !stderrors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if conv.calls != 0 {
		t.Errorf("Expected converter not to be called, got %d calls", conv.calls)
	}
}

func TestSearchProductsTool(t *testing.T) {
	searcher := &fakeSearcher{}
	tool := NewSearchProductsTool(searcher)

	result, err := tool.Execute(context.Background(), map[string]interface{}{"name": "iphone"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != `[{"displayTitle":"iPhone 12"}]` {
		t.Errorf("Unexpected result %q", result)
	}
	if searcher.query != "iphone" {
		t.Errorf("Expected query 'iphone', got '%s'", searcher.query)
	}
}

func TestSearchProductsTool_PropagatesNotFound(t *testing.T) {
	tool := NewSearchProductsTool(&fakeSearcher{err: errors.NewNotFoundError("products", "unicorn")})

	_, err := tool.Execute(context.Background(), map[string]interface{}{"name": "unicorn"})
	var notFound *errors.NotFoundError
	if !stderrors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}
