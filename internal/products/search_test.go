package products

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/user/shopchat/internal/agents"
	"github.com/user/shopchat/internal/errors"
	"github.com/user/shopchat/internal/llm"
	"github.com/user/shopchat/internal/logging"
	"github.com/user/shopchat/internal/prompts"
	testHelpers "github.com/user/shopchat/internal/testing"
)

type fakeSelector struct {
	indices    []int
	err        error
	query      string
	items      []string
	constraint string
}

func (f *fakeSelector) SearchItems(ctx context.Context, query string, items []string, constraint string) ([]int, error) {
	f.query, f.items, f.constraint = query, items, constraint
	return f.indices, f.err
}

func sampleCatalog(t *testing.T, selector Selector) *Catalog {
	t.Helper()
	products, err := ParseCSV(strings.NewReader(testHelpers.SampleCatalogCSV()))
	if err != nil {
		t.Fatalf("Failed to parse sample catalog: %v", err)
	}
	return NewCatalog(products, selector)
}

func TestCatalog_Search(t *testing.T) {
	selector := &fakeSelector{indices: []int{1, 0, 2}}
	catalog := sampleCatalog(t, selector)

	result, err := catalog.Search(context.Background(), "smartphone")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded []Product
	if err := json.Unmarshal([]byte(result), &decoded); err != nil {
		t.Fatalf("Expected JSON array of products, got %s", result)
	}
	if len(decoded) != MaxResults {
		t.Fatalf("Expected %d products, got %d", MaxResults, len(decoded))
	}
	if decoded[0].DisplayTitle != "Samsung Galaxy S21" || decoded[1].DisplayTitle != "iPhone 12" {
		t.Errorf("Expected selection order preserved, got %+v", decoded)
	}

	if selector.query != "smartphone" {
		t.Errorf("Expected query to be forwarded, got %q", selector.query)
	}
	if selector.constraint != "select at most 2 items" {
		t.Errorf("Expected constraint 'select at most 2 items', got %q", selector.constraint)
	}
	if len(selector.items) != 3 {
		t.Errorf("Expected 3 candidate titles, got %v", selector.items)
	}
}

func TestCatalog_Search_NotFound(t *testing.T) {
	for _, indices := range [][]int{nil, {}, {7, -1}} {
		catalog := sampleCatalog(t, &fakeSelector{indices: indices})

		_, err := catalog.Search(context.Background(), "unicorn")

		var notFound *errors.NotFoundError
		if !stderrors.As(err, &notFound) {
			t.Fatalf("Expected NotFoundError for %v, got %v", indices, err)
		}
		if errors.HTTPStatus(err) != 404 {
			t.Errorf("Expected status 404, got %d", errors.HTTPStatus(err))
		}
	}
}

func TestCatalog_Search_SelectorError(t *testing.T) {
	catalog := sampleCatalog(t, &fakeSelector{err: stderrors.New("boom")})

	if _, err := catalog.Search(context.Background(), "phone"); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestCatalog_Search_WithItemSearcher(t *testing.T) {
	promptManager, err := prompts.NewManager("")
	if err != nil {
		t.Fatalf("Failed to load prompts: %v", err)
	}

	mock := testHelpers.NewMockLLMClient(testHelpers.TextResponse("[1]"))
	searcher := agents.NewItemSearcher(mock, promptManager, logging.NewNopLogger())
	catalog := sampleCatalog(t, searcher)

	result, err := catalog.Search(context.Background(), "iphone")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	testHelpers.AssertContains(t, result, `"displayTitle":"iPhone 12"`)

	// Malformed model output is downgraded to no results, which the catalog
	// reports as not found
	mock.Reset()
	mock.Responses = []llm.CompletionResponse{testHelpers.TextResponse("I think the iPhone")}
	_, err = catalog.Search(context.Background(), "iphone")
	var notFound *errors.NotFoundError
	if !stderrors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}
