package tools

import (
	"context"

	"github.com/user/shopchat/internal/errors"
)

// ProductSearcher is the product Lookup Provider. Search returns a
// JSON-encoded array of product records.
type ProductSearcher interface {
	Search(ctx context.Context, name string) (string, error)
}

// SearchProductsTool exposes a ProductSearcher to the model
type SearchProductsTool struct {
	searcher ProductSearcher
}

// NewSearchProductsTool creates the search_products tool
func NewSearchProductsTool(searcher ProductSearcher) *SearchProductsTool {
	return &SearchProductsTool{searcher: searcher}
}

func (t *SearchProductsTool) Name() string {
	return "search_products"
}

func (t *SearchProductsTool) Description() string {
	return "Search the store catalog for products matching a name or description. Returns a JSON array of product records with title, price, url and availability."
}

func (t *SearchProductsTool) Params() []Param {
	return []Param{
		{Name: "name", Description: "Name or short description of the product the user is looking for", Kind: KindString, Required: true},
	}
}

func (t *SearchProductsTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	name, err := StringArg(args, "name")
	if err != nil {
		return "", errors.NewValidationError(err.Error())
	}
	return t.searcher.Search(ctx, name)
}
