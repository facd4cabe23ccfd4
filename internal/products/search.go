package products

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/shopchat/internal/errors"
)

// MaxResults is the most products a search returns
const MaxResults = 2

// SearchConstraint is passed to the Selector with every query
var SearchConstraint = fmt.Sprintf("select at most %d items", MaxResults)

// Selector picks relevant entries from a list; agents.ItemSearcher
// implements it. Returned indices are 0-based.
type Selector interface {
	SearchItems(ctx context.Context, query string, items []string, constraint string) ([]int, error)
}

// Search returns the products matching name as a JSON array. An empty
// selection is a NotFoundError.
func (c *Catalog) Search(ctx context.Context, name string) (string, error) {
	if c.selector == nil {
		return "", fmt.Errorf("catalog has no selector configured")
	}

	indices, err := c.selector.SearchItems(ctx, name, c.Titles(), SearchConstraint)
	if err != nil {
		return "", fmt.Errorf("product search failed: %w", err)
	}

	var matches []Product
	for _, idx := range indices {
		if idx < 0 || idx >= len(c.products) {
			continue
		}
		matches = append(matches, c.products[idx])
		if len(matches) == MaxResults {
			break
		}
	}

	if len(matches) == 0 {
		return "", errors.NewNotFoundError("products", name)
	}

	data, err := json.Marshal(matches)
	if err != nil {
		return "", fmt.Errorf("failed to encode products: %w", err)
	}
	return string(data), nil
}
