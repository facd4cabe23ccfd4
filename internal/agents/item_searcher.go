package agents

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/user/shopchat/internal/errors"
	"github.com/user/shopchat/internal/llm"
	"github.com/user/shopchat/internal/llmtypes"
	"github.com/user/shopchat/internal/logging"
	"github.com/user/shopchat/internal/prompts"
)

// ItemSearcher asks the model which entries of a numbered list match a query
type ItemSearcher struct {
	client  llm.LLMClient
	prompts *prompts.Manager
	logger  *logging.Logger

	// OnValidationFailure defaults to PolicyReturnEmpty: provider errors and
	// malformed replies become "no relevant items"
	OnValidationFailure FailurePolicy
	MaxTokens           int
	Temperature         float64
}

// NewItemSearcher creates an ItemSearcher with PolicyReturnEmpty
func NewItemSearcher(client llm.LLMClient, promptManager *prompts.Manager, logger *logging.Logger) *ItemSearcher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ItemSearcher{
		client:              client,
		prompts:             promptManager,
		logger:              logger,
		OnValidationFailure: PolicyReturnEmpty,
	}
}

// SearchItems returns the 0-based positions in items the model considers
// relevant to query, in the order the model listed them. constraint is an
// optional instruction such as "select at most 2 items". Positions outside
// items and repeats are discarded.
func (s *ItemSearcher) SearchItems(ctx context.Context, query string, items []string, constraint string) ([]int, error) {
	if len(items) == 0 {
		return []int{}, nil
	}

	indices, err := s.search(ctx, query, items, constraint)
	if err != nil {
		if s.OnValidationFailure == PolicyReturnEmpty {
			s.logger.Warn("Item search failed, reporting no relevant items",
				logging.String("query", query),
				logging.Error(err),
			)
			return []int{}, nil
		}
		return nil, err
	}
	return indices, nil
}

func (s *ItemSearcher) search(ctx context.Context, query string, items []string, constraint string) ([]int, error) {
	systemPrompt, err := s.prompts.Render(prompts.ItemSearchSystem, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to render item search system prompt: %w", err)
	}
	userPrompt, err := s.prompts.Render(prompts.ItemSearchUser, map[string]interface{}{
		"Query":      query,
		"Items":      items,
		"Constraint": constraint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render item search prompt: %w", err)
	}

	s.logger.Debug("Searching items",
		logging.String("query", query),
		logging.Int("candidates", len(items)),
	)

	resp, err := s.client.GenerateCompletion(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Messages: []llm.Message{
			{Role: llmtypes.RoleUser, Content: userPrompt},
		},
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("item search LLM call failed: %w", err)
	}

	positions, err := ParseIndexArray(resp.Content)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(positions))
	indices := make([]int, 0, len(positions))
	for _, p := range positions {
		if p < 1 || p > len(items) || seen[p] {
			continue
		}
		seen[p] = true
		indices = append(indices, p-1)
	}

	s.logger.Debug("Item search selected",
		logging.Int("selected", len(indices)),
		logging.Int("returned", len(positions)),
	)
	return indices, nil
}

// ParseIndexArray validates that content is a bare JSON array of integers
func ParseIndexArray(content string) ([]int, error) {
	content = strings.TrimSpace(content)
	if !gjson.Valid(content) {
		return nil, errors.NewValidationError(fmt.Sprintf("item search reply is not JSON: %q", content))
	}

	parsed := gjson.Parse(content)
	if !parsed.IsArray() {
		return nil, errors.NewValidationError(fmt.Sprintf("item search reply is not a JSON array: %q", content))
	}

	var out []int
	var invalid error
	parsed.ForEach(func(_, value gjson.Result) bool {
		f := value.Float()
		if value.Type != gjson.Number || f != math.Trunc(f) {
			invalid = errors.NewValidationError(fmt.Sprintf("item search reply contains a non-integer element: %s", value.Raw))
			return false
		}
		out = append(out, int(f))
		return true
	})
	if invalid != nil {
		return nil, invalid
	}
	return out, nil
}
