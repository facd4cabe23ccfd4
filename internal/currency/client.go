package currency

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/user/shopchat/internal/config"
	"github.com/user/shopchat/internal/errors"
	"github.com/user/shopchat/internal/logging"
)

const serviceName = "exchange-rates"

// Client converts amounts using an Open Exchange Rates compatible API.
// Rates are fetched on every call; nothing is cached.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	logger     *logging.Logger
}

// NewClient creates a new currency client
func NewClient(cfg config.CurrencyConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		appID:      cfg.AppID,
		logger:     logger,
	}
}

// Convert converts amount from one currency code to another and renders the
// result as "100 COP = 0.0251 USD"
func (c *Client) Convert(ctx context.Context, amount float64, from, to string) (string, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	for _, code := range []string{from, to} {
		if !isCurrencyCode(code) {
			return "", errors.NewValidationError(fmt.Sprintf("invalid currency code '%s'", code))
		}
	}

	currencies, err := c.get(ctx, "/currencies.json", nil)
	if err != nil {
		return "", err
	}
	for _, code := range []string{from, to} {
		if !gjson.GetBytes(currencies, code).Exists() {
			return "", errors.NewValidationError(fmt.Sprintf("unknown currency '%s'", code))
		}
	}

	latest, err := c.get(ctx, "/latest.json", url.Values{"app_id": {c.appID}})
	if err != nil {
		return "", err
	}

	fromRate, err := rate(latest, from)
	if err != nil {
		return "", err
	}
	toRate, err := rate(latest, to)
	if err != nil {
		return "", err
	}

	converted := amount / fromRate * toRate

	c.logger.Debug("Converted currency",
		logging.Float64("amount", amount),
		logging.String("from", from),
		logging.String("to", to),
		logging.Float64("result", converted),
	)

	return fmt.Sprintf("%s %s = %s %s", formatAmount(amount), from, formatAmount(roundResult(converted)), to), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamError(serviceName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewUpstreamError(serviceName, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(body, "description").String()
		if msg == "" {
			msg = gjson.GetBytes(body, "message").String()
		}
		return nil, errors.NewUpstreamError(serviceName, fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, msg))
	}

	if !gjson.ValidBytes(body) {
		return nil, errors.NewUpstreamError(serviceName, fmt.Errorf("%s returned malformed JSON", path))
	}

	return body, nil
}

func rate(latest []byte, code string) (float64, error) {
	r := gjson.GetBytes(latest, "rates."+code)
	if !r.Exists() {
		return 0, errors.NewValidationError(fmt.Sprintf("no exchange rate for '%s'", code))
	}
	if r.Type != gjson.Number || r.Float() <= 0 {
		return 0, errors.NewUpstreamError(serviceName, fmt.Errorf("invalid rate for %s: %s", code, r.Raw))
	}
	return r.Float(), nil
}

// isCurrencyCode accepts three ASCII letters, which also keeps the code safe
// to use inside a gjson path
func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// roundResult keeps 4 decimals, or 6 significant digits for values that
// would otherwise round to zero
func roundResult(v float64) float64 {
	if v == 0 || math.Abs(v) >= 1e-4 {
		return math.Round(v*1e4) / 1e4
	}
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 6, 64), 64)
	return rounded
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
