package tools

import (
	"context"
	"strings"

	"github.com/user/shopchat/internal/errors"
)

// CurrencyConverter is the currency Lookup Provider
type CurrencyConverter interface {
	Convert(ctx context.Context, amount float64, from, to string) (string, error)
}

// ConvertCurrenciesTool exposes a CurrencyConverter to the model
type ConvertCurrenciesTool struct {
	converter CurrencyConverter
}

// NewConvertCurrenciesTool creates the convert_currencies tool
func NewConvertCurrenciesTool(converter CurrencyConverter) *ConvertCurrenciesTool {
	return &ConvertCurrenciesTool{converter: converter}
}

func (t *ConvertCurrenciesTool) Name() string {
	return "convert_currencies"
}

func (t *ConvertCurrenciesTool) Description() string {
	return "Convert an amount of money from one currency to another using current exchange rates. Currencies are ISO 4217 codes such as USD, EUR or COP."
}

func (t *ConvertCurrenciesTool) Params() []Param {
	return []Param{
		{Name: "amount", Description: "The amount of money to convert", Kind: KindNumber, Required: true},
		{Name: "from", Description: "ISO 4217 code of the source currency", Kind: KindString, Required: true},
		{Name: "to", Description: "ISO 4217 code of the target currency", Kind: KindString, Required: true},
	}
}

func (t *ConvertCurrenciesTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	amount, err := NumberArg(args, "amount")
	if err != nil {
		return "", errors.NewValidationError(err.Error())
	}
	from, err := StringArg(args, "from")
	if err != nil {
		return "", errors.NewValidationError(err.Error())
	}
	to, err := StringArg(args, "to")
	if err != nil {
		return "", errors.NewValidationError(err.Error())
	}

	return t.converter.Convert(ctx, amount, strings.ToUpper(from), strings.ToUpper(to))
}
