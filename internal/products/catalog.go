package products

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/user/shopchat/internal/errors"
)

// Product is one catalog row
type Product struct {
	DisplayTitle  string `json:"displayTitle"`
	EmbeddingText string `json:"embeddingText,omitempty"`
	URL           string `json:"url,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	ProductType   string `json:"productType,omitempty"`
	Discount      string `json:"discount,omitempty"`
	Price         string `json:"price,omitempty"`
	Variants      string `json:"variants,omitempty"`
	CreateDate    string `json:"createDate,omitempty"`
	Available     bool   `json:"available"`
}

// columnSetters maps lower-cased header names to the field they fill
var columnSetters = map[string]func(p *Product, v string){
	"displaytitle":  func(p *Product, v string) { p.DisplayTitle = v },
	"embeddingtext": func(p *Product, v string) { p.EmbeddingText = v },
	"url":           func(p *Product, v string) { p.URL = v },
	"imageurl":      func(p *Product, v string) { p.ImageURL = v },
	"producttype":   func(p *Product, v string) { p.ProductType = v },
	"discount":      func(p *Product, v string) { p.Discount = v },
	"price":         func(p *Product, v string) { p.Price = v },
	"variants":      func(p *Product, v string) { p.Variants = v },
	"createdate":    func(p *Product, v string) { p.CreateDate = v },
	"available": func(p *Product, v string) {
		b, err := strconv.ParseBool(v)
		p.Available = err == nil && b
	},
}

// Catalog is the read-only product list loaded at startup
type Catalog struct {
	products []Product
	selector Selector
}

// LoadCatalog reads the product CSV at path
func LoadCatalog(path string, selector Selector) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingFileError(path, err)
		}
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	products, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	return NewCatalog(products, selector), nil
}

// NewCatalog creates a catalog from already parsed products
func NewCatalog(products []Product, selector Selector) *Catalog {
	return &Catalog{products: products, selector: selector}
}

// ParseCSV parses a catalog with a header row. Header names are matched
// case-insensitively, unknown columns are ignored and rows without a title
// are skipped.
func ParseCSV(r io.Reader) ([]Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("catalog is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	setters := make([]func(p *Product, v string), len(header))
	hasTitle := false
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		setters[i] = columnSetters[key]
		if key == "displaytitle" {
			hasTitle = true
		}
	}
	if !hasTitle {
		return nil, fmt.Errorf("catalog header has no displayTitle column")
	}

	var products []Product
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		var p Product
		for i, value := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&p, strings.TrimSpace(value))
			}
		}
		if p.DisplayTitle == "" {
			continue
		}
		products = append(products, p)
	}

	return products, nil
}

// Products returns a copy of the catalog rows
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// Titles returns the display titles in catalog order
func (c *Catalog) Titles() []string {
	titles := make([]string, len(c.products))
	for i, p := range c.products {
		titles[i] = p.DisplayTitle
	}
	return titles
}
