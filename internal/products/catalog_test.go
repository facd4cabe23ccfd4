package products

import (
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/shopchat/internal/errors"
	testHelpers "github.com/user/shopchat/internal/testing"
)

func TestParseCSV(t *testing.T) {
	products, err := ParseCSV(strings.NewReader(testHelpers.SampleCatalogCSV()))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(products) != 3 {
		t.Fatalf("Expected 3 products (untitled row skipped), got %d", len(products))
	}

	first := products[0]
	if first.DisplayTitle != "iPhone 12" || first.Price != "900.0 USD" || !first.Available {
		t.Errorf("Unexpected first product: %+v", first)
	}
	if first.URL != "https://shop.example.com/iphone-12" || first.ImageURL != "https://img.example.com/iphone-12.jpg" {
		t.Errorf("Expected urls to be parsed, got %+v", first)
	}
	if products[2].Variants != "42, 43, 44" {
		t.Errorf("Expected quoted field to keep commas, got %q", products[2].Variants)
	}
	if products[2].Available {
		t.Error("Expected Nike Air Max to be unavailable")
	}
}

func TestParseCSV_HeaderHandling(t *testing.T) {
	csv := "\ufeffDISPLAYTITLE,Price,internalId\nDesk Lamp,25 USD,abc-1\n"
	products, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(products) != 1 || products[0].DisplayTitle != "Desk Lamp" || products[0].Price != "25 USD" {
		t.Errorf("Expected case-insensitive header and unknown columns ignored, got %+v", products)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty", ""},
		{"no title column", "price,url\n1,https://x\n"},
		{"unterminated quote", "displayTitle,price\n\"Lamp,25\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCSV(strings.NewReader(tt.csv)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := testHelpers.WriteFile(t, dir, "products.csv", testHelpers.SampleCatalogCSV())

	catalog, err := LoadCatalog(path, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if catalog.Len() != 3 {
		t.Errorf("Expected 3 products, got %d", catalog.Len())
	}

	titles := catalog.Titles()
	if strings.Join(titles, "|") != "iPhone 12|Samsung Galaxy S21|Nike Air Max" {
		t.Errorf("Unexpected titles: %v", titles)
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.csv"), nil)

	var missing *errors.MissingFileError
	if !stderrors.As(err, &missing) {
		t.Fatalf("Expected MissingFileError, got %v", err)
	}
}
