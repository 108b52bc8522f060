package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleCatalog creates bulk-init catalog files for manual testing.
// catalog.json and catalog.json.gz hold the same valid products;
// invalid.json fails validation on every entry.
func main() {
	dataDir := "data/catalogs"

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	valid := []map[string]any{
		{"name": "Mechanical Keyboard", "description": "Hot-swappable switches", "unitPrice": 89.90, "unitWeight": 0.9, "categoryId": 1},
		{"name": "USB-C Hub", "description": "Seven ports", "unitPrice": 34.50, "unitWeight": 0.2, "categoryId": 1},
		{"name": "The Go Programming Language", "description": "Donovan and Kernighan", "unitPrice": 39.99, "unitWeight": 0.8, "categoryId": 2},
		{"name": "Desk Lamp", "description": "", "unitPrice": 24.00, "unitWeight": 1.1, "categoryId": 3},
	}
	invalid := []map[string]any{
		{"name": "", "description": "missing name", "unitPrice": 10, "unitWeight": 1, "categoryId": 1},
		{"name": "Free thing", "description": "zero price", "unitPrice": 0, "unitWeight": 1, "categoryId": 1},
		{"name": "Odd category", "description": "fractional category", "unitPrice": 5, "unitWeight": 1, "categoryId": 1.5},
	}

	files := []struct {
		name     string
		products []map[string]any
		gzip     bool
	}{
		{name: "catalog.json", products: valid},
		{name: "catalog.json.gz", products: valid, gzip: true},
		{name: "invalid.json", products: invalid},
	}

	for _, f := range files {
		filePath := filepath.Join(dataDir, f.name)
		if err := createCatalogFile(filePath, f.products, f.gzip); err != nil {
			log.Fatalf("Failed to create %s: %v", f.name, err)
		}
		fmt.Printf("Created %s with %d products\n", filePath, len(f.products))
	}

	fmt.Println("\nSample catalog files created successfully!")
	fmt.Println("\nTry:")
	fmt.Printf("  storefront admin init -file %s\n", filepath.Join(dataDir, "catalog.json"))
	fmt.Printf("  storefront admin init -file %s\n", filepath.Join(dataDir, "invalid.json"))
}

func createCatalogFile(filePath string, products []map[string]any, compress bool) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	var enc *json.Encoder
	if compress {
		gzipWriter := gzip.NewWriter(file)
		defer gzipWriter.Close()
		enc = json.NewEncoder(gzipWriter)
	} else {
		enc = json.NewEncoder(file)
	}
	enc.SetIndent("", "  ")

	if err := enc.Encode(products); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
