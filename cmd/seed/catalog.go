package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/internal/app/repository"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// catalogRow is one product line of the import sheet. Columns:
// name, manufacturer, category, price, stock, description.
type catalogRow struct {
	Name         string
	Manufacturer string
	Category     string
	Price        decimal.Decimal
	Stock        int
	Description  string
}

func readCatalogFromXLSX(filePath string) ([]catalogRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []catalogRow
	seen := make(map[string]bool)
	skipped := 0

	// header row first
	for i, row := range rows[1:] {
		line := i + 2
		product, err := parseCatalogRow(row)
		if err != nil {
			fmt.Printf("  row %d skipped: %v\n", line, err)
			skipped++
			continue
		}

		key := strings.ToLower(product.Manufacturer + "|" + product.Name)
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true
		products = append(products, product)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skipped)

	return products, nil
}

func parseCatalogRow(row []string) (catalogRow, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	product := catalogRow{
		Name:         cell(0),
		Manufacturer: cell(1),
		Category:     cell(2),
		Description:  cell(5),
	}
	if product.Name == "" {
		return catalogRow{}, errors.New("name is empty")
	}

	price, err := decimal.NewFromString(strings.ReplaceAll(cell(3), ",", "."))
	if err != nil || price.IsNegative() {
		return catalogRow{}, fmt.Errorf("invalid price %q", cell(3))
	}
	product.Price = price.Round(2)

	if raw := cell(4); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return catalogRow{}, fmt.Errorf("invalid stock %q", raw)
		}
		product.Stock = stock
	}
	return product, nil
}

// importCatalog creates missing manufacturers and all products.
func importCatalog(manufacturers repository.ManufacturerRepository, products repository.ProductRepository, rows []catalogRow) (int, error) {
	ids := make(map[string]uint)

	for _, row := range rows {
		product := &model.Product{
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			Stock:       row.Stock,
			Category:    row.Category,
		}

		if row.Manufacturer != "" {
			id, ok := ids[row.Manufacturer]
			if !ok {
				m, err := manufacturers.FindByName(row.Manufacturer)
				if errors.Is(err, gorm.ErrRecordNotFound) {
					m = &model.Manufacturer{Name: row.Manufacturer}
					err = manufacturers.Create(m)
				}
				if err != nil {
					return 0, fmt.Errorf("manufacturer %q: %w", row.Manufacturer, err)
				}
				id = m.ID
				ids[row.Manufacturer] = id
			}
			product.ManufacturerID = &id
		}

		if err := products.Create(product); err != nil {
			return 0, fmt.Errorf("product %q: %w", row.Name, err)
		}
	}
	return len(rows), nil
}
