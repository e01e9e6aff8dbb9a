package reports

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/junaidrashid-git/fastfood-pos/inventory"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

var productHeaders = []string{"ID", "Name", "Price", "Quantity", "Category", "Image", "CreatedAt", "UpdatedAt"}

func ProductsWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("add products sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range productHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetInt(p.Quantity)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

// ParseProductsWorkbook reads rows laid out like ProductsWorkbook. Rows without a name or
// with an unreadable price or quantity are skipped and counted.
func ParseProductsWorkbook(r io.ReaderAt, size int64) (rows []inventory.ProductInput, skipped int, err error) {
	file, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	if len(file.Sheets) == 0 || file.Sheets[0].MaxRow < 2 {
		return nil, 0, fmt.Errorf("excel file is empty or missing header row")
	}

	sheet := file.Sheets[0]
	for i := 1; i < sheet.MaxRow; i++ {
		row := sheet.Rows[i]
		if row == nil {
			skipped++
			continue
		}
		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		name := get(1)
		price, err1 := decimal.NewFromString(get(2))
		qty, err2 := strconv.Atoi(get(3))
		if name == "" || err1 != nil || err2 != nil {
			skipped++
			continue
		}
		rows = append(rows, inventory.ProductInput{
			Name:     name,
			Price:    price,
			Quantity: qty,
			Category: get(4),
			Image:    get(5),
		})
	}
	return rows, skipped, nil
}
