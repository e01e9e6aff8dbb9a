package reports

import (
	"fmt"
	"time"

	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SalesWorkbook lists every sold line on a "Sales" sheet and the period totals on a
// "Summary" sheet. Dates are shown in loc.
func SalesWorkbook(receipts []models.Receipt, period Period, loc *time.Location) (*xlsx.File, error) {
	if loc == nil {
		loc = time.UTC
	}
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales")
	if err != nil {
		return nil, fmt.Errorf("add sales sheet: %w", err)
	}

	headers := []string{
		"Date", "Receipt ID", "Customer", "Order Type",
		"Product", "Quantity", "Unit Price", "Line Total",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	revenue := decimal.Zero
	units := 0
	for _, r := range receipts {
		revenue = revenue.Add(r.Total)
		for _, it := range r.Items {
			units += it.Quantity
			row := sheet.AddRow()
			row.AddCell().SetValue(r.Date.In(loc).Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(r.ID)
			row.AddCell().SetValue(r.CustomerName)
			row.AddCell().SetValue(string(r.OrderType))
			row.AddCell().SetValue(it.Product)
			row.AddCell().SetInt(it.Quantity)
			row.AddCell().SetFloat(it.Price.InexactFloat64())
			row.AddCell().SetFloat(it.LineTotal().InexactFloat64())
		}
	}

	summary, err := file.AddSheet("Summary")
	if err != nil {
		return nil, fmt.Errorf("add summary sheet: %w", err)
	}
	addPair := func(label string, value interface{}) {
		row := summary.AddRow()
		row.AddCell().SetValue(label)
		row.AddCell().SetValue(value)
	}
	addPair("Period", string(period))
	addPair("Receipts", len(receipts))
	addPair("Units sold", units)
	addPair("Revenue", revenue.StringFixed(2))
	return file, nil
}
