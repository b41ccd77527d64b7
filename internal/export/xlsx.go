package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	budget "github.com/orcalabs/orcamentos-backend/internal/budgets"
)

const sheetName = "Budget"

// ContentType is the MIME type for the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Service renders budgets into downloadable documents.
type Service interface {
	Document(dto *budget.BudgetDTO) ([]byte, string, error)
}

type service struct{}

// NewService builds the spreadsheet export service.
func NewService() Service {
	return &service{}
}

// Document renders the budget as an XLSX workbook and returns the file bytes
// plus a suggested filename.
func (s *service) Document(dto *budget.BudgetDTO) ([]byte, string, error) {
	if dto == nil {
		return nil, "", fmt.Errorf("budget is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", fmt.Errorf("build header style: %w", err)
	}

	widths := map[string]float64{"A": 36, "B": 18, "C": 12, "D": 16}
	for col, width := range widths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, "", fmt.Errorf("set column width: %w", err)
		}
	}

	row := 1
	setCell := func(col string, value interface{}) {
		cell := fmt.Sprintf("%s%d", col, row)
		_ = f.SetCellValue(sheetName, cell, value)
	}
	boldRow := func() {
		_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), headerStyle)
	}

	setCell("A", "Customer")
	setCell("B", dto.CustomerName)
	boldRow()
	row++
	if dto.CustomerEmail != nil && *dto.CustomerEmail != "" {
		setCell("A", "Email")
		setCell("B", *dto.CustomerEmail)
		row++
	}
	if dto.CustomerPhone != "" {
		setCell("A", "Phone")
		setCell("B", dto.CustomerPhone)
		row++
	}
	setCell("A", "Status")
	setCell("B", dto.Status)
	row++
	setCell("A", "Issued")
	setCell("B", dto.CreatedAt.Format("2006-01-02"))
	row += 2

	setCell("A", "Item")
	setCell("B", "Unit Price")
	setCell("C", "Quantity")
	setCell("D", "Line Total")
	boldRow()
	row++

	for i := range dto.Items {
		item := &dto.Items[i]
		setCell("A", item.ProductName)
		setCell("B", cellAmount(item.ProductPrice))
		setCell("C", 1)
		setCell("D", cellAmount(item.TotalPrice))
		row++
		for _, addon := range item.Addons {
			setCell("A", "  + "+addon.Name)
			setCell("B", cellAmount(addon.Price))
			setCell("C", addon.Quantity)
			setCell("D", cellAmount(addon.Price.Mul(decimal.NewFromInt(int64(addon.Quantity))).Round(2)))
			row++
		}
	}
	row++

	setCell("A", "Subtotal")
	setCell("D", cellAmount(dto.Subtotal))
	row++
	setCell("A", "Discount")
	setCell("D", dto.DiscountPercent.StringFixed(2)+"%")
	row++
	setCell("A", "Total")
	setCell("D", cellAmount(dto.Total))
	boldRow()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	filename := fmt.Sprintf("budget-%s.xlsx", dto.ID)
	return buf.Bytes(), filename, nil
}

func cellAmount(value decimal.Decimal) float64 {
	return value.Round(2).InexactFloat64()
}
