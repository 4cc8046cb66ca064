package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// encodeExcel writes the structured projection into a workbook with a
// summary sheet and a year-by-year data sheet. Numbers are written as
// numbers so the workbook stays usable for further analysis.
func (e *Emitter) encodeExcel(doc *Document) (*Artifact, error) {
	f := NewFormatter(doc.Options.Locale, doc.Options.Currency)
	summary := doc.Result.Summary

	wb := excelize.NewFile()
	defer wb.Close()

	const summarySheet = "Summary"
	const dataSheet = "Projection"

	wb.SetSheetName("Sheet1", summarySheet)
	if _, err := wb.NewSheet(dataSheet); err != nil {
		return nil, fmt.Errorf("failed to create projection sheet: %w", err)
	}

	titleStyle, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Color: "1E293B"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"334155"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	moneyStyle, err := wb.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	// Summary sheet
	wb.SetCellValue(summarySheet, "A1", reportTitle(doc.Kind))
	wb.SetCellStyle(summarySheet, "A1", "A1", titleStyle)
	wb.SetCellValue(summarySheet, "A2", "Client: "+doc.Client.DisplayName())
	wb.SetCellValue(summarySheet, "A3", "Generated: "+f.FormatDate(doc.GeneratedAt))

	rows := []struct {
		label string
		value interface{}
	}{
		{"Projected portfolio value", summary.FinalPortfolioValue},
		{"In today's money", summary.FinalRealValue},
		{"Total contributions", summary.TotalContributions},
		{"Total withdrawals", summary.TotalWithdrawals},
		{"Average annual return", f.FormatPercent(summary.AverageReturn)},
		{"Sustainability rating (0-10)", summary.SustainabilityRating},
		{"Goal achieved", f.YesNo(summary.GoalAchieved)},
		{"Shortfall risk", riskLabel(summary.Risk.Shortfall)},
		{"Longevity risk", riskLabel(summary.Risk.Longevity)},
		{"Inflation risk", riskLabel(summary.Risk.Inflation)},
		{"Sequence of returns risk", riskLabel(summary.Risk.Sequence)},
	}
	for i, r := range rows {
		rowNum := 5 + i
		wb.SetCellValue(summarySheet, fmt.Sprintf("A%d", rowNum), r.label)
		cell := fmt.Sprintf("B%d", rowNum)
		wb.SetCellValue(summarySheet, cell, r.value)
		if _, ok := r.value.(float64); ok {
			wb.SetCellStyle(summarySheet, cell, cell, moneyStyle)
		}
	}
	wb.SetColWidth(summarySheet, "A", "A", 32)
	wb.SetColWidth(summarySheet, "B", "B", 20)

	// Projection sheet
	headers := []string{"Year", "Age", "Income", "Expenses", "Pension", "Investments", "Cash", "Total Assets", "Real Terms", "Surplus"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		wb.SetCellValue(dataSheet, cell, h)
		wb.SetCellStyle(dataSheet, cell, cell, headerStyle)
	}
	for r, y := range doc.Result.Years {
		values := []interface{}{
			y.Year, y.Age, y.Income, y.Expenses,
			y.PensionValue, y.InvestmentValue, y.CashValue,
			y.AssetTotal, y.RealValue, y.Surplus,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			wb.SetCellValue(dataSheet, cell, v)
			if c >= 2 {
				wb.SetCellStyle(dataSheet, cell, cell, moneyStyle)
			}
		}
	}
	wb.SetColWidth(dataSheet, "A", "J", 14)

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	return &Artifact{
		Bytes:       buf.Bytes(),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Ext:         "xlsx",
	}, nil
}
