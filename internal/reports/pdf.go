package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// encodePDF lays the report out from its structured data rather than by
// rendering the HTML markup. Print output carries the same content in a
// simpler visual form.
func (e *Emitter) encodePDF(doc *Document) (*Artifact, error) {
	f := NewFormatter(doc.Options.Locale, doc.Options.Currency)
	summary := doc.Result.Summary

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Formatter output is UTF-8 but the core fonts are cp1252, so every
	// string written to a cell goes through the translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(reportTitle(doc.Kind)+" - "+doc.Client.DisplayName()), false)
	pdf.SetAutoPageBreak(true, 20)

	pdf.SetHeaderFunc(func() {
		pdf.SetY(6)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(95, 6, tr(reportTitle(doc.Kind)), "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, tr(doc.Client.DisplayName()), "", 0, "R", false, 0, "")
		pdf.Ln(10)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Title block
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 12, tr(reportTitle(doc.Kind)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 7, tr("Prepared for "+doc.Client.DisplayName()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(f.FormatDate(doc.GeneratedAt)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Key metrics
	pdfSection(pdf, "Key Results")
	metrics := [][2]string{
		{"Projected portfolio value", f.FormatCurrency(summary.FinalPortfolioValue)},
		{"In today's money", f.FormatCurrency(summary.FinalRealValue)},
		{"Total contributions", f.FormatCurrency(summary.TotalContributions)},
		{"Total withdrawals", f.FormatCurrency(summary.TotalWithdrawals)},
		{"Average annual return", f.FormatPercent(summary.AverageReturn)},
		{"Sustainability rating", fmt.Sprintf("%d / 10", summary.SustainabilityRating)},
		{"Goal achieved", f.YesNo(summary.GoalAchieved)},
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(40, 40, 40)
	for _, m := range metrics {
		pdf.CellFormat(80, 7, tr(m[0]), "B", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, tr(m[1]), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	if len(summary.KeyInsights) > 0 {
		pdfSection(pdf, "Insights")
		pdf.SetFont("Helvetica", "", 10)
		for _, in := range summary.KeyInsights {
			pdf.MultiCell(0, 6, tr("- "+in), "", "L", false)
		}
		pdf.Ln(6)
	}

	if doc.Options.IncludeProjectionTable && len(doc.Result.Years) > 0 {
		pdfSection(pdf, "Projection")
		years := doc.Result.Years
		if doc.Options.ReportPeriodYears > 0 && len(years) > doc.Options.ReportPeriodYears {
			years = years[:doc.Options.ReportPeriodYears]
		}

		headers := []string{"Age", "Income", "Expenses", "Assets", "Real Terms"}
		widths := []float64{20, 40, 40, 45, 45}

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(226, 232, 240)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, y := range years {
			row := []string{
				fmt.Sprintf("%d", y.Age),
				f.FormatCurrency(y.Income),
				f.FormatCurrency(y.Expenses),
				f.FormatCurrency(y.AssetTotal),
				f.FormatCurrency(y.RealValue),
			}
			for i, cell := range row {
				align := "R"
				if i == 0 {
					align = "C"
				}
				pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	if doc.Options.IncludeRiskAnalysis {
		pdfSection(pdf, "Risk Assessment")
		pdf.SetFont("Helvetica", "", 10)
		risks := [][2]string{
			{"Shortfall risk", riskLabel(summary.Risk.Shortfall)},
			{"Longevity risk", riskLabel(summary.Risk.Longevity)},
			{"Inflation risk", riskLabel(summary.Risk.Inflation)},
			{"Sequence of returns", riskLabel(summary.Risk.Sequence)},
		}
		for _, r := range risks {
			pdf.CellFormat(80, 7, r[0], "B", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, r[1], "B", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return &Artifact{
		Bytes:       buf.Bytes(),
		ContentType: "application/pdf",
		Ext:         "pdf",
	}, nil
}

func pdfSection(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}
