package services

import (
	"fmt"
	"io"
	"strings"

	"estimator-backend/calculator"
	"estimator-backend/models"

	"github.com/xuri/excelize/v2"
)

const (
	submissionsSheet = "Submissions"
	summarySheet     = "Summary"
)

var submissionColumns = []string{
	"ID", "Created At", "Name", "Email", "Phone", "Company",
	"Project Type", "Industries", "Services", "Features", "Platforms",
	"Integrations", "Tech Stack", "Scope", "Team", "Timeline", "Support",
	"Currency", "Final Price", "GST", "Total With GST", "Estimate Range",
}

const finalPriceColumn = "Final Price"

func columnIndex(title string) int {
	for i, c := range submissionColumns {
		if c == title {
			return i
		}
	}
	panic("export: unknown column " + title)
}

// WriteSubmissionsWorkbook writes one row per submission plus a summary sheet.
func WriteSubmissionsWorkbook(w io.Writer, subs []models.CalculatorSubmission) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", submissionsSheet); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F0F0F0"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, title := range submissionColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(submissionsSheet, cell, title)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(submissionColumns), 1)
	f.SetCellStyle(submissionsSheet, "A1", lastHeader, style)

	join := func(sel calculator.Selections, field string) string {
		return strings.Join(sel.Strings(field), ", ")
	}

	for r, sub := range subs {
		sel := sub.Selections
		res := sub.Result
		values := []any{
			sub.ID,
			sub.CreatedAt.Format("2006-01-02 15:04:05"),
			sub.ContactInfo.Name,
			sub.ContactInfo.Email,
			sub.ContactInfo.Phone,
			sub.ContactInfo.Company,
			sel.String(calculator.FieldProjectType),
			join(sel, calculator.FieldSelectedIndustries),
			join(sel, calculator.FieldSelectedServices),
			join(sel, calculator.FieldSelectedFeatures),
			join(sel, calculator.FieldSelectedPlatforms),
			join(sel, calculator.FieldSelectedIntegrations),
			join(sel, calculator.FieldSelectedTechStack),
			sel.String(calculator.FieldScope),
			sel.String(calculator.FieldTeam),
			sel.String(calculator.FieldTimeline),
			sel.String(calculator.FieldSupport),
			res.Currency,
			res.FinalPrice.InexactFloat64(),
			res.GSTAmount.InexactFloat64(),
			res.TotalWithGST.InexactFloat64(),
			res.EstimateRange,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(submissionsSheet, cell, v)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	f.SetCellValue(summarySheet, "A1", "Calculator Submissions Export")
	f.SetCellValue(summarySheet, "A2", "Total Submissions")
	f.SetCellValue(summarySheet, "B2", len(subs))
	if len(subs) > 0 {
		col := columnIndex(finalPriceColumn) + 1
		firstRow, _ := excelize.CoordinatesToCellName(col, 2)
		lastRow, _ := excelize.CoordinatesToCellName(col, len(subs)+1)
		f.SetCellValue(summarySheet, "A3", "Final Price Sum")
		f.SetCellFormula(summarySheet, "B3", fmt.Sprintf("SUM(%s!%s:%s)", submissionsSheet, firstRow, lastRow))
	}
	f.SetActiveSheet(0)

	return f.Write(w)
}
