package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/mswdo/soloparent-backend/internal/applicant"
)

// Export formats for the masterlist.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// MasterlistExporter renders the verified solo-parent masterlist in the
// requested format.
type MasterlistExporter interface {
	Export(format string, rows []applicant.VerifiedRow) ([]byte, string, string, error)
}

type masterlistExporter struct{}

func NewMasterlistExporter() MasterlistExporter {
	return &masterlistExporter{}
}

func (e *masterlistExporter) Export(format string, rows []applicant.VerifiedRow) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch format {
	case FormatExcel:
		data, err := e.exportExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("solo_parent_masterlist_%s.xlsx", timestamp)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("solo_parent_masterlist_%s.csv", timestamp)
		return data, filename, "text/csv", nil

	case FormatPDF:
		data, err := e.exportPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("solo_parent_masterlist_%s.pdf", timestamp)
		return data, filename, "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for masterlist: %s", format)
	}
}

var masterlistHeaders = []string{"Case Code", "Name", "Email", "Barangay", "Civil Status", "Gender", "Occupation", "Monthly Income", "Beneficiary Status"}

func (e *masterlistExporter) exportCSV(rows []applicant.VerifiedRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(masterlistHeaders); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.CodeID,
			r.Name,
			r.Email,
			r.Barangay,
			r.CivilStatus,
			r.Gender,
			r.Occupation,
			strconv.FormatFloat(r.MonthlyIncome, 'f', 2, 64),
			r.BeneficiaryStatus,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *masterlistExporter) exportExcel(rows []applicant.VerifiedRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Masterlist"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range masterlistHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.CodeID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Email)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Barangay)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.CivilStatus)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.Gender)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.Occupation)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.MonthlyIncome)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), r.BeneficiaryStatus)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *masterlistExporter) exportPDF(rows []applicant.VerifiedRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Solo Parent Masterlist")
	pdf.Ln(20)

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{28, 42, 50, 30, 25, 18, 35, 25, 25}

	for i, h := range masterlistHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range rows {
		name := r.Name
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		email := r.Email
		if len(email) > 32 {
			email = email[:29] + "..."
		}

		pdf.CellFormat(widths[0], 6, r.CodeID, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, email, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Barangay, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.CivilStatus, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, r.Gender, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[6], 6, r.Occupation, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[7], 6, fmt.Sprintf("%.2f", r.MonthlyIncome), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[8], 6, r.BeneficiaryStatus, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
