package reports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/mswdo/soloparent-backend/internal/applicant"
)

var sampleRows = []applicant.VerifiedRow{
	{UserID: 1, CodeID: "SP-AB12CD34", Name: "Ana Reyes", Email: "ana@example.com", Barangay: "San Isidro", CivilStatus: "Single", Gender: "Female", Occupation: "Vendor", MonthlyIncome: 8500, BeneficiaryStatus: "beneficiary"},
	{UserID: 2, CodeID: "SP-EF56GH78", Name: "Mario Cruz", Email: "mario@example.com", Barangay: "Poblacion", CivilStatus: "Widowed", Gender: "Male", Occupation: "Driver", MonthlyIncome: 12000, BeneficiaryStatus: "non-beneficiary"},
}

func TestExportCSV(t *testing.T) {
	data, filename, contentType, err := NewMasterlistExporter().Export(FormatCSV, sampleRows)
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}
	if contentType != "text/csv" {
		t.Fatalf("content type = %s, want text/csv", contentType)
	}
	if !strings.HasSuffix(filename, ".csv") {
		t.Fatalf("filename = %s, want .csv suffix", filename)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2 rows", len(records))
	}
	if records[0][0] != "Case Code" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][0] != "SP-AB12CD34" || records[2][1] != "Mario Cruz" {
		t.Fatalf("unexpected rows: %v", records[1:])
	}
	if records[1][7] != "8500.00" {
		t.Fatalf("income = %s, want 8500.00", records[1][7])
	}
}

func TestExportExcelAndPDFProduceOutput(t *testing.T) {
	e := NewMasterlistExporter()

	data, filename, contentType, err := e.Export(FormatExcel, sampleRows)
	if err != nil {
		t.Fatalf("export excel: %v", err)
	}
	if len(data) == 0 || !strings.HasSuffix(filename, ".xlsx") {
		t.Fatalf("excel export: %d bytes, filename %s", len(data), filename)
	}
	if !strings.Contains(contentType, "spreadsheet") {
		t.Fatalf("excel content type = %s", contentType)
	}

	data, filename, contentType, err = e.Export(FormatPDF, sampleRows)
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if len(data) == 0 || !strings.HasSuffix(filename, ".pdf") {
		t.Fatalf("pdf export: %d bytes, filename %s", len(data), filename)
	}
	if contentType != "application/pdf" {
		t.Fatalf("pdf content type = %s", contentType)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("pdf output missing %%PDF header")
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	if _, _, _, err := NewMasterlistExporter().Export("docx", nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
