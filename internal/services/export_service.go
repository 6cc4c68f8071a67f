package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders patient backups. The CSV layout matches the table's
// column order; XLSX and PDF carry the same data for reporting.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

var patientExportHeader = []string{
	"patient_id", "name", "contact", "diagnosis",
	"anonymized_name", "anonymized_contact", "date_added",
}

func patientExportRow(p *models.Patient) []string {
	anonName, anonContact := "", ""
	if p.AnonymizedName != nil {
		anonName = *p.AnonymizedName
	}
	if p.AnonymizedContact != nil {
		anonContact = *p.AnonymizedContact
	}
	return []string{
		fmt.Sprintf("%d", p.PatientID),
		p.Name,
		p.Contact,
		p.Diagnosis,
		anonName,
		anonContact,
		p.DateAdded.Format("2006-01-02 15:04:05"),
	}
}

func exportFilename(ext string) string {
	return fmt.Sprintf("patients_backup_%s_%s.%s",
		time.Now().Format("2006-01-02"), uuid.NewString()[:8], ext)
}

// ExportCSV renders all patients as CSV.
func (s *ExportService) ExportCSV(ctx context.Context, patients []models.Patient) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write(patientExportHeader)
	for i := range patients {
		_ = writer.Write(patientExportRow(&patients[i]))
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), exportFilename("csv"), nil
}

// ExportXLSX renders all patients as a spreadsheet.
func (s *ExportService) ExportXLSX(ctx context.Context, patients []models.Patient) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Patients"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for col, title := range patientExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row := range patients {
		for col, value := range patientExportRow(&patients[row]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	return buf.Bytes(), exportFilename("xlsx"), nil
}

// ExportPDF renders a patient summary report.
func (s *ExportService) ExportPDF(ctx context.Context, patients []models.Patient) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Patient Records Backup")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 10, fmt.Sprintf("Generated %s - %d records", time.Now().Format("2006-01-02 15:04"), len(patients)))
	pdf.Ln(12)

	widths := []float64{20, 45, 40, 60, 35, 35, 40}

	pdf.SetFont("Arial", "B", 9)
	for i, title := range patientExportHeader {
		pdf.CellFormat(widths[i], 8, title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for i := range patients {
		for j, value := range patientExportRow(&patients[i]) {
			if len(value) > 40 {
				value = value[:37] + "..."
			}
			pdf.CellFormat(widths[j], 7, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), exportFilename("pdf"), nil
}
