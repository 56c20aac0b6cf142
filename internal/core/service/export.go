package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/yndnr/brainscan-go/internal/core/domain"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportDateLayout renders prediction timestamps in exports.
const ExportDateLayout = "Jan 02, 2006 15:04"

// ExportHeader is the column header of the admin prediction export.
var ExportHeader = []string{"Date", "Doctor Email", "Filename", "Result", "Confidence"}

// ExportFilename returns the default file name for an admin export.
func ExportFilename(format string) string {
	return "all_predictions." + strings.ToLower(format)
}

// ExportRows renders predictions as export rows, header excluded.
func ExportRows(preds []domain.Prediction) [][]string {
	rows := make([][]string, 0, len(preds))
	for _, p := range preds {
		rows = append(rows, []string{
			p.Timestamp.Format(ExportDateLayout),
			p.UserEmail,
			p.Filename,
			domain.NormalizeResult(p.Result),
			fmt.Sprintf("%d%%", domain.ConfidencePercent(p.Confidence)),
		})
	}
	return rows
}

// WriteExport writes preds in the named format. An empty list is refused
// with ErrNothingToExport before anything is written.
func WriteExport(w io.Writer, format string, preds []domain.Prediction) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return WriteCSV(w, preds)
	case FormatPDF:
		return WritePDF(w, preds)
	default:
		return domain.ErrUnsupportedFormat.WithDetails(format)
	}
}

// WriteCSV writes the header and one row per prediction.
func WriteCSV(w io.Writer, preds []domain.Prediction) error {
	if len(preds) == 0 {
		return domain.ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(ExportRows(preds)); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

var pdfWidths = []float64{38, 55, 50, 25, 22}

// WritePDF writes a one-table report of preds.
func WritePDF(w io.Writer, preds []domain.Prediction) error {
	if len(preds) == 0 {
		return domain.ErrNothingToExport
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Brain Scan AI - All Predictions", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d predictions", len(preds)), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 240)
	for i, h := range ExportHeader {
		pdf.CellFormat(pdfWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range ExportRows(preds) {
		for i, cell := range row {
			pdf.CellFormat(pdfWidths[i], 7, fit(pdf, cell, pdfWidths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// fit truncates s so it fits in a cell of width mm.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	const pad = 2
	if pdf.GetStringWidth(s) <= width-pad {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width-pad {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
