// Package printer renders NCR report summaries and shipment manifest labels
// as PDFs.
package printer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/neosiam/returnhub/internal/models"
)

// Service writes generated documents into the configured output directory.
type Service struct {
	OutputDir string
}

// NewService creates a printer writing into dir (created on demand).
func NewService(dir string) *Service {
	return &Service{OutputDir: dir}
}

// GenerateNCRPDF renders the saved report: header facts, then one row per
// item with its problem classification and decision.
func GenerateNCRPDF(header models.NCRHeader, items []models.NCRItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Non-Conformance Report %s", header.NCRNumber), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	headerLines := []struct{ label, value string }{
		{"Date", header.Date},
		{"Reported by", header.Founder},
		{"Branch", header.Branch},
		{"To", header.ToDept},
		{"Cause", causeSummary(header)},
		{"Prevention", header.PreventionDetail},
		{"Responsible", fmt.Sprintf("%s %s", header.ResponsiblePerson, header.ResponsiblePosition)},
		{"Approved by", fmt.Sprintf("%s %s (%s)", header.Approver, header.ApproverPosition, header.ApproverDate)},
	}
	for _, line := range headerLines {
		if line.value == "" || strings.TrimSpace(line.value) == "()" {
			continue
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(35, 6, line.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, line.value, "", "L", false)
	}
	pdf.Ln(4)

	// Item table
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	widths := []float64{12, 30, 50, 18, 40, 30}
	headers := []string{"#", "Product", "Problem", "Qty", "Actions", "Decision"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for i, item := range items {
		problems := make([]string, 0, len(item.Problems))
		for _, p := range item.Problems {
			problems = append(problems, models.ProblemLabel(p, "en"))
		}
		actions := make([]string, 0, len(item.Actions))
		for _, a := range item.Actions {
			actions = append(actions, models.ActionLabel(a.Kind, "en"))
		}

		cells := []string{
			fmt.Sprintf("%d", i+1),
			item.ProductCode,
			strings.Join(problems, ", "),
			fmt.Sprintf("%g %s", item.Quantity, item.Unit),
			strings.Join(actions, ", "),
			item.Decision,
		}
		for j, c := range cells {
			pdf.CellFormat(widths[j], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render NCR PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateManifestLabelPDF renders one A6 label per manifest with a QR code
// carrying the manifest id and tracking number for hub intake scanning.
func GenerateManifestLabelPDF(manifest models.ShipmentManifest) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	qrContent := fmt.Sprintf("%s|%s", manifest.ID, manifest.TrackingNo)
	qrPng, err := qrcode.Encode(qrContent, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR: %w", err)
	}

	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	_ = pdf.RegisterImageOptionsReader("qr", imgOptions, bytes.NewReader(qrPng))
	pdf.ImageOptions("qr", 30, 12, 45, 45, false, imgOptions, 0, "")

	pdf.SetXY(8, 60)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, manifest.ID, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Carrier: %s", manifest.CarrierName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Tracking: %s", manifest.TrackingNo), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Dispatched: %s  Orders: %d", manifest.DispatchDate, len(manifest.CollectionOrderIDs)), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render manifest label: %w", err)
	}
	return buf.Bytes(), nil
}

// PrintNCR implements the NCR service's printer port: render and drop the
// file into the output directory for the print spooler.
func (s *Service) PrintNCR(header models.NCRHeader, items []models.NCRItem) error {
	data, err := GenerateNCRPDF(header, items)
	if err != nil {
		return err
	}
	return s.write(fmt.Sprintf("%s.pdf", header.NCRNumber), data)
}

// PrintManifestLabel renders the manifest label into the output directory.
func (s *Service) PrintManifestLabel(manifest models.ShipmentManifest) error {
	data, err := GenerateManifestLabelPDF(manifest)
	if err != nil {
		return err
	}
	return s.write(fmt.Sprintf("%s-label.pdf", manifest.ID), data)
}

func (s *Service) write(name string, data []byte) error {
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(s.OutputDir, name)
	tmp := path + fmt.Sprintf(".%d.tmp", time.Now().UnixNano())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return os.Rename(tmp, path)
}

func causeSummary(h models.NCRHeader) string {
	var causes []string
	if h.CausePackaging {
		causes = append(causes, "Packaging")
	}
	if h.CauseTransport {
		causes = append(causes, "Transport")
	}
	if h.CauseOperation {
		causes = append(causes, "Operation")
	}
	if h.CauseEnv {
		causes = append(causes, "Environment")
	}
	summary := strings.Join(causes, ", ")
	if h.CauseDetail != "" {
		summary = summary + " - " + h.CauseDetail
	}
	return summary
}
