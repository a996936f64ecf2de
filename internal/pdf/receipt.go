package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders payment receipts; an interface so tests can stub it.
type Generator interface {
	GenerateReceipt(data ReceiptData) (string, error)
}

type ReceiptData struct {
	PaymentID    int
	StudentName  string
	StudentEmail string
	Purpose      string
	Amount       int
	Method       string
	Date         time.Time
}

type ReceiptGenerator struct {
	RootDir string // storage root, e.g. "./files"
}

func NewReceiptGenerator(rootDir string) *ReceiptGenerator {
	return &ReceiptGenerator{RootDir: filepath.Clean(rootDir)}
}

func (g *ReceiptGenerator) GenerateReceipt(data ReceiptData) (string, error) {
	absPath, err := g.ensureTarget(fmt.Sprintf("receipt_payment_%d.pdf", data.PaymentID))
	if err != nil {
		return "", err
	}

	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle(fmt.Sprintf("Payment Receipt #%d", data.PaymentID), false)
	p.SetAuthor("ICES", false)
	p.SetMargins(20, 20, 20)
	p.SetAutoPageBreak(true, 20)
	p.AddPage()

	p.SetFont("Helvetica", "B", 18)
	p.CellFormat(0, 10, "PAYMENT RECEIPT", "", 1, "C", false, 0, "")

	p.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("No. ICES-%06d  of  %s", data.PaymentID, data.Date.Format("02.01.2006"))
	p.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(p)

	rows := [][2]string{
		{"Student", data.StudentName},
		{"Email", data.StudentEmail},
		{"Purpose", data.Purpose},
		{"Amount", fmt.Sprintf("%d", data.Amount)},
		{"Method", data.Method},
		{"Date", data.Date.Format("02.01.2006 15:04")},
	}
	for _, row := range rows {
		p.SetFont("Helvetica", "B", 11)
		p.CellFormat(40, 8, row[0], "", 0, "L", false, 0, "")
		p.SetFont("Helvetica", "", 11)
		p.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}

	g.hr(p)
	p.SetFont("Helvetica", "I", 9)
	p.CellFormat(0, 6, "Generated by ICES - Integrated Campus Event System", "", 1, "L", false, 0, "")

	if err := p.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write receipt pdf: %w", err)
	}
	return absPath, nil
}

func (g *ReceiptGenerator) ensureTarget(filename string) (string, error) {
	dir := filepath.Join(g.RootDir, "receipts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipts dir: %w", err)
	}
	return filepath.Join(dir, filepath.Base(filename)), nil
}

func (g *ReceiptGenerator) hr(p *gofpdf.Fpdf) {
	p.Ln(2)
	x, y := p.GetX(), p.GetY()
	p.Line(x, y, 190, y)
	p.Ln(4)
}
