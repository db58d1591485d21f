// Package statement renders a customer's ledger history as a PDF.
package statement

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/stockbook/stockbook/ledger"
)

// Render produces a PDF statement: one line per ledger entry plus the
// folded balance. Positive balance means the customer owes money.
func Render(customer string, entries []ledger.Entry, balance decimal.Decimal) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Statement: "+customer)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, "Generated "+time.Now().UTC().Format("2006-01-02 15:04 UTC"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(50, 8, "Date", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Kind", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, e := range entries {
		pdf.CellFormat(50, 8, e.CreatedAt.Format("2006-01-02"), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, string(e.Kind), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, e.Signed().StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	status := "Settled"
	if balance.IsPositive() {
		status = "Owes"
	} else if balance.IsNegative() {
		status = "Credit"
	}
	pdf.Cell(0, 10, fmt.Sprintf("Balance: %s (%s)", balance.StringFixed(2), status))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render statement: %w", err)
	}
	return buf.Bytes(), nil
}
