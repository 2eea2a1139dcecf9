package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"salon/internal/domain/sales"
)

// Receipt renders a sale as a printable PDF receipt.
func Receipt(salonName string, sale sales.Sale) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Receipt %s", sale.ID), false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, salonName)
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, fmt.Sprintf("Receipt: %s", sale.ID))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Date: %s", sale.SoldAt.Format("2006-01-02 15:04")))
	doc.Ln(6)
	if sale.ClientName != "" {
		doc.Cell(0, 6, fmt.Sprintf("Client: %s", sale.ClientName))
		doc.Ln(6)
	}
	if sale.EmployeeName != "" {
		doc.Cell(0, 6, fmt.Sprintf("Served by: %s", sale.EmployeeName))
		doc.Ln(6)
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(90, 7, "Item", "1", 0, "L", false, 0, "")
	doc.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 7, "Unit", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 7, "Amount", "1", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, item := range sale.Items {
		doc.CellFormat(90, 7, item.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 7, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 7, fmt.Sprintf("%.2f", float64(item.Quantity)*item.UnitPrice), "1", 1, "R", false, 0, "")
	}

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(150, 8, "Total", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 8, fmt.Sprintf("%.2f", sale.Total), "1", 1, "R", false, 0, "")

	doc.Ln(6)
	doc.SetFont("Helvetica", "I", 9)
	doc.Cell(0, 6, fmt.Sprintf("Paid by %s. Thank you for your visit!", sale.PaymentMethod))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
