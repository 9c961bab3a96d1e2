package exporters

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"gst_invoicing_backend/internal/models"
)

const (
	leftMargin  = 15.0
	rightColumn = 140.0
	defaultHSN  = "8518"
	fontFamily  = "Helvetica"
)

// item table column widths: Sr.No, Description, HSN/SAC, Qty, Rate, Amount
var itemColumns = []struct {
	title string
	width float64
	align string
}{
	{"Sr.No", 14, "C"},
	{"Description", 76, "L"},
	{"HSN/SAC", 22, "C"},
	{"Qty", 16, "C"},
	{"Rate", 26, "R"},
	{"Amount", 26, "R"},
}

// RenderBillPDF writes a single-page A4 tax invoice for bill.
// Amounts are printed with a "Rs." prefix since the core fonts have no rupee glyph.
func RenderBillPDF(w io.Writer, bill models.Bill, profile models.CompanyProfile) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", bill.BillNo), true)
	pdf.SetAuthor(profile.Name, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Seller header
	pdf.SetY(15)
	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 8, tr(strings.ToUpper(profile.Name)), "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	for _, line := range profile.AddressLines {
		pdf.CellFormat(0, 5, tr(line), "", 1, "C", false, 0, "")
	}
	if profile.Phone != "" {
		pdf.CellFormat(0, 5, tr("GSM: "+profile.Phone), "", 1, "C", false, 0, "")
	}
	pdf.Ln(8)
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 8, "INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Recipient block on the left, bill reference on the right
	top := pdf.GetY()
	pdf.SetFont(fontFamily, "B", 12)
	pdf.Text(leftMargin, top, "RECIPIENT'S DETAILS (BILL TO)")
	pdf.Text(rightColumn, top, tr("BILL NO. "+bill.BillNo))
	pdf.SetFont(fontFamily, "", 10)
	pdf.Text(rightColumn, top+7, "DATE: "+DisplayDate(bill.Date))
	po := bill.PONumber
	if strings.TrimSpace(po) == "" {
		po = "TELEPHONIC CONFIRMATION"
	}
	pdf.Text(rightColumn, top+12, tr("PO: "+po))

	y := top + 7
	pdf.Text(leftMargin, y, tr(strings.ToUpper(bill.ClientName)))
	y += 5
	for _, line := range strings.Split(bill.ClientAddress, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			pdf.Text(leftMargin, y, tr(strings.ToUpper(line)))
			y += 5
		}
	}
	if bill.ClientGSTIN != "" {
		pdf.Text(leftMargin, y, tr("PARTY GST: "+bill.ClientGSTIN))
		y += 5
	}
	pdf.SetFont(fontFamily, "B", 10)
	pdf.Text(leftMargin, y+3, tr("BUYER: "+strings.ToUpper(bill.ClientName)))
	y += 8
	pdf.SetFont(fontFamily, "", 10)
	if bill.SiteAddress != "" {
		pdf.Text(leftMargin, y, tr("Site Address: "+bill.SiteAddress))
		y += 5
	}
	pdf.Text(leftMargin, y, "Kind Attn:")

	tableTop := y + 8
	if floor := top + 25; tableTop < floor {
		tableTop = floor
	}
	pdf.SetY(tableTop)

	// Item table
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetX(leftMargin)
	for _, col := range itemColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 10)
	for i, it := range bill.Items {
		hsn := it.HSN
		if hsn == "" {
			hsn = defaultHSN
		}
		cells := []string{
			strconv.Itoa(i + 1),
			tr(strings.ToUpper(it.Description)),
			hsn,
			strconv.Itoa(it.Qty),
			"Rs." + FormatIndian(it.Rate),
			"Rs." + FormatIndian(it.Amount),
		}
		pdf.SetX(leftMargin)
		for c, col := range itemColumns {
			text := cells[c]
			if c == 1 {
				text = fitText(pdf, text, col.width-2)
			}
			pdf.CellFormat(col.width, 7, text, "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	// Tax table, grand total highlighted
	cgstRate, sgstRate, igstRate := "9", "9", "0"
	if bill.IsIGST {
		cgstRate, sgstRate, igstRate = "0", "0", "18"
	}
	totals := [][2]string{
		{"Total", "Rs." + FormatIndian(bill.Subtotal)},
		{"Add: CGST " + cgstRate + "%", "Rs." + FormatIndian(bill.CGST)},
		{"Add: SGST " + sgstRate + "%", "Rs." + FormatIndian(bill.SGST)},
		{"Add: IGST " + igstRate + "%", "Rs." + FormatIndian(bill.IGST)},
		{"Round Off", "Rs." + FormatIndian(bill.RoundOff)},
		{"Grand Total", "Rs." + FormatIndian(bill.GrandTotal)},
	}
	for i, row := range totals {
		grand := i == len(totals)-1
		style := ""
		if grand {
			style = "B"
			pdf.SetFillColor(255, 255, 200)
		}
		pdf.SetFont(fontFamily, style, 10)
		pdf.SetX(rightColumn)
		pdf.CellFormat(30, 7, row[0], "1", 0, "L", grand, 0, "")
		pdf.CellFormat(30, 7, row[1], "1", 1, "R", grand, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont(fontFamily, "I", 10)
	pdf.SetX(leftMargin)
	pdf.MultiCell(0, 5, tr("Rs. "+bill.AmountInWords), "", "L", false)
	pdf.Ln(10)

	// Seller identity and signatory
	y = pdf.GetY()
	pdf.SetFont(fontFamily, "", 9)
	if profile.PAN != "" {
		pdf.Text(leftMargin, y, tr("PAN CARD No. "+profile.PAN))
	}
	pdf.Text(rightColumn, y, tr("For "+profile.Name))
	if profile.GSTIN != "" {
		pdf.Text(leftMargin, y+4, tr("GSTIN/UIN No: "+profile.GSTIN))
	}
	if profile.State != "" {
		pdf.Text(leftMargin, y+8, tr("STATE: "+strings.ToUpper(profile.State)))
	}
	pdf.SetFont(fontFamily, "I", 9)
	pdf.Text(rightColumn, y+18, "(Authorised Signatory)")

	if len(profile.BankDetails) > 0 {
		y += 30
		pdf.SetFont(fontFamily, "B", 9)
		pdf.Text(leftMargin, y, "RTGS DETAILS:")
		pdf.SetFont(fontFamily, "", 9)
		for _, line := range profile.BankDetails {
			y += 5
			pdf.Text(leftMargin, y, tr(line))
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering invoice %s: %w", bill.BillNo, err)
	}
	return nil
}

// fitText trims s with an ellipsis until it fits width.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
