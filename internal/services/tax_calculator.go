package services

import (
	"github.com/shopspring/decimal"

	"gst_invoicing_backend/pkg/utils"
)

// GSTRate is the aggregate rate applied to every taxable subtotal.
var GSTRate = decimal.RequireFromString("0.18")

// GSTBreakdown splits tax into its three heads. Exactly one mode is nonzero
// for a nonzero subtotal.
type GSTBreakdown struct {
	CGST float64 `json:"cgst"`
	SGST float64 `json:"sgst"`
	IGST float64 `json:"igst"`
}

// Total is CGST + SGST + IGST.
func (g GSTBreakdown) Total() float64 {
	return utils.Float(utils.Dec(g.CGST).Add(utils.Dec(g.SGST)).Add(utils.Dec(g.IGST)))
}

// CalculateGST computes tax on subtotal. Inter-state supplies carry IGST at the
// full rate, intra-state supplies split it evenly between CGST and SGST.
// Nothing is rounded here and negative subtotals pass through unchanged.
func CalculateGST(subtotal float64, isIGST bool) GSTBreakdown {
	total := utils.Dec(subtotal).Mul(GSTRate)
	if isIGST {
		return GSTBreakdown{IGST: utils.Float(total)}
	}
	half := utils.Float(total.Div(decimal.NewFromInt(2)))
	return GSTBreakdown{CGST: half, SGST: half}
}
