package exporters

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gst_invoicing_backend/internal/models"
)

const defaultSheet = "Sheet1"

// sheetWriter appends rows to one worksheet, top to bottom. The first failure
// sticks and turns later calls into no-ops.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	bold  int
	err   error
}

func newSheetWriter(f *excelize.File, sheet string, bold int) *sheetWriter {
	return &sheetWriter{f: f, sheet: sheet, row: 1, bold: bold}
}

func (s *sheetWriter) append(values ...interface{}) {
	if s.err != nil {
		return
	}
	if len(values) > 0 {
		cell, err := excelize.CoordinatesToCellName(1, s.row)
		if err == nil {
			err = s.f.SetSheetRow(s.sheet, cell, &values)
		}
		if err != nil {
			s.err = fmt.Errorf("sheet %s row %d: %w", s.sheet, s.row, err)
			return
		}
	}
	s.row++
}

// appendBold writes a row and styles its cells bold.
func (s *sheetWriter) appendBold(values ...interface{}) {
	row := s.row
	s.append(values...)
	if s.err != nil || len(values) == 0 {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(values), row)
	if err := s.f.SetCellStyle(s.sheet, first, last, s.bold); err != nil {
		s.err = fmt.Errorf("sheet %s row %d: %w", s.sheet, row, err)
	}
}

func (s *sheetWriter) blank() {
	s.append()
}

// newWorkbook renames the default sheet and registers a bold style.
func newWorkbook(firstSheet string) (*excelize.File, int, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, firstSheet); err != nil {
		f.Close()
		return nil, 0, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, bold, nil
}

// RenderBillSpreadsheet writes a one-sheet workbook laid out like the printed invoice.
func RenderBillSpreadsheet(w io.Writer, bill models.Bill, profile models.CompanyProfile) error {
	f, bold, err := newWorkbook("Bill")
	if err != nil {
		return fmt.Errorf("creating bill workbook: %w", err)
	}
	defer f.Close()

	sw := newSheetWriter(f, "Bill", bold)
	sw.appendBold(strings.ToUpper(profile.Name))
	for _, line := range profile.AddressLines {
		sw.append(line)
	}
	if profile.Phone != "" {
		sw.append("GSM: " + profile.Phone)
	}
	sw.blank()
	sw.appendBold("INVOICE")
	sw.blank()
	sw.append("Bill No:", bill.BillNo, "", "Date:", DisplayDate(bill.Date))
	sw.append("PO Number:", bill.PONumber, "", "Client:", bill.ClientName)
	sw.append("Client GSTIN:", bill.ClientGSTIN)
	sw.append("Address:", bill.ClientAddress)
	sw.blank()
	sw.appendBold("Sr.No", "Description", "Unit", "HSN/SAC", "Qty", "Rate", "Amount")
	for i, it := range bill.Items {
		sw.append(i+1, it.Description, it.Unit, it.HSN, it.Qty, it.Rate, it.Amount)
	}
	sw.blank()
	sw.append("", "", "", "", "", "Subtotal:", bill.Subtotal)
	if bill.IsIGST {
		sw.append("", "", "", "", "", "IGST 18%:", bill.IGST)
	} else {
		sw.append("", "", "", "", "", "CGST 9%:", bill.CGST)
		sw.append("", "", "", "", "", "SGST 9%:", bill.SGST)
	}
	sw.append("", "", "", "", "", "Round off:", bill.RoundOff)
	sw.appendBold("", "", "", "", "", "Grand Total:", bill.GrandTotal)
	sw.blank()
	sw.append("Amount in words:", bill.AmountInWords)
	if sw.err != nil {
		return fmt.Errorf("writing bill %s: %w", bill.BillNo, sw.err)
	}
	if err := f.SetColWidth("Bill", "B", "B", 40); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing bill workbook: %w", err)
	}
	return nil
}

// RenderReportSpreadsheet writes a report table as a header row plus one row per record.
func RenderReportSpreadsheet(w io.Writer, table models.ReportTable, reportType string) error {
	sheet := sheetTitle(reportType, table.Type)
	f, bold, err := newWorkbook(sheet)
	if err != nil {
		return fmt.Errorf("creating report workbook: %w", err)
	}
	defer f.Close()

	sw := newSheetWriter(f, sheet, bold)
	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	sw.appendBold(header...)
	for _, row := range table.Rows {
		sw.append(row...)
	}
	if sw.err != nil {
		return fmt.Errorf("writing %s report: %w", sheet, sw.err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing report workbook: %w", err)
	}
	return nil
}

// RenderSalesSummarySpreadsheet writes the dashboard figures: a "Summary" sheet
// with totals and top items, and a "Daily Sales" sheet with the 30-day series.
func RenderSalesSummarySpreadsheet(w io.Writer, stats models.DashboardStats, now time.Time) error {
	f, bold, err := newWorkbook("Summary")
	if err != nil {
		return fmt.Errorf("creating sales workbook: %w", err)
	}
	defer f.Close()

	sw := newSheetWriter(f, "Summary", bold)
	sw.appendBold("Sales Report - " + now.Format("02/01/2006"))
	sw.blank()
	sw.append("Total Sales:", stats.TotalSales)
	sw.append("Total Bills:", stats.TotalBills)
	sw.append("Today Sales:", stats.TodaySales)
	sw.append("This Week:", stats.WeekSales)
	sw.append("This Month:", stats.MonthSales)
	sw.append("This Year:", stats.YearSales)
	sw.append("GST Output:", stats.TotalGSTOutput)
	sw.append("GST Input:", stats.TotalGSTInput)
	sw.blank()
	sw.appendBold("Top Selling Items:")
	sw.appendBold("Item", "Quantity Sold", "Revenue")
	for _, it := range stats.TopItems {
		sw.append(it.Description, it.Quantity, it.Revenue)
	}
	if sw.err != nil {
		return fmt.Errorf("writing sales summary: %w", sw.err)
	}

	if _, err := f.NewSheet("Daily Sales"); err != nil {
		return fmt.Errorf("creating daily sheet: %w", err)
	}
	daily := newSheetWriter(f, "Daily Sales", bold)
	daily.appendBold("Date", "Sales Amount", "Number of Bills")
	for _, d := range stats.DailySalesData {
		daily.append(d.Date, d.Sales, d.Bills)
	}
	if daily.err != nil {
		return fmt.Errorf("writing daily sales: %w", daily.err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing sales workbook: %w", err)
	}
	return nil
}

// sheetTitle capitalises the first non-blank value; sheet names cap at 31 characters.
func sheetTitle(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			title := strings.ToUpper(v[:1]) + v[1:]
			if len(title) > 31 {
				title = title[:31]
			}
			return title
		}
	}
	return "Report"
}
