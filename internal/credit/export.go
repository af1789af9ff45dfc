package credit

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	sheetRecharges = "Recharges"
	sheetUsage     = "Usage"
	sheetSummary   = "Summary"
)

// WriteWorkbook renders the ledger as an xlsx workbook with one sheet each
// for recharges, usage and the balance summary.
func WriteWorkbook(w io.Writer, ledger *Ledger) error {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with Sheet1; rename it so no empty sheet is left over.
	if err := f.SetSheetName("Sheet1", sheetRecharges); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetUsage); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	recharges := [][]interface{}{}
	for _, r := range ledger.Recharges {
		recharges = append(recharges, []interface{}{
			r.ID,
			r.CreatedAt.Format(time.RFC3339),
			r.Credits,
			r.AmountPaid.StringFixed(2),
			deref(r.TransactionID),
			r.PaymentMethod,
			string(r.PaymentStatus),
			r.PurchasedByID,
		})
	}
	if err := writeSheet(f, sheetRecharges, header,
		[]interface{}{"ID", "Date", "Credits", "Amount Paid", "Transaction ID", "Payment Method", "Payment Status", "Purchased By"},
		recharges); err != nil {
		return err
	}

	usages := [][]interface{}{}
	for _, u := range ledger.Usages {
		days := ""
		if u.NumberOfDaysUsed != nil {
			days = fmt.Sprint(*u.NumberOfDaysUsed)
		}
		usages = append(usages, []interface{}{
			u.ID,
			u.CreatedAt.Format(time.RFC3339),
			u.CreditsUsed,
			deref(u.ServiceID),
			days,
			deref(u.Description),
			u.EnabledByID,
		})
	}
	if err := writeSheet(f, sheetUsage, header,
		[]interface{}{"ID", "Date", "Credits Used", "Service ID", "Days Used", "Description", "Enabled By"},
		usages); err != nil {
		return err
	}

	summary := [][]interface{}{
		{"Company", ledger.CompanyName},
		{"Remaining Credits", ledger.Summary.TotalCredits},
		{"Used Credits", ledger.Summary.UsedCredits},
		{"Recharged Credits", ledger.Summary.RechargedCredits},
		{"Amount Paid", ledger.Summary.AmountPaid.StringFixed(2)},
		{"Recharges", ledger.Summary.RechargeCount},
		{"Usages", ledger.Summary.UsageCount},
	}
	if err := writeSheet(f, sheetSummary, header, []interface{}{"Metric", "Value"}, summary); err != nil {
		return err
	}

	if err := f.SetColWidth(sheetRecharges, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetUsage, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetSummary, "A", "B", 24); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
