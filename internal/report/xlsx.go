// Package report renders ticket reports as Excel workbooks.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/service"
)

const (
	summarySheet = "Summary"
	ticketsSheet = "Tickets"
)

var ticketHeader = []any{
	"ID", "Title", "Category", "Priority", "Urgency", "Status", "Employee ID", "Employee",
	"Email", "Department", "Location", "Assigned To", "Created", "Updated", "Comments", "Resolution",
}

// ContentType is the MIME type of the workbook written by WriteXLSX.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteXLSX writes r as a workbook with a Summary sheet and a Tickets sheet.
func WriteXLSX(w io.Writer, r *service.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ticketsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := writeSummary(f, r, bold); err != nil {
		return err
	}
	if err := writeTickets(f, r, bold); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, r *service.Report, bold int) error {
	s := r.Summary
	rows := [][]any{
		{"Help Desk Report"},
		{"Generated", r.GeneratedAt.String()},
		{"Filters", describeFilters(r.Filters)},
		{},
		{"Metric", "Count"},
		{"Total", s.Total},
		{"Open", s.Open},
		{"In Progress", s.InProgress},
		{"Resolved", s.Resolved},
		{"Closed", s.Closed},
		{"High priority", s.HighPriority},
		{"Medium priority", s.MediumPriority},
		{"Low priority", s.LowPriority},
		{"Unassigned", s.Unassigned},
		{},
		{"Category", "Count"},
	}
	rows = append(rows, countRows(s.ByCategory)...)
	rows = append(rows, []any{}, []any{"Department", "Count"})
	rows = append(rows, countRows(s.ByDepartment)...)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
		if len(row) > 0 && (i == 0 || row[len(row)-1] == "Count") {
			if err := f.SetCellStyle(summarySheet, cell, cell, bold); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(summarySheet, "A", "B", 24)
}

func writeTickets(f *excelize.File, r *service.Report, bold int) error {
	if err := f.SetSheetRow(ticketsSheet, "A1", &ticketHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(ticketHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ticketsSheet, "A1", last, bold); err != nil {
		return err
	}

	for i, t := range r.Tickets {
		row := []any{
			t.ID, t.Title, string(t.Category), string(t.Priority), string(t.Urgency), string(t.Status),
			t.EmployeeID, t.EmployeeName, t.EmployeeEmail, t.Department, t.Location, t.Assignee(),
			t.CreatedDate.String(), t.UpdatedDate.String(), len(t.Comments), t.Resolution,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ticketsSheet, cell, &row); err != nil {
			return fmt.Errorf("write ticket %s: %w", t.ID, err)
		}
	}
	if err := f.SetPanes(ticketsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	return f.SetColWidth(ticketsSheet, "B", "B", 40)
}

func countRows(counts map[string]int) [][]any {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]any, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []any{k, counts[k]})
	}
	return rows
}

func describeFilters(req service.ReportRequest) string {
	var parts []string
	if req.From != nil {
		parts = append(parts, "from "+req.From.Format("2006-01-02"))
	}
	if req.To != nil {
		parts = append(parts, "to "+req.To.Format("2006-01-02"))
	}
	for _, s := range req.Statuses {
		parts = append(parts, "status "+string(s))
	}
	for _, p := range req.Priorities {
		parts = append(parts, "priority "+string(p))
	}
	if req.Department != "" {
		parts = append(parts, "department "+req.Department)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
