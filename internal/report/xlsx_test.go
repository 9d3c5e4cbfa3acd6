package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/persistence"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/service"
)

func TestWriteXLSX(t *testing.T) {
	tickets := persistence.DefaultDocument().Tickets
	r := &service.Report{
		GeneratedAt: domain.MustParseTimestamp("2025-06-23 10:00:00"),
		Filters:     service.ReportRequest{Department: "Marketing"},
		Summary:     service.TicketStatistics{Total: 2, Open: 1, Closed: 1, ByDepartment: map[string]int{"Marketing": 2}},
		Tickets:     []domain.Ticket{tickets[3], tickets[4]},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, ticketsSheet}, f.GetSheetList())

	rows, err := f.GetRows(ticketsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "0004", rows[1][0])
	assert.Equal(t, "VPN connection keeps dropping", rows[1][1])
	assert.Equal(t, "Mike Wilson (IT)", rows[2][11])

	filters, err := f.GetCellValue(summarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "department Marketing", filters)

	total, err := f.GetCellValue(summarySheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "2", total)
}
