package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampJSON(t *testing.T) {
	ts := MustParseTimestamp("2025-06-20 09:30:00")

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-20 09:30:00"`, string(data))

	var decoded Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equal(ts.Time))
}

func TestTimestampEmptyValues(t *testing.T) {
	for _, raw := range []string{`""`, `null`} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.True(t, ts.IsZero())
		assert.Equal(t, "", ts.String())
	}
}

func TestTimestampRejectsOtherLayouts(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"2025-06-20T09:30:00Z"`), &ts))
	_, err := ParseTimestamp("20/06/2025")
	assert.Error(t, err)
}

func TestNewTimestampTruncatesToSeconds(t *testing.T) {
	ts := NewTimestamp(time.Date(2025, 6, 20, 9, 30, 0, 999_000_000, time.Local))
	assert.Equal(t, "2025-06-20 09:30:00", ts.String())
	assert.Zero(t, ts.Nanosecond())
}

func TestTicketAssignment(t *testing.T) {
	var tk Ticket
	assert.False(t, tk.IsAssigned())
	assert.Equal(t, "", tk.Assignee())

	empty := ""
	tk.AssignedTo = &empty
	assert.False(t, tk.IsAssigned())

	name := "Lisa Brown (IT)"
	tk.AssignedTo = &name
	assert.True(t, tk.IsAssigned())
	assert.Equal(t, name, tk.Assignee())
}

func TestTicketCloneIsDeep(t *testing.T) {
	name := "John Smith (IT)"
	orig := Ticket{AssignedTo: &name, Attachments: []string{"a.png"}, Comments: []Comment{{Author: "x"}}}
	cp := orig.Clone()

	*cp.AssignedTo = "someone else"
	cp.Attachments[0] = "b.png"
	cp.Comments[0].Author = "y"

	assert.Equal(t, "John Smith (IT)", *orig.AssignedTo)
	assert.Equal(t, "a.png", orig.Attachments[0])
	assert.Equal(t, "x", orig.Comments[0].Author)
}

func TestTicketNullAssigneeSerializes(t *testing.T) {
	tk := Ticket{ID: "0001"}
	tk.Normalize()
	data, err := json.Marshal(tk)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"assigned_to":null`)
	assert.Contains(t, string(data), `"attachments":[]`)
	assert.Contains(t, string(data), `"comments":[]`)
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, TicketStatusInProgress.Valid())
	assert.False(t, TicketStatus("Pending").Valid())
	assert.True(t, TicketPriorityLow.Valid())
	assert.False(t, TicketPriority("").Valid())
	assert.True(t, CategoryNetwork.Valid())
	assert.False(t, TicketCategory("Plumbing").Valid())
}
