package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/date"
)

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ID
	}{
		{name: "string", input: `"5f0c6a1e-aaaa"`, want: "5f0c6a1e-aaaa"},
		{name: "millisecond timestamp", input: `1718033471234`, want: "1718033471234"},
		{name: "float", input: `12.5`, want: "12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[ID]bool)
	for range 100 {
		id := NewID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestPriorityCycle(t *testing.T) {
	assert.Equal(t, PriorityMedium, PriorityLow.Next())
	assert.Equal(t, PriorityHigh, PriorityMedium.Next())
	assert.Equal(t, PriorityLow, PriorityHigh.Next())
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" High ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.True(t, clierr.HasCode(err, clierr.InvalidPriority))
}

func TestParseDueDate(t *testing.T) {
	d, err := ParseDueDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDueDate("2026-11-02")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "2026-11-02", d.String())

	_, err = ParseDueDate("02/11/2026")
	assert.True(t, clierr.HasCode(err, clierr.InvalidDate))
}

func TestNormalize(t *testing.T) {
	zero := date.Date{}
	tk := &Task{Text: "  water plants ", Priority: "urgent", DueDate: &zero}

	Normalize(tk, "Home")

	assert.NotEmpty(t, tk.ID)
	assert.Equal(t, "water plants", tk.Text)
	assert.Equal(t, PriorityMedium, tk.Priority)
	assert.Equal(t, "Home", tk.Category)
	assert.Nil(t, tk.DueDate)
}

func TestCloneIsDeep(t *testing.T) {
	due := date.New(2026, time.May, 1)
	orig := &Task{ID: "a", Text: "x", DueDate: &due}

	c := orig.Clone()
	*c.DueDate = date.New(2027, time.May, 1)
	c.Text = "y"

	assert.Equal(t, "2026-05-01", orig.DueDate.String())
	assert.Equal(t, "x", orig.Text)
}

func TestTaskJSONShape(t *testing.T) {
	tk := Task{
		ID:        "abc",
		Text:      "Buy milk",
		CreatedAt: date.New(2026, time.October, 16),
		UpdatedAt: time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC),
		Priority:  PriorityMedium,
		Category:  "Errands",
	}

	data, err := json.Marshal(tk)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "abc",
		"text": "Buy milk",
		"completed": false,
		"createdAt": "2026-10-16",
		"updatedAt": "2026-10-16T09:00:00Z",
		"priority": "medium",
		"category": "Errands",
		"dueDate": null
	}`, string(data))
}
