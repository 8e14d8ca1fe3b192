package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Index,Original Text,From,To,AI Response,Status, Completed ,Timed Out,Timestamp,Translation Score,
1,Hello,EN,FR,Bonjour,Success,Yes,No,2025-08-19 10:15:00,4.5,
2,World,EN,FR,Monde,Failed,No,Yes,2025-08-19 23:45:10,abc,
3,Hi,,DE,Hallo,,,,not-a-date,,
`

func TestLoad(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.NotNil(t, table)

	assert.Equal(t, 3, table.Len())
	assert.Contains(t, table.Columns, ColCompleted, "header whitespace should be trimmed")
	assert.Contains(t, table.Columns, ColScore)
	assert.True(t, table.HasColumn(ColTimedOut))
}

func TestLoad_MalformedCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "bare quote in cell", input: "From,To\n\"EN,FR\n\"broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Load(strings.NewReader(tt.input))
			assert.Error(t, err)
			assert.Nil(t, table, "a parse error must yield no table")
		})
	}
}

func TestPreprocess_FieldCoercion(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	tests := []struct {
		name          string
		row           int
		wantFrom      string
		wantTo        string
		wantStatus    string
		wantCompleted bool
		wantTimedOut  bool
		wantDirection string
		wantHasTime   bool
		wantHour      int
		wantDate      string
		wantHasScore  bool
		wantScore     float64
	}{
		{
			name:          "fully populated row",
			row:           0,
			wantFrom:      "EN",
			wantTo:        "FR",
			wantStatus:    "Success",
			wantCompleted: true,
			wantTimedOut:  false,
			wantDirection: "EN → FR",
			wantHasTime:   true,
			wantHour:      10,
			wantDate:      "2025-08-19",
			wantHasScore:  true,
			wantScore:     4.5,
		},
		{
			name:          "non-numeric score becomes absent",
			row:           1,
			wantFrom:      "EN",
			wantTo:        "FR",
			wantStatus:    "Failed",
			wantCompleted: false,
			wantTimedOut:  true,
			wantDirection: "EN → FR",
			wantHasTime:   true,
			wantHour:      23,
			wantDate:      "2025-08-19",
			wantHasScore:  false,
		},
		{
			name:          "missing fields get defaults, bad timestamp becomes absent",
			row:           2,
			wantFrom:      "Unknown",
			wantTo:        "DE",
			wantStatus:    "Unknown",
			wantCompleted: false,
			wantTimedOut:  false,
			wantDirection: "Unknown → DE",
			wantHasTime:   false,
			wantHour:      -1,
			wantDate:      "",
			wantHasScore:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := table.Records[tt.row]
			assert.Equal(t, tt.wantFrom, rec.From)
			assert.Equal(t, tt.wantTo, rec.To)
			assert.Equal(t, tt.wantStatus, rec.Status)
			assert.Equal(t, tt.wantCompleted, rec.Completed)
			assert.Equal(t, tt.wantTimedOut, rec.TimedOut)
			assert.Equal(t, tt.wantDirection, rec.Direction)
			assert.Equal(t, tt.wantHour, rec.Hour)
			assert.Equal(t, tt.wantDate, rec.Date)

			if tt.wantHasTime {
				require.NotNil(t, rec.Timestamp)
			} else {
				assert.Nil(t, rec.Timestamp)
			}
			if tt.wantHasScore {
				require.NotNil(t, rec.Score)
				assert.InDelta(t, tt.wantScore, *rec.Score, 1e-9)
			} else {
				assert.Nil(t, rec.Score)
			}
		})
	}
}

func TestPreprocess_DirectionNeverAbsent(t *testing.T) {
	table, err := Load(strings.NewReader("From,To\n,\nEN,\n,JA\n"))
	require.NoError(t, err)

	want := []string{"Unknown → Unknown", "EN → Unknown", "Unknown → JA"}
	for i, rec := range table.Records {
		assert.Equal(t, want[i], rec.Direction)
		assert.Equal(t, rec.From+" → "+rec.To, rec.Direction)
	}
}

func TestPreprocess_AbsentBooleanColumn(t *testing.T) {
	// No Completed or Timed Out column at all: flags resolve to false,
	// never to an error.
	table, err := Load(strings.NewReader("From,To,Status\nEN,FR,Success\n"))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.False(t, table.Records[0].Completed)
	assert.False(t, table.Records[0].TimedOut)
}

func TestPreprocess_Idempotent(t *testing.T) {
	once, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	twice, err := Preprocess(once)
	require.NoError(t, err)

	assert.Equal(t, once.Columns, twice.Columns)
	require.Equal(t, once.Len(), twice.Len())
	for i := range once.Records {
		a, b := once.Records[i], twice.Records[i]
		assert.Equal(t, a.From, b.From)
		assert.Equal(t, a.To, b.To)
		assert.Equal(t, a.Status, b.Status)
		assert.Equal(t, a.Completed, b.Completed)
		assert.Equal(t, a.TimedOut, b.TimedOut)
		assert.Equal(t, a.Date, b.Date)
		assert.Equal(t, a.Hour, b.Hour)
		assert.Equal(t, a.Direction, b.Direction)
		if a.Score == nil {
			assert.Nil(t, b.Score)
		} else {
			require.NotNil(t, b.Score)
			assert.Equal(t, *a.Score, *b.Score)
		}
	}
}

func TestRecord_Cell(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	rec := table.Records[0]
	assert.Equal(t, "Bonjour", rec.Cell("AI Response"), "unknown columns are kept for display")
	assert.Equal(t, "EN → FR", rec.Cell(ColDirection))
	assert.Equal(t, "10", rec.Cell(ColHour))
	assert.Equal(t, "2025-08-19", rec.Cell(ColDate))

	noTime := table.Records[2]
	assert.Equal(t, "", noTime.Cell(ColHour))
	assert.Equal(t, "", noTime.Cell(ColDate))
}
