package dates

import (
	"fmt"
	"testing"

	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection_ImportFromText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      []model.DateEntry
		wantCount int
	}{
		{
			name:      "date without seats uses default",
			input:     "15/05/2026",
			wantCount: 1,
			want:      []model.DateEntry{{Date: "2026-05-15", Seats: 2, Source: model.SourceImport}},
		},
		{
			name:      "tab separated seats",
			input:     "5/6/2026\t3",
			wantCount: 1,
			want:      []model.DateEntry{{Date: "2026-06-05", Seats: 3, Source: model.SourceImport}},
		},
		{
			name:      "space separated seats",
			input:     "20/05/2026  4\n21/05/2026    6\n22/05/2026\t\t7",
			wantCount: 3,
			want: []model.DateEntry{
				{Date: "2026-05-20", Seats: 4, Source: model.SourceImport},
				{Date: "2026-05-21", Seats: 6, Source: model.SourceImport},
				{Date: "2026-05-22", Seats: 7, Source: model.SourceImport},
			},
		},
		{
			name:      "single space does not separate fields",
			input:     "20/05/2026 4\n21/05/2026  3",
			wantCount: 1,
			want:      []model.DateEntry{{Date: "2026-05-21", Seats: 3, Source: model.SourceImport}},
		},
		{
			name:      "non-numeric seats fall back to default",
			input:     "01/07/2026\tmany",
			wantCount: 1,
			want:      []model.DateEntry{{Date: "2026-07-01", Seats: 2, Source: model.SourceImport}},
		},
		{
			name:      "malformed lines are skipped",
			input:     "header line\n2026-05-01\n\n1/1/26\n31/02/2026\n  9/9/2026  ",
			wantCount: 1,
			want:      []model.DateEntry{{Date: "2026-09-09", Seats: 2, Source: model.SourceImport}},
		},
		{
			name:      "windows line endings",
			input:     "01/08/2026\t2\r\n02/08/2026\r\n",
			wantCount: 2,
			want: []model.DateEntry{
				{Date: "2026-08-01", Seats: 2, Source: model.SourceImport},
				{Date: "2026-08-02", Seats: 2, Source: model.SourceImport},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(model.NewDateSelection(), WithDefaultSeats(2))

			count, state := s.ImportFromText(tt.input)

			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.want, state.List)
		})
	}
}

func TestSelection_ImportFromText_ZeroPadding(t *testing.T) {
	for d := 1; d <= 28; d += 9 {
		for m := 1; m <= 12; m += 5 {
			line := fmt.Sprintf("%d/%d/2027", d, m)
			s := New(model.NewDateSelection())

			count, state := s.ImportFromText(line)

			require.Equal(t, 1, count, line)
			assert.Equal(t, fmt.Sprintf("2027-%02d-%02d", m, d), state.List[0].Date, line)
			assert.Equal(t, DefaultSeats, state.List[0].Seats, line)
		}
	}
}

func TestSelection_ImportFromText_Upsert(t *testing.T) {
	s := New(model.NewDateSelection())

	s.ImportFromText("15/05/2026\t2")
	count, state := s.ImportFromText("15/05/2026\t5")

	assert.Equal(t, 1, count)
	require.Len(t, state.List, 1, "re-importing a date must not duplicate it")
	assert.Equal(t, 5, state.List[0].Seats)
}

func TestSelection_ImportFromText_NothingFound(t *testing.T) {
	calls := 0
	s := New(model.NewDateSelection(), WithOnChange(func(string, model.DateSelection) { calls++ }))

	count, state := s.ImportFromText("nothing here\n")

	assert.Zero(t, count)
	assert.Empty(t, state.List)
	assert.Zero(t, calls, "an empty import does not notify the owner")
}
