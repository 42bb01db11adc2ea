package roundtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	now := time.Date(2027, 6, 5, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: "2027-06-10T18:30:00Z",
			want:  time.Date(2027, 6, 10, 18, 30, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 with offset",
			input: "2027-06-10T18:30:45+02:00",
			want:  time.Date(2027, 6, 10, 16, 30, 45, 0, time.UTC),
		},
		{
			name:  "rfc3339 seconds after now in the same minute",
			input: "2027-06-05T12:00:45Z",
			want:  time.Date(2027, 6, 5, 12, 0, 45, 0, time.UTC),
		},
		{
			name:  "date and clock",
			input: "2027-06-11 09:00",
			want:  time.Date(2027, 6, 11, 9, 0, 0, 0, time.UTC),
		},
		{
			name:  "tomorrow with hour",
			input: "Tomorrow 5 PM",
			want:  time.Date(2027, 6, 6, 17, 0, 0, 0, time.UTC),
		},
		{
			name:  "bare hour later today",
			input: "7pm",
			want:  time.Date(2027, 6, 5, 19, 0, 0, 0, time.UTC),
		},
		{
			name:  "compact clock",
			input: "932pm",
			want:  time.Date(2027, 6, 5, 21, 32, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "gibberish",
			input:   "invalid date",
			wantErr: true,
		},
	}

	p := NewParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.input, now)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnparsable)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestParser_Location(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	p := NewParser(loc)
	got, err := p.Parse("2027-06-11 09:00", time.Date(2027, 6, 5, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, 6, 11, 13, 0, 0, 0, time.UTC), got)
}
