package valueobject

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCivilDateOf(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	tests := []struct {
		name    string
		instant time.Time
		want    string
	}{
		{
			name:    "late evening UTC is next day in Kolkata",
			instant: time.Date(2026, 3, 9, 19, 0, 0, 0, time.UTC),
			want:    "2026-03-10",
		},
		{
			name:    "early morning UTC is same day in Kolkata",
			instant: time.Date(2026, 3, 9, 2, 0, 0, 0, time.UTC),
			want:    "2026-03-09",
		},
		{
			name:    "year boundary",
			instant: time.Date(2025, 12, 31, 18, 30, 0, 0, time.UTC),
			want:    "2026-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CivilDateOf(tt.instant, kolkata).String())
		})
	}
}

func TestCivilDate_Compare(t *testing.T) {
	a := MustParseCivilDate("2026-02-28")
	b := MustParseCivilDate("2026-03-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.True(t, a.Equal(MustParseCivilDate("2026-02-28")))
	assert.Equal(t, b, a.AddDays(1))
	assert.Equal(t, "2026-02", a.YearMonth().String())
}

func TestCivilDate_At(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	at := MustParseCivilDate("2026-03-09").At(23, 55, 0, kolkata)
	assert.Equal(t, time.Date(2026, 3, 9, 18, 25, 0, 0, time.UTC), at.UTC())
}

func TestCivilDate_Scan(t *testing.T) {
	t.Run("from time", func(t *testing.T) {
		var d CivilDate
		require.NoError(t, d.Scan(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, "2026-01-05", d.String())
	})

	t.Run("from string with time suffix", func(t *testing.T) {
		var d CivilDate
		require.NoError(t, d.Scan("2026-01-05T00:00:00Z"))
		assert.Equal(t, "2026-01-05", d.String())
	})

	t.Run("from bytes", func(t *testing.T) {
		var d CivilDate
		require.NoError(t, d.Scan([]byte("2026-01-05")))
		assert.Equal(t, "2026-01-05", d.String())
	})

	t.Run("nil", func(t *testing.T) {
		d := MustParseCivilDate("2026-01-05")
		require.NoError(t, d.Scan(nil))
		assert.True(t, d.IsZero())
	})

	t.Run("unsupported", func(t *testing.T) {
		var d CivilDate
		assert.Error(t, d.Scan(42))
	})
}

func TestCivilDate_JSON(t *testing.T) {
	d := MustParseCivilDate("2026-07-04")
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-07-04"`, string(data))

	var decoded CivilDate
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, d, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"07/04/2026"`), &decoded))
}

func TestYearMonth(t *testing.T) {
	m, err := ParseYearMonth("2026-02")
	require.NoError(t, err)

	assert.Equal(t, "2026-02-01", m.FirstDay().String())
	assert.Equal(t, "2026-02-28", m.LastDay().String())
	assert.True(t, m.Before(NewYearMonth(2026, time.March)))
	assert.False(t, m.Before(NewYearMonth(2025, time.December)))

	_, err = ParseYearMonth("2026-13")
	assert.Error(t, err)
}
