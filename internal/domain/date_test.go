package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2025-01-12")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.January, 12), d)
	assert.Equal(t, "2025-01-12", d.String())

	for _, bad := range []string{"", "2025-1-12", "2025-02-30", "12/01/2025"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, bad)
	}
}

func TestDateArithmetic(t *testing.T) {
	t.Parallel()

	d := MustParseDate("2024-02-28")
	assert.Equal(t, MustParseDate("2024-02-29"), d.AddDays(1), "leap day")
	assert.Equal(t, MustParseDate("2024-03-01"), d.AddDays(2))
	assert.Equal(t, MustParseDate("2023-12-31"), MustParseDate("2024-01-01").AddDays(-1))

	assert.Equal(t, 2, d.DaysUntil(MustParseDate("2024-03-01")))
	assert.Equal(t, -366, MustParseDate("2025-01-01").DaysUntil(MustParseDate("2024-01-01")))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.False(t, d.Before(d))
	assert.Equal(t, -1, d.Compare(d.AddDays(1)))
	assert.Equal(t, 0, d.Compare(MustParseDate("2024-02-28")))
	assert.Equal(t, 1, d.Compare(d.AddDays(-3)))
}

func TestDateDaysUntilAcrossDST(t *testing.T) {
	t.Parallel()

	// US DST began on 2025-03-09; civil dates are unaffected.
	assert.Equal(t, 1, MustParseDate("2025-03-08").DaysUntil(MustParseDate("2025-03-09")))
	assert.Equal(t, 7, MustParseDate("2025-03-05").DaysUntil(MustParseDate("2025-03-12")))
}

func TestDateWeekend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date    string
		weekend bool
	}{
		{"2025-01-10", false}, // Friday
		{"2025-01-11", true},
		{"2025-01-12", true},
		{"2025-01-13", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.weekend, MustParseDate(tt.date).IsWeekend(), tt.date)
	}
}

func TestDateIn(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, time.January, 12, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, MustParseDate("2025-01-12"), DateIn(ts, nil))
	assert.Equal(t, MustParseDate("2025-01-13"), DateIn(ts, time.FixedZone("UTC+2", 2*60*60)))
	assert.Equal(t, MustParseDate("2025-01-12"), DateIn(ts, time.FixedZone("UTC-5", -5*60*60)))
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Due  *Date `json:"due"`
		Zero Date  `json:"zero"`
	}

	data, err := json.Marshal(payload{Due: DatePtr(MustParseDate("2025-01-12"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2025-01-12","zero":null}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2025-03-01","zero":null}`), &decoded))
	require.NotNil(t, decoded.Due)
	assert.Equal(t, MustParseDate("2025-03-01"), *decoded.Due)
	assert.True(t, decoded.Zero.IsZero())

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"due":"soon"}`), &decoded), ErrInvalidFormat)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"due":42}`), &decoded), ErrInvalidFormat)
}

func TestDateYAML(t *testing.T) {
	t.Parallel()

	var decoded struct {
		Due *Date `yaml:"due"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("due: 2025-01-12\n"), &decoded))
	require.NotNil(t, decoded.Due)
	assert.Equal(t, MustParseDate("2025-01-12"), *decoded.Due)

	out, err := yaml.Marshal(decoded)
	require.NoError(t, err)
	assert.Contains(t, string(out), "2025-01-12")
}

func TestDateSQL(t *testing.T) {
	t.Parallel()

	want := MustParseDate("2025-01-12")

	v, err := want.Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC), v)

	zero, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, zero)

	for _, src := range []interface{}{
		time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC),
		"2025-01-12",
		[]byte("2025-01-12"),
	} {
		var got Date
		require.NoError(t, got.Scan(src))
		assert.Equal(t, want, got)
	}

	var got Date
	assert.ErrorIs(t, got.Scan(42), ErrInvalidFormat)
}

func TestSameDate(t *testing.T) {
	t.Parallel()

	a := DatePtr(MustParseDate("2025-01-12"))
	b := DatePtr(MustParseDate("2025-01-12"))
	assert.True(t, SameDate(nil, nil))
	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(a, nil))
	assert.False(t, SameDate(a, DatePtr(a.AddDays(1))))
}
