package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeName(t *testing.T) {
	assert.Equal(t, "int32_t", Integer.Name())
	assert.Equal(t, "double", Double.Name())
	assert.Equal(t, "char", Char.Name())
	assert.Equal(t, "std::string_view", String.Name())
	assert.Equal(t, "int64_t", BigInt.Name())
	assert.Equal(t, "bool", Bool.Name())
	assert.Equal(t, "date", Date.Name())
	assert.Panics(t, func() { Undefined.Name() })
}

func TestDateEncoding(t *testing.T) {
	// J2000 anchor: 2000-01-01 is julian day 2451545.
	assert.Equal(t, int32(2451545), DateFromYMD(2000, 1, 1).Value)
	// fixture anchor used by the scenario queries
	assert.Equal(t, int32(2449792), DateFromYMD(1995, 3, 15).Value)
}

func TestDateRoundTrip(t *testing.T) {
	dates := []struct{ y, m, d uint }{
		{1, 1, 1},
		{1970, 1, 1},
		{1992, 2, 29},
		{1995, 3, 15},
		{1998, 12, 31},
		{2000, 1, 1},
		{9999, 12, 31},
	}
	for _, x := range dates {
		d := DateFromYMD(x.y, x.m, x.d)
		y, m, day := d.YMD()
		assert.Equal(t, x.y, y)
		assert.Equal(t, x.m, m)
		assert.Equal(t, x.d, day)

		parsed, err := ParseDate(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
}

func TestParseDate(t *testing.T) {
	good := map[string]DateValue{
		"1995-03-15":   DateFromYMD(1995, 3, 15),
		"  1995-03-15": DateFromYMD(1995, 3, 15),
		"1995-03-15  ": DateFromYMD(1995, 3, 15),
		"1995-3-5":     DateFromYMD(1995, 3, 5),
		"0001-01-01":   DateFromYMD(1, 1, 1),
	}
	for in, want := range good {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	bad := []string{
		"",
		"1995",
		"1995-03",
		"1995-03-",
		"1995-00-10",
		"1995-13-10",
		"1995-03-00",
		"1995-03-32",
		"10000-01-01",
		"1995/03/15",
		"x995-03-15",
		"1995-03-1x",
	}
	for _, in := range bad {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

func TestDateString(t *testing.T) {
	assert.Equal(t, "1995-03-15", DateFromYMD(1995, 3, 15).String())
	assert.Equal(t, "0001-01-01", DateFromYMD(1, 1, 1).String())
}
