package jsonval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, doc string) Object {
	t.Helper()
	obj, err := Decode([]byte(doc))
	require.NoError(t, err)
	return obj
}

func TestString(t *testing.T) {
	obj := decode(t, `{"title":"T","empty":"","n":3}`)

	s, ok, err := obj.String("title", Default)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T", s)

	_, ok, err = obj.String("absent", Default)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = obj.String("absent", Required)
	assert.ErrorIs(t, err, ErrMissing)

	// Empty strings are treated as absent for ID-like fields.
	_, ok, err = obj.String("empty", NonEmpty)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = obj.String("empty", Required|NonEmpty)
	assert.ErrorIs(t, err, ErrMissing)

	_, _, err = obj.String("n", Default)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestBool(t *testing.T) {
	obj := decode(t, `{"yes":true,"no":false,"str":"true"}`)

	b, ok, err := obj.Bool("yes", Default)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, b)

	b, _, err = obj.Bool("no", Default)
	require.NoError(t, err)
	assert.False(t, b)

	// Only the two literal tokens are booleans.
	_, _, err = obj.Bool("str", Default)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestUintString(t *testing.T) {
	obj := decode(t, `{"viewCount":"10","bad":"10 views","neg":"-4","huge":"99999999999999999999"}`)

	n, ok, err := obj.UintString("viewCount", Default)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(10), n)

	// Must not coerce junk to zero.
	_, _, err = obj.UintString("bad", Default)
	assert.ErrorIs(t, err, ErrFormat)

	_, _, err = obj.UintString("neg", Default)
	assert.ErrorIs(t, err, ErrFormat)

	_, _, err = obj.UintString("huge", Default)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestTime(t *testing.T) {
	obj := decode(t, `{"publishedAt":"2020-01-02T03:04:05Z","bad":"yesterday"}`)

	ts, ok, err := obj.Time("publishedAt", Default)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1577934245), ts.Unix())

	_, _, err = obj.Time("bad", Default)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDate(t *testing.T) {
	obj := decode(t, `{"day":"2015-06-01","stamp":"2015-06-01T10:30:00Z"}`)

	d, ok, err := obj.Date("day", Default)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC), d)

	// Timestamps are truncated to the whole day.
	d, _, err = obj.Date("stamp", Default)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC), d)
}

func TestDuration(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"PT0S", 0, true},
		{"PT1H2M3S", 3723, true},
		{"PT15M33S", 933, true},
		{"PT2H", 7200, true},
		{"PT", 0, true},
		{"P1D", 0, false}, // date designators rejected
		{"PT5X", 0, false},
		{"1H", 0, false},
		{"PTH", 0, false},
	}

	for _, tc := range cases {
		obj := Object{"duration": []byte(`"` + tc.in + `"`)}
		got, _, err := obj.Duration("duration", Default)
		if tc.ok {
			require.NoError(t, err, "duration %q", tc.in)
			assert.Equal(t, tc.want, got, "duration %q", tc.in)
		} else {
			assert.ErrorIs(t, err, ErrFormat, "duration %q", tc.in)
		}
	}
}

func TestStrings(t *testing.T) {
	obj := decode(t, `{"tags":["a","b"],"none":[]}`)

	tags, ok, err := obj.Strings("tags", Default)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, tags)

	// Empty list is preserved, distinct from absent.
	none, ok, err := obj.Strings("none", Default)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, none)
	assert.Len(t, none, 0)

	_, ok, err = obj.Strings("missing", Default)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNestedObjectAndArray(t *testing.T) {
	obj := decode(t, `{"snippet":{"title":"T"},"items":[{"id":"a"},{"id":"b"}]}`)

	snippet, ok, err := obj.Object("snippet", Default)
	require.NoError(t, err)
	assert.True(t, ok)
	title, _, err := snippet.String("title", Default)
	require.NoError(t, err)
	assert.Equal(t, "T", title)

	items, ok, err := obj.Array("items", Default)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, items, 2)
}

func TestNullMembersAreAbsent(t *testing.T) {
	obj := decode(t, `{"etag":null}`)

	_, ok, err := obj.String("etag", Default)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = obj.String("etag", Required)
	assert.ErrorIs(t, err, ErrMissing)
}

func TestClaim(t *testing.T) {
	var populated bool

	require.NoError(t, Claim("rejectionReason", &populated))
	err := Claim("rejectionReason", &populated)
	assert.ErrorIs(t, err, ErrDuplicate)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "rejectionReason", fe.Field)
}
