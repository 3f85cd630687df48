// Unit tests for the record projector and its typed casts.
package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	fields := []Field{
		{Attr: "name", Key: true},
		{Attr: "description"},
	}

	t.Run("projects one row per record", func(t *testing.T) {
		recs := []Record{
			{"@name": "gregory", "@description": "Gregorian calendar"},
			{"@name": "buddhist", "@description": "Thai Buddhist calendar"},
		}
		rows, err := Project(recs, false, fields)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []any{"gregory", "Gregorian calendar"}, rows[0])
	})

	t.Run("absent optional attribute projects as nil", func(t *testing.T) {
		rows, err := Project([]Record{{"@name": "x"}}, false, fields)
		require.NoError(t, err)
		assert.Equal(t, []any{"x", nil}, rows[0])
	})

	t.Run("alias expansion emits linked synonym rows", func(t *testing.T) {
		recs := []Record{
			{"@name": "foo", "@description": "The Foo", "@alias": "bar baz"},
		}
		rows, err := Project(recs, true, fields)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []any{"foo", "The Foo", nil}, rows[0])
		assert.Equal(t, []any{"bar", "The Foo", "foo"}, rows[1])
		assert.Equal(t, []any{"baz", "The Foo", "foo"}, rows[2])
	})

	t.Run("aliased record without alias attribute gets only the nil slot", func(t *testing.T) {
		rows, err := Project([]Record{{"@name": "plain"}}, true, fields)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, []any{"plain", nil, nil}, rows[0])
	})

	t.Run("alias substitution follows the key flag, not position", func(t *testing.T) {
		reordered := []Field{
			{Attr: "description"},
			{Attr: "name", Key: true},
		}
		recs := []Record{
			{"@name": "foo", "@description": "The Foo", "@alias": "bar"},
		}
		rows, err := Project(recs, true, reordered)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []any{"The Foo", "bar", "foo"}, rows[1])
	})

	t.Run("alias expansion without a key field is an error", func(t *testing.T) {
		_, err := Project(nil, true, []Field{{Attr: "name"}})
		assert.Error(t, err)
	})
}

func TestCastInt(t *testing.T) {
	f := Field{Attr: "digits", Cast: CastInt}

	t.Run("parses decimal strings", func(t *testing.T) {
		v, err := castValue("2", f)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v)
	})

	t.Run("nil and empty stay nil", func(t *testing.T) {
		v, err := castValue(nil, f)
		require.NoError(t, err)
		assert.Nil(t, v)

		v, err = castValue("", f)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("already-integer values pass through", func(t *testing.T) {
		v, err := castValue(int64(7), f)
		require.NoError(t, err)
		assert.Equal(t, int64(7), v)
	})

	t.Run("garbage is a CastError", func(t *testing.T) {
		_, err := castValue("two", f)
		var castErr *CastError
		require.ErrorAs(t, err, &castErr)
		assert.Equal(t, "digits", castErr.Attr)
	})
}

func TestCastBool(t *testing.T) {
	truthy := []any{true, 1, "yes", "true"}
	for _, tok := range truthy {
		assert.Equal(t, true, castBool(tok, nil), "token %v", tok)
	}

	falsy := []any{false, 0, "no", "false"}
	for _, tok := range falsy {
		assert.Equal(t, false, castBool(tok, nil), "token %v", tok)
	}

	t.Run("other non-null values coerce by truthiness", func(t *testing.T) {
		assert.Equal(t, true, castBool("maybe", nil))
		assert.Equal(t, false, castBool("", nil))
	})

	t.Run("absent value takes the declared default", func(t *testing.T) {
		assert.Equal(t, true, castBool(nil, true))
		assert.Nil(t, castBool(nil, nil))
	})
}

func TestCastDate(t *testing.T) {
	f := Field{Attr: "from", Cast: CastDate}

	t.Run("parses full dates", func(t *testing.T) {
		v, err := castValue("1999-01-01", f)
		require.NoError(t, err)
		assert.Equal(t, time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), v)
	})

	t.Run("month and day default to 1", func(t *testing.T) {
		v, err := castValue("1999", f)
		require.NoError(t, err)
		assert.Equal(t, time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), v)

		v, err = castValue("1999-06", f)
		require.NoError(t, err)
		assert.Equal(t, time.Date(1999, 6, 1, 0, 0, 0, 0, time.UTC), v)
	})

	t.Run("nil and empty stay nil", func(t *testing.T) {
		v, err := castValue(nil, f)
		require.NoError(t, err)
		assert.Nil(t, v)

		v, err = castValue("", f)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("already-date values pass through", func(t *testing.T) {
		d := time.Date(2020, 2, 2, 0, 0, 0, 0, time.UTC)
		v, err := castValue(d, f)
		require.NoError(t, err)
		assert.Equal(t, d, v)
	})

	t.Run("non-numeric parts are a CastError", func(t *testing.T) {
		_, err := castValue("once-upon-a-time", f)
		var castErr *CastError
		assert.ErrorAs(t, err, &castErr)
	})
}
