package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	t.Parallel()

	id := New()
	require.False(t, id.IsZero())
	require.Len(t, id.String(), 26)

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	_, err := Parse("definitely-not-a-ulid")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Parse("")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestMonotonicWithinProcess(t *testing.T) {
	t.Parallel()

	prev := New()
	for range 100 {
		next := New()
		require.True(t, prev.String() < next.String(), "ids must sort in mint order")
		prev = next
	}
}

func TestTimeExtraction(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)
	id := New()
	after := time.Now().Add(time.Second)

	ts := id.Time()
	require.True(t, ts.After(before) && ts.Before(after))
}
