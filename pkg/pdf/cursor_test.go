package pdf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCursorStartsAtTopMargin(t *testing.T) {
	cur := NewCursor()
	require.Equal(t, 1, cur.Page)
	require.Equal(t, cur.MarginTop, cur.Y)
	require.InDelta(t, 515.28, cur.ContentWidth(), 0.01)
}

func TestCursorRemainingShrinksAsItAdvances(t *testing.T) {
	cur := NewCursor()
	before := cur.Remaining()
	cur = cur.Advance(100)
	require.InDelta(t, before-100, cur.Remaining(), 0.001)
}

func TestCursorNeedsBreak(t *testing.T) {
	cur := NewCursor()
	require.False(t, cur.NeedsBreak(60))

	cur = cur.Advance(cur.Remaining() - 50)
	require.True(t, cur.NeedsBreak(60))
	require.False(t, cur.NeedsBreak(40))
}

func TestCursorNextPageResetsPosition(t *testing.T) {
	cur := NewCursor().Advance(500)
	cur = cur.NextPage()
	require.Equal(t, 2, cur.Page)
	require.Equal(t, cur.MarginTop, cur.Y)
}

func TestCursorIsValueSemantics(t *testing.T) {
	cur := NewCursor()
	_ = cur.Advance(200)
	require.Equal(t, cur.MarginTop, cur.Y)
}
