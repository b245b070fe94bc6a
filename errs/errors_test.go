package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelMatching(t *testing.T) {
	err := EndOfFile(42)
	require.ErrorIs(t, err, ErrEndOfFile)
	require.NotErrorIs(t, err, ErrInvalidType)

	require.ErrorIs(t, InvalidType("integer", "string", 3), ErrInvalidType)
	require.ErrorIs(t, DepthLimitExceeded(0), ErrDepthLimitExceeded)
	require.ErrorIs(t, UnknownLength(), ErrUnknownLength)
}

func TestSentinelMatchingThroughWrap(t *testing.T) {
	err := fmt.Errorf("decoding value: %w", NumberOutOfRange(7))
	require.ErrorIs(t, err, ErrNumberOutOfRange)

	e, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, 7, e.Pos())
	require.Equal(t, 7, Pos(err))
}

func TestPositions(t *testing.T) {
	require.Equal(t, 42, EndOfFile(42).Pos())
	require.Equal(t, NoPos, UnknownLength().Pos())
	require.Equal(t, NoPos, Pos(errors.New("unrelated")))
}

func TestWithPos(t *testing.T) {
	base := EndOfFile(NoPos)
	stamped := base.WithPos(9)
	require.Equal(t, 9, stamped.Pos())
	require.Equal(t, NoPos, base.Pos(), "original untouched")

	// An existing position is not overwritten.
	require.Equal(t, 9, stamped.WithPos(100).Pos())
}

func TestIoTranslatesEOF(t *testing.T) {
	require.ErrorIs(t, Io(io.EOF, 5), ErrEndOfFile)
	require.ErrorIs(t, Io(io.ErrUnexpectedEOF, 5), ErrEndOfFile)

	cause := errors.New("disk on fire")
	err := Io(cause, 5)
	require.ErrorIs(t, err, ErrIo)
	require.ErrorIs(t, err, cause)
}

func TestErrorStrings(t *testing.T) {
	require.Equal(t, "unexpected end of file, at position 3", EndOfFile(3).Error())
	require.Equal(t, "unexpected end of file", EndOfFile(NoPos).Error())
	require.Equal(t,
		"invalid type: expected integer, found string, at position 0",
		InvalidType("integer", "string", 0).Error())

	e := InvalidLength("2", "1", NoPos)
	require.Equal(t, "2", e.Expected())
	require.Equal(t, "1", e.Actual())
}

func TestKindAccessors(t *testing.T) {
	require.Equal(t, KindUtf8, Utf8(3).Kind())
	require.Equal(t, KindUncategorized, Uncategorized("boom", NoPos).Kind())
	require.Equal(t, "invalid UTF-8", KindUtf8.String())
}
