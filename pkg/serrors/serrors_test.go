package serrors_test

import (
	"errors"
	"extractor/pkg/serrors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrNotFound,
		serrors.ErrInvalidInput,
		serrors.ErrNoURL,
		serrors.ErrInvalidURL,
		serrors.ErrForbidden,
		serrors.ErrTimeout,
		serrors.ErrUnavailable,
		serrors.ErrRateLimited,
		serrors.ErrInternal,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("connection refused")

	e1 := serrors.With(serrors.ErrInvalidInput, "missing required columns: %v", []string{"Website"})
	require.Equal(t, "missing required columns: [Website]", e1.Error())

	e2 := serrors.Wrap(serrors.ErrUnavailable, base, "fetching %s", "https://acme.test")
	require.Equal(t, "fetching https://acme.test: connection refused", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrNoURL)
	require.Equal(t, "NO_URL", e3.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrTimeout, base, "fetching")

	require.ErrorIs(t, e, serrors.ErrTimeout)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrUnavailable)

	// still matches when wrapped by fmt.Errorf
	wrapped := fmt.Errorf("could not process: %w", e)
	require.ErrorIs(t, wrapped, serrors.ErrTimeout)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrNotFound, base, "reading")

	var k serrors.Kind
	require.ErrorAs(t, e, &k)
	require.Equal(t, serrors.ErrNotFound, k)

	var ce *customError
	require.ErrorAs(t, e, &ce)
	require.Equal(t, base, ce)
}

func TestKindOf(t *testing.T) {
	require.Nil(t, serrors.KindOf(errors.New("plain")))
	require.Nil(t, serrors.KindOf(nil))

	err := fmt.Errorf("outer: %w", serrors.With(serrors.ErrRateLimited, "429"))
	require.Equal(t, serrors.ErrRateLimited, serrors.KindOf(err))
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrInvalidURL, base, "bad website")
	require.Equal(t, serrors.ErrInvalidURL, e.Kind())
	require.Equal(t, "bad website", e.Message())
	require.Equal(t, base, e.Cause())
}
