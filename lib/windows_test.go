//go:build windows
// +build windows

package changewallpaperlib

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCOMNested(t *testing.T) {
	calls := 0
	err := withCOM(func() error {
		calls++
		// Already initialized on this thread
		return withCOM(func() error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithCOMReturnsError(t *testing.T) {
	errFailed := errors.New("failed")
	assert.ErrorIs(t, withCOM(func() error { return errFailed }), errFailed)
}

func TestSetPositionUnknown(t *testing.T) {
	assert.Error(t, setPosition("diagonal"))
}
