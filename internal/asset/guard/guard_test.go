package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "assetgate/pkg/domain-errors"
)

func TestGuard(t *testing.T) {
	t.Run("second entry fails fast", func(t *testing.T) {
		g := New()
		require.NoError(t, g.Enter())

		err := g.Enter()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeReentrant))
	})

	t.Run("exit makes the guard reentrable", func(t *testing.T) {
		g := New()
		require.NoError(t, g.Enter())
		g.Exit()
		assert.NoError(t, g.Enter())
	})

	t.Run("held reflects the current state", func(t *testing.T) {
		g := New()
		assert.False(t, g.Held())
		require.NoError(t, g.Enter())
		assert.True(t, g.Held())
		g.Exit()
		assert.False(t, g.Held())
	})
}
