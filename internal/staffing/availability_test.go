package staffing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAvailability(t *testing.T) {
	t.Run("any leaves both sides open", func(t *testing.T) {
		from, until, err := NormalizeAvailability(AvailabilityAny, "10:00", "18:00")
		require.NoError(t, err)
		assert.Nil(t, from)
		assert.Nil(t, until)
	})

	t.Run("unknown type falls back to unrestricted", func(t *testing.T) {
		from, until, err := NormalizeAvailability("whenever", "", "")
		require.NoError(t, err)
		assert.Nil(t, from)
		assert.Nil(t, until)
	})

	t.Run("from keeps only the start", func(t *testing.T) {
		from, until, err := NormalizeAvailability(AvailabilityFrom, "16:00", "")
		require.NoError(t, err)
		require.NotNil(t, from)
		assert.Equal(t, "16:00", *from)
		assert.Nil(t, until)
	})

	t.Run("from without a time is an error", func(t *testing.T) {
		_, _, err := NormalizeAvailability(AvailabilityFrom, "", "")
		assert.Error(t, err)
	})

	t.Run("range keeps both sides", func(t *testing.T) {
		from, until, err := NormalizeAvailability(AvailabilityRange, "12:00", "20:00")
		require.NoError(t, err)
		require.NotNil(t, from)
		require.NotNil(t, until)
		assert.Equal(t, "12:00", *from)
		assert.Equal(t, "20:00", *until)
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		_, _, err := NormalizeAvailability(AvailabilityRange, "20:00", "12:00")
		assert.Error(t, err)
	})
}
