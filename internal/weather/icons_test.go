package weather

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconCacheDownloadsOnce(t *testing.T) {
	p := &fakeProvider{}
	icons := NewIconCache(p, time.Second)

	for i := 0; i < 3; i++ {
		img, err := icons.Get(context.Background(), "10d")
		require.NoError(t, err)
		assert.Equal(t, []byte("png:10d"), img)
	}
	assert.Equal(t, int32(1), p.iconCalls.Load())
	assert.Equal(t, 1, icons.Len())
}

func TestIconCacheRejectsBadCodes(t *testing.T) {
	p := &fakeProvider{}
	icons := NewIconCache(p, time.Second)

	_, err := icons.Get(context.Background(), "../etc")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = icons.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int32(0), p.iconCalls.Load())
}

func TestIconCacheDoesNotCacheFailures(t *testing.T) {
	p := &fakeProvider{}
	icons := NewIconCache(p, time.Second)

	_, err := icons.Get(context.Background(), "missing")
	require.Error(t, err)
	_, err = icons.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, int32(2), p.iconCalls.Load())
	assert.Equal(t, 0, icons.Len())
}
