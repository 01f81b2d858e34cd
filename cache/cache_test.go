package cache_test

import (
	"io"
	"strings"
	"testing"

	"github.com/purplemusic/channels/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetThenGet(t *testing.T) {
	c := cache.New(t.TempDir())

	_, err := c.Get("some-mbid")
	assert.ErrorIs(t, err, cache.ErrMiss)

	body := io.NopCloser(strings.NewReader(`{"relations":[]}`))
	replacement, err := c.Set("some-mbid", body)
	require.NoError(t, err)

	// the replacement reader holds the original bytes
	bs, err := io.ReadAll(replacement)
	require.NoError(t, err)
	assert.Equal(t, `{"relations":[]}`, string(bs))

	cached, err := c.Get("some-mbid")
	require.NoError(t, err)
	defer cached.Close()
	bs, err = io.ReadAll(cached)
	require.NoError(t, err)
	assert.Equal(t, `{"relations":[]}`, string(bs))
}

func TestKeysDoNotCollide(t *testing.T) {
	c := cache.New(t.TempDir())

	_, err := c.Set("a", io.NopCloser(strings.NewReader("body-a")))
	require.NoError(t, err)

	_, err = c.Get("b")
	assert.ErrorIs(t, err, cache.ErrMiss)
}
