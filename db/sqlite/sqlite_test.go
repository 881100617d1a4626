package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientPutGet(t *testing.T) {
	ctx := context.Background()
	c, err := Open(filepath.Join(t.TempDir(), "sub", "stakes.db"))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Ping(ctx))

	_, err = c.Get(ctx, "state")
	assert.ErrorIs(t, err, ErrBlobNotFound)

	require.NoError(t, c.Put(ctx, "state", []byte("first")))
	require.NoError(t, c.Put(ctx, "state", []byte("second")))
	require.NoError(t, c.Put(ctx, "other", []byte("x")))

	got, err := c.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
