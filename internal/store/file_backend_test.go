package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	_, err = b.Get(ctx, KeyUsers)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Set(ctx, "social_app_token:a/b", []byte("one")))
	require.NoError(t, b.Set(ctx, "social_app_token:a/b", []byte("two")))
	got, err := b.Get(ctx, "social_app_token:a/b")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)

	require.NoError(t, b.Remove(ctx, "social_app_token:a/b"))
	require.NoError(t, b.Remove(ctx, "social_app_token:a/b"))
	_, err = b.Get(ctx, "social_app_token:a/b")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreOnFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	s := openStore(t, b, Options{})
	require.NoError(t, s.Update(ctx, func(tx *Tx) error { return tx.InsertUser(testUser("1")) }))
	require.NoError(t, s.Close(ctx))

	b2, err := NewFileBackend(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, userIDs(t, openStore(t, b2, Options{})))
}

func TestCodecByName(t *testing.T) {
	c, err := CodecByName("cbor")
	require.NoError(t, err)
	assert.Equal(t, "cbor", c.Name())

	c, err = CodecByName("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	_, err = CodecByName("xml")
	assert.ErrorIs(t, err, ErrInvalid)
}
