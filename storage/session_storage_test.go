package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-watchlist/watchlist/storage/model"
)

func TestSessionStorageSetGetDelete(t *testing.T) {
	store := newTestStorage(t).SessionStorage()

	v, err := store.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, store.Set("session:a", []byte("one"), time.Hour))
	v, err = store.Get("session:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), v)

	require.NoError(t, store.Set("session:a", []byte("two"), 0))
	v, err = store.Get("session:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), v)

	require.NoError(t, store.Delete("session:a"))
	require.NoError(t, store.Delete("session:a"))
	v, err = store.Get("session:a")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSessionStorageExpiry(t *testing.T) {
	s := newTestStorage(t)
	store := s.SessionStorage()

	require.NoError(
		t, s.db.Create(
			&model.SessionRecord{
				Key:       "session:old",
				Value:     []byte("x"),
				ExpiresAt: time.Now().Add(-time.Minute).Unix(),
			},
		).Error,
	)
	require.NoError(t, store.Set("session:new", []byte("y"), time.Hour))

	v, err := store.Get("session:old")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(
		t, s.db.Create(
			&model.SessionRecord{
				Key:       "session:older",
				Value:     []byte("x"),
				ExpiresAt: time.Now().Add(-time.Hour).Unix(),
			},
		).Error,
	)
	n, err := store.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	v, err = store.Get("session:new")
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), v)
}

func TestSessionStorageReset(t *testing.T) {
	store := newTestStorage(t).SessionStorage()
	require.NoError(t, store.Set("a", []byte("1"), 0))
	require.NoError(t, store.Set("b", []byte("2"), 0))
	require.NoError(t, store.Reset())

	for _, k := range []string{"a", "b"} {
		v, err := store.Get(k)
		require.NoError(t, err)
		assert.Nil(t, v)
	}
	assert.NoError(t, store.Close())
}

func TestSessionRecordExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, model.SessionRecord{}.Expired(now))
	assert.False(t, model.SessionRecord{ExpiresAt: now.Add(time.Minute).Unix()}.Expired(now))
	assert.True(t, model.SessionRecord{ExpiresAt: now.Unix()}.Expired(now))
}
