package kvstore_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/setavenger/utxo-aggregator/internal/kvstore"
)

func fill(t *testing.T, w kvstore.Writer) {
	t.Helper()
	for _, k := range []string{"Bz", "C1", "C3", "C2", "D0", "a"} {
		require.NoError(t, w.Put([]byte(k), []byte("v"+k)))
	}
	require.NoError(t, w.Flush())
}

func collect(t *testing.T, r kvstore.Reader, start, limit []byte) []string {
	t.Helper()
	var keys []string
	err := r.Iterate(start, limit, func(key, value []byte) error {
		assert.Equal(t, "v"+string(key), string(value))
		keys = append(keys, string(key))
		return nil
	})
	require.NoError(t, err)
	return keys
}

func checkReader(t *testing.T, r kvstore.Reader) {
	assert.Equal(t, []string{"C1", "C2", "C3"}, collect(t, r, []byte("C"), []byte("D")))
	assert.Equal(t, []string{"Bz", "C1", "C2", "C3", "D0", "a"}, collect(t, r, nil, nil))

	v, err := r.Get([]byte("C2"))
	require.NoError(t, err)
	assert.Equal(t, "vC2", string(v))

	_, err = r.Get([]byte("nope"))
	assert.True(t, errors.Is(err, kvstore.ErrNotFound))

	stop := errors.New("stop")
	var seen int
	err = r.Iterate(nil, nil, func(key, value []byte) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}

func TestMemory(t *testing.T) {
	db := kvstore.NewMemory()
	defer db.Close()

	fill(t, db)
	checkReader(t, db)
}

func TestLevelDBReadOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "chainstate")

	db, err := leveldb.OpenFile(dir, nil)
	require.NoError(t, err)
	for _, k := range []string{"Bz", "C1", "C3", "C2", "D0", "a"} {
		require.NoError(t, db.Put([]byte(k), []byte("v"+k), nil))
	}
	require.NoError(t, db.Close())

	r, err := kvstore.OpenReader(kvstore.BackendLevelDB, dir)
	require.NoError(t, err)
	defer r.Close()
	checkReader(t, r)
}

func TestPebbleRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pebble")

	w, err := kvstore.OpenPebble(dir, false)
	require.NoError(t, err)
	fill(t, w)
	require.NoError(t, w.Close())

	r, err := kvstore.OpenReader(kvstore.BackendPebble, dir)
	require.NoError(t, err)
	defer r.Close()
	checkReader(t, r)
}

func TestOpenReaderMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := kvstore.OpenReader(kvstore.BackendLevelDB, missing)
	assert.Error(t, err)

	_, err = kvstore.OpenReader(kvstore.BackendPebble, missing)
	assert.Error(t, err)

	_, err = kvstore.OpenReader("rocksdb", missing)
	assert.Error(t, err)
}
