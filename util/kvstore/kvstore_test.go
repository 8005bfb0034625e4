package kvstore

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

func TestPebbleRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	kv, err := NewKVStore("pebble", t.TempDir()+"/kv", true)
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set([]byte("a"), []byte("1")))
	v, err := kv.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), v)

	_, err = kv.Get([]byte("missing"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPebbleBatch(t *testing.T) {
	partitiontest.PartitionTest(t)

	kv, err := NewKVStore("pebbledb", t.TempDir()+"/kv", true)
	require.NoError(t, err)
	defer kv.Close()

	wb := kv.NewBatch()
	for i := 0; i < 10; i++ {
		require.NoError(t, wb.Set([]byte(fmt.Sprintf("k%02d", i)), []byte(fmt.Sprintf("v%02d", i))))
	}
	require.NoError(t, wb.Commit())

	v, err := kv.Get([]byte("k07"))
	require.NoError(t, err)
	require.Equal(t, []byte("v07"), v)

	canceled := kv.NewBatch()
	require.NoError(t, canceled.Set([]byte("zz"), []byte("nope")))
	canceled.Cancel()
	_, err = kv.Get([]byte("zz"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPebbleIterator(t *testing.T) {
	partitiontest.PartitionTest(t)

	kv, err := NewKVStore("pebble", t.TempDir()+"/kv", true)
	require.NoError(t, err)
	defer kv.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, kv.Set([]byte(fmt.Sprintf("k%d", i)), []byte(fmt.Sprintf("v%d", i))))
	}

	iter := kv.NewIterator([]byte("k1"), []byte("k4"))
	defer iter.Close()

	var keys []string
	for ; iter.Valid(); iter.Next() {
		keys = append(keys, string(iter.Key()))
		v, err := iter.Value()
		require.NoError(t, err)
		require.Equal(t, "v"+string(iter.Key()[1:]), string(v))

		ks := iter.KeySlice()
		require.True(t, ks.Exists())
		require.Equal(t, len(ks.Data()), ks.Size())
		ks.Free()
	}
	require.Equal(t, []string{"k1", "k2", "k3"}, keys)
}

func TestUnknownImpl(t *testing.T) {
	partitiontest.PartitionTest(t)

	_, err := NewKVStore("nosuch", t.TempDir()+"/kv", true)
	require.Error(t, err)
}
