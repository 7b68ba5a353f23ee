package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"qrkeep/internal/persistence/interfaces"
	"qrkeep/internal/testutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "records.dat")
	logger := &testutil.MockLogger{}

	kv, err := NewFileKV(path, 0, &testutil.MockCompressor{}, logger)
	require.NoError(t, err)
	require.NoError(t, kv.Set("history", `[{"id":"1"}]`))
	require.NoError(t, kv.Set("favorites", `["a"]`))
	require.NoError(t, kv.Remove("favorites"))

	reopened, err := NewFileKV(path, 0, &testutil.MockCompressor{}, logger)
	require.NoError(t, err)
	v, err := reopened.Get("history")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, v)
	_, err = reopened.Get("favorites")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestFileKV_WithZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.dat")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	history := "[" + strings.Repeat(`{"id":"1","type":"generated","data":"https://example.com","timestamp":1700000000000},`, 60) + "{}]"
	kv, err := NewFileKV(path, 0, comp, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, kv.SetMany(map[string]string{"history": history, "settings": `{"theme":"dark"}`}))
	require.NoError(t, kv.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, raw[:4], "zstd frame magic")
	assert.Less(t, len(raw), len(history))

	comp2, err := NewZstdCompressor()
	require.NoError(t, err)
	reopened, err := NewFileKV(path, 0, comp2, &testutil.MockLogger{})
	require.NoError(t, err)
	defer reopened.Close()
	v, err := reopened.Get("settings")
	require.NoError(t, err)
	assert.Equal(t, `{"theme":"dark"}`, v)
}

func TestFileKV_MissingFileStartsEmpty(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "none.dat"), 0, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	_, err = kv.Get("history")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestFileKV_CorruptFileMovedAside(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
	logger := &testutil.MockLogger{}

	kv, err := NewFileKV(path, 0, &testutil.MockCompressor{}, logger)
	require.NoError(t, err)
	_, err = kv.Get("history")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
	assert.Equal(t, 1, logger.Count("warn"))

	_, err = os.Stat(path + ".corrupt")
	assert.NoError(t, err)
}

func TestFileKV_WriteFailureKeepsPreviousValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.dat")
	comp := &testutil.MockCompressor{}
	kv, err := NewFileKV(path, 0, comp, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, kv.Set("stats", `{"generated":1}`))

	comp.CompressFn = func([]byte) ([]byte, error) { return nil, errors.New("compress error") }
	assert.Error(t, kv.Set("stats", `{"generated":2}`))

	v, err := kv.Get("stats")
	require.NoError(t, err)
	assert.Equal(t, `{"generated":1}`, v)
}

func TestFileKV_Quota(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "records.dat"), 32, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	assert.NoError(t, kv.Set("history", "[]"))
	assert.ErrorIs(t, kv.Set("history", strings.Repeat("x", 64)), interfaces.ErrQuotaExceeded)
}

func TestFileKV_CloseClosesCompressor(t *testing.T) {
	comp := &testutil.MockCompressor{}
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "records.dat"), 0, comp, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, kv.Close())
	assert.Equal(t, 1, comp.Closed)
}

func TestFileKV_SetManyWritesFileOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.dat")
	writes := 0
	comp := &testutil.MockCompressor{CompressFn: func(b []byte) ([]byte, error) {
		writes++
		return b, nil
	}}

	kv, err := NewFileKV(path, 0, comp, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, kv.SetMany(map[string]string{
		"history":   "[]",
		"favorites": "[]",
		"settings":  "{}",
		"stats":     "{}",
	}))
	assert.Equal(t, 1, writes)

	reopened, err := NewFileKV(path, 0, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	for _, key := range []string{"history", "favorites", "settings", "stats"} {
		_, err := reopened.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestFileKV_SetManyQuotaKeepsEveryKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.dat")
	kv, err := NewFileKV(path, 30, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, kv.Set("history", "[]"))

	err = kv.SetMany(map[string]string{"history": `["x"]`, "stats": strings.Repeat("x", 40)})
	assert.ErrorIs(t, err, interfaces.ErrQuotaExceeded)

	v, err := kv.Get("history")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
	_, err = kv.Get("stats")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}
