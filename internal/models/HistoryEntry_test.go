package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryID_AcceptsStringAndNumber(t *testing.T) {
	var entries []HistoryEntry
	raw := `[{"id":"abc","type":"generated","data":"x","timestamp":1},{"id":1700000000000,"type":"scanned","data":"y","timestamp":2}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, EntryID("abc"), entries[0].ID)
	assert.Equal(t, EntryID("1700000000000"), entries[1].ID)
}

func TestNewHistoryEntry_Validate(t *testing.T) {
	assert.NoError(t, NewHistoryEntry{Type: EntryGenerated, Data: "x"}.Validate())
	assert.ErrorIs(t, NewHistoryEntry{Type: EntryGenerated, Data: "  "}.Validate(), ErrEmptyPayload)
	assert.ErrorIs(t, NewHistoryEntry{Type: "printed", Data: "x"}.Validate(), ErrInvalidEntryType)
	assert.ErrorIs(t, NewHistoryEntry{Type: EntryScanned, Data: "x", QRType: "geo"}.Validate(), ErrUnknownQRType)
}

func TestHistoryEntry_Matches(t *testing.T) {
	e := HistoryEntry{Type: EntryScanned, Data: "https://Example.com", QRType: QRURL, Source: "Poster.PNG"}
	assert.True(t, e.Matches(""))
	assert.True(t, e.Matches("example"))
	assert.True(t, e.Matches("scanned"))
	assert.True(t, e.Matches("url"))
	assert.True(t, e.Matches("poster"))
	assert.False(t, e.Matches("generated"))
}

func TestParseHistoryFilter(t *testing.T) {
	f, err := ParseHistoryFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseHistoryFilter("Favorites")
	require.NoError(t, err)
	assert.Equal(t, FilterFavorites, f)

	_, err = ParseHistoryFilter("recent")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestImportStats_MergeInto(t *testing.T) {
	five := 5
	is := &ImportStats{Scanned: &five}
	merged := is.MergeInto(Stats{Generated: 2, Scanned: 1, Favorites: 3})
	assert.Equal(t, Stats{Generated: 2, Scanned: 5, Favorites: 3}, merged)

	var none *ImportStats
	assert.Equal(t, Stats{Generated: 1}, none.MergeInto(Stats{Generated: 1}))
}
