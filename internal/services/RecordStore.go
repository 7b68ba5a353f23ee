package services

import (
	"errors"
	"fmt"
	"qrkeep/internal/models"
	"qrkeep/internal/persistence/interfaces"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	KeyHistory   = "history"
	KeyFavorites = "favorites"
	KeySettings  = "settings"
	KeyStats     = "stats"

	// DedupWindowMillis is the span in which an identical (data, type) add is dropped.
	DedupWindowMillis = 1000
)

// ErrPersistence wraps storage write failures. In-memory state stays authoritative.
var ErrPersistence = errors.New("persist records")

// LoadReport lists keys whose stored value could not be used and fell back to defaults.
type LoadReport struct {
	Recovered map[string]error
}

func (r LoadReport) OK() bool {
	return len(r.Recovered) == 0
}

type RecordStoreInterface interface {
	Load() LoadReport
	Persist() error
	AddHistoryEntry(input models.NewHistoryEntry) (*models.HistoryEntry, bool, error)
	DeleteHistoryEntry(index int) (bool, error)
	DeleteHistoryEntryByID(id string) (bool, error)
	ToggleFavorite(payload string) (bool, error)
	IsFavorite(payload string) bool
	Favorites() []string
	FilterHistory(filter models.HistoryFilter, search string) []models.HistoryItem
	ImportHistory(bundle models.ImportBundle) error
	ExportSnapshot(includeSettings bool) models.Snapshot
	ResetAll() error
	UpdateSettings(partial map[string]any) (models.Settings, error)
	History() []models.HistoryEntry
	HistoryLen() int
	Settings() models.Settings
	Stats() models.Stats
}

type RecordStore struct {
	mu        sync.RWMutex
	kv        interfaces.KeyValueInterface
	history   []models.HistoryEntry
	favorites map[string]struct{}
	settings  models.Settings
	stats     models.Stats
	now       func() time.Time
	newID     func() string
}

func NewRecordStore(kv interfaces.KeyValueInterface) RecordStoreInterface {
	return newRecordStore(kv, time.Now, uuid.NewString)
}

func newRecordStore(kv interfaces.KeyValueInterface, now func() time.Time, newID func() string) *RecordStore {
	return &RecordStore{
		kv:        kv,
		history:   make([]models.HistoryEntry, 0),
		favorites: make(map[string]struct{}),
		settings:  models.DefaultSettings(),
		now:       now,
		newID:     newID,
	}
}

// Load replaces in-memory state with the stored one. Each key falls back to its
// default on its own, so one corrupt key never discards the others.
func (rs *RecordStore) Load() LoadReport {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	report := LoadReport{Recovered: make(map[string]error)}

	var history []models.HistoryEntry
	if err := rs.readKey(KeyHistory, &history); err != nil {
		report.Recovered[KeyHistory] = err
		history = nil
	}
	if history == nil {
		history = make([]models.HistoryEntry, 0)
	}

	var favorites []string
	if err := rs.readKey(KeyFavorites, &favorites); err != nil {
		report.Recovered[KeyFavorites] = err
		favorites = nil
	}

	settings := models.DefaultSettings()
	if err := rs.readKey(KeySettings, &settings); err != nil {
		report.Recovered[KeySettings] = err
		settings = models.DefaultSettings()
	}

	var stats models.Stats
	if err := rs.readKey(KeyStats, &stats); err != nil {
		report.Recovered[KeyStats] = err
		stats = models.Stats{}
	}

	rs.history = history
	rs.favorites = make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		rs.favorites[f] = struct{}{}
	}
	rs.settings = settings.Normalize()
	rs.stats = stats
	rs.truncateLocked()

	return report
}

// readKey decodes key into dst. A missing key leaves dst untouched.
func (rs *RecordStore) readKey(key string, dst any) error {
	raw, err := rs.kv.Get(key)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	return json.Unmarshal([]byte(raw), dst)
}

func (rs *RecordStore) Persist() error {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.persistLocked()
}

func (rs *RecordStore) persistLocked() error {
	values := []struct {
		key   string
		value any
	}{
		{KeyHistory, rs.history},
		{KeyFavorites, rs.favoriteListLocked()},
		{KeySettings, rs.settings},
		{KeyStats, rs.stats},
	}

	var errs []error
	batch := make(map[string]string, len(values))
	keys := make([]string, 0, len(values))
	for _, v := range values {
		data, err := json.Marshal(v.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", v.key, err))
			continue
		}
		batch[v.key] = string(data)
		keys = append(keys, v.key)
	}
	if len(batch) > 0 {
		if err := rs.kv.SetMany(batch); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", strings.Join(keys, ", "), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersistence, errors.Join(errs...))
	}
	return nil
}

// AddHistoryEntry inserts a new entry at the front. It returns false without an error
// when an entry with the same data and type lies within the dedup window.
func (rs *RecordStore) AddHistoryEntry(input models.NewHistoryEntry) (*models.HistoryEntry, bool, error) {
	if err := input.Validate(); err != nil {
		return nil, false, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	ts := input.Timestamp
	if ts == 0 {
		ts = rs.now().UnixMilli()
	}

	for i := range rs.history {
		if isDuplicate(&rs.history[i], input.Data, input.Type, ts) {
			return nil, false, nil
		}
	}

	entry := models.HistoryEntry{
		ID:             models.EntryID(rs.newID()),
		Type:           input.Type,
		Data:           input.Data,
		QRType:         input.QRType,
		Source:         input.Source,
		Format:         input.Format,
		Timestamp:      ts,
		AdditionalData: input.AdditionalData,
	}
	rs.history = slices.Insert(rs.history, 0, entry)
	rs.truncateLocked()

	switch entry.Type {
	case models.EntryGenerated:
		rs.stats.Generated++
	case models.EntryScanned:
		rs.stats.Scanned++
	}

	return &entry, true, rs.persistLocked()
}

func isDuplicate(e *models.HistoryEntry, data string, typ models.EntryType, ts int64) bool {
	if e.Data != data || e.Type != typ {
		return false
	}
	diff := e.Timestamp - ts
	if diff < 0 {
		diff = -diff
	}
	return diff < DedupWindowMillis
}

func (rs *RecordStore) truncateLocked() {
	if limit := rs.settings.HistorySize; limit > 0 && len(rs.history) > limit {
		clear(rs.history[limit:])
		rs.history = rs.history[:limit]
	}
}

func (rs *RecordStore) DeleteHistoryEntry(index int) (bool, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if index < 0 || index >= len(rs.history) {
		return false, nil
	}
	rs.history = slices.Delete(rs.history, index, index+1)
	return true, rs.persistLocked()
}

func (rs *RecordStore) DeleteHistoryEntryByID(id string) (bool, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	idx := slices.IndexFunc(rs.history, func(e models.HistoryEntry) bool {
		return string(e.ID) == id
	})
	if id == "" || idx < 0 {
		return false, nil
	}
	rs.history = slices.Delete(rs.history, idx, idx+1)
	return true, rs.persistLocked()
}

// ToggleFavorite flips membership of payload and returns the new state.
func (rs *RecordStore) ToggleFavorite(payload string) (bool, error) {
	if strings.TrimSpace(payload) == "" {
		return false, models.ErrEmptyPayload
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	_, exists := rs.favorites[payload]
	if exists {
		delete(rs.favorites, payload)
		rs.stats.Favorites = max(rs.stats.Favorites-1, 0)
	} else {
		rs.favorites[payload] = struct{}{}
		rs.stats.Favorites++
	}
	return !exists, rs.persistLocked()
}

func (rs *RecordStore) IsFavorite(payload string) bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	_, ok := rs.favorites[payload]
	return ok
}

func (rs *RecordStore) Favorites() []string {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.favoriteListLocked()
}

func (rs *RecordStore) favoriteListLocked() []string {
	list := make([]string, 0, len(rs.favorites))
	for f := range rs.favorites {
		list = append(list, f)
	}
	sort.Strings(list)
	return list
}

// FilterHistory builds a newest-first view. The underlying collection is not modified.
func (rs *RecordStore) FilterHistory(filter models.HistoryFilter, search string) []models.HistoryItem {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(search))
	items := make([]models.HistoryItem, 0, len(rs.history))
	for i, e := range rs.history {
		_, fav := rs.favorites[e.Data]
		switch filter {
		case models.FilterGenerated:
			if e.Type != models.EntryGenerated {
				continue
			}
		case models.FilterScanned:
			if e.Type != models.EntryScanned {
				continue
			}
		case models.FilterFavorites:
			if !fav {
				continue
			}
		}
		if !e.Matches(term) {
			continue
		}
		items = append(items, models.HistoryItem{Index: i, Favorite: fav, Entry: e})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Entry.Timestamp > items[j].Entry.Timestamp
	})
	return items
}

// ImportHistory merges an external bundle. Imported entries are not deduplicated;
// an entry whose id is missing or already taken gets a fresh one.
func (rs *RecordStore) ImportHistory(bundle models.ImportBundle) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	ids := make(map[models.EntryID]struct{}, len(rs.history)+len(bundle.History))
	for _, e := range rs.history {
		ids[e.ID] = struct{}{}
	}
	for _, e := range bundle.History {
		if _, taken := ids[e.ID]; taken || e.ID == "" {
			e.ID = models.EntryID(rs.newID())
		}
		ids[e.ID] = struct{}{}
		rs.history = append(rs.history, e)
	}
	if len(bundle.History) > 0 {
		sort.SliceStable(rs.history, func(i, j int) bool {
			return rs.history[i].Timestamp > rs.history[j].Timestamp
		})
		rs.truncateLocked()
	}

	for _, f := range bundle.Favorites {
		rs.favorites[f] = struct{}{}
	}
	rs.stats = bundle.Stats.MergeInto(rs.stats)

	return rs.persistLocked()
}

func (rs *RecordStore) ExportSnapshot(includeSettings bool) models.Snapshot {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	snap := models.Snapshot{
		History:    slices.Clone(rs.history),
		Favorites:  rs.favoriteListLocked(),
		Stats:      rs.stats,
		ExportDate: rs.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	if snap.History == nil {
		snap.History = make([]models.HistoryEntry, 0)
	}
	if includeSettings {
		settings := rs.settings
		snap.Settings = &settings
		snap.Version = models.SnapshotVersion
	}
	return snap
}

func (rs *RecordStore) ResetAll() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.history = make([]models.HistoryEntry, 0)
	rs.favorites = make(map[string]struct{})
	rs.settings = models.DefaultSettings()
	rs.stats = models.Stats{}
	return rs.persistLocked()
}

// UpdateSettings merges partial into the current settings. Invalid input leaves
// settings unchanged. A smaller historySize truncates history right away.
func (rs *RecordStore) UpdateSettings(partial map[string]any) (models.Settings, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	next, err := rs.settings.Merge(partial)
	if err != nil {
		return rs.settings, err
	}
	rs.settings = next
	rs.truncateLocked()
	return rs.settings, rs.persistLocked()
}

func (rs *RecordStore) History() []models.HistoryEntry {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return slices.Clone(rs.history)
}

func (rs *RecordStore) HistoryLen() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.history)
}

func (rs *RecordStore) Settings() models.Settings {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.settings
}

func (rs *RecordStore) Stats() models.Stats {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.stats
}
