package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

type EntryType string

const (
	EntryGenerated EntryType = "generated"
	EntryScanned   EntryType = "scanned"
)

func (t EntryType) Valid() bool {
	return t == EntryGenerated || t == EntryScanned
}

// EntryID accepts both string and numeric ids, older exports used epoch millis.
type EntryID string

func (id *EntryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = EntryID(s)
		return nil
	}
	n, err := cast.ToInt64E(string(data))
	if err != nil {
		return fmt.Errorf("entry id: %w", err)
	}
	*id = EntryID(strconv.FormatInt(n, 10))
	return nil
}

type HistoryEntry struct {
	ID             EntryID         `json:"id"`
	Type           EntryType       `json:"type"`
	Data           string          `json:"data"`
	QRType         QRType          `json:"qrType,omitempty"`
	Source         string          `json:"source,omitempty"`
	Format         string          `json:"format,omitempty"`
	Timestamp      int64           `json:"timestamp"`
	AdditionalData json.RawMessage `json:"additionalData,omitempty"`
}

// NewHistoryEntry is the input of an add operation. Zero Timestamp means now.
type NewHistoryEntry struct {
	Type           EntryType
	Data           string
	QRType         QRType
	Source         string
	Format         string
	Timestamp      int64
	AdditionalData json.RawMessage
}

func (e NewHistoryEntry) Validate() error {
	if strings.TrimSpace(e.Data) == "" {
		return ErrEmptyPayload
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEntryType, e.Type)
	}
	if e.QRType != "" && !e.QRType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownQRType, e.QRType)
	}
	return nil
}

// Matches reports a case-insensitive substring hit on payload, category labels or source.
// term must already be lower-cased.
func (e *HistoryEntry) Matches(term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{e.Data, string(e.Type), string(e.QRType), e.Source} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

type HistoryFilter string

const (
	FilterAll       HistoryFilter = "all"
	FilterGenerated HistoryFilter = "generated"
	FilterScanned   HistoryFilter = "scanned"
	FilterFavorites HistoryFilter = "favorites"
)

func ParseHistoryFilter(s string) (HistoryFilter, error) {
	switch f := HistoryFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterGenerated, FilterScanned, FilterFavorites:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
}

// HistoryItem is one row of a filtered view. Index points into the store's ordering.
type HistoryItem struct {
	Index    int          `json:"index"`
	Favorite bool         `json:"favorite"`
	Entry    HistoryEntry `json:"entry"`
}
