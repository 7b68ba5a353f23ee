package internal

import (
	"fmt"
	"io"
	"qrkeep/internal/models"
	"qrkeep/internal/persistence/interfaces"
	"qrkeep/internal/providers"
	"qrkeep/internal/services"

	json "github.com/goccy/go-json"
)

// Maintenance runs one-shot record operations against the configured storage
// without starting the HTTP server.
type Maintenance struct {
	store     services.RecordStoreInterface
	scheduler interfaces.SchedulerInterface
	logger    providers.Logger
}

func NewMaintenance(store services.RecordStoreInterface, scheduler interfaces.SchedulerInterface, logger providers.Logger) *Maintenance {
	m := &Maintenance{
		store:     store,
		scheduler: scheduler,
		logger:    logger,
	}
	scheduler.Restore()
	return m
}

// Export writes a history backup, or a full backup with settings when full is set.
func (m *Maintenance) Export(w io.Writer, full bool) error {
	snap := m.store.ExportSnapshot(full)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	m.logger.Infof(providers.TypeApp, "Exported %d history entries", len(snap.History))
	return nil
}

func (m *Maintenance) Import(r io.Reader) error {
	var bundle models.ImportBundle
	if err := json.NewDecoder(r).Decode(&bundle); err != nil {
		return fmt.Errorf("decode import: %w", err)
	}
	if err := m.store.ImportHistory(bundle); err != nil {
		return err
	}
	m.logger.Infof(providers.TypeApp, "Imported %d history entries", len(bundle.History))
	return nil
}

func (m *Maintenance) Reset() error {
	if err := m.store.ResetAll(); err != nil {
		return err
	}
	m.logger.Infof(providers.TypeApp, "All records reset")
	return nil
}
