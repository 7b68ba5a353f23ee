package persistence

import (
	"github.com/roylee0704/gron"
	"qrkeep/internal/persistence/interfaces"
	"qrkeep/internal/providers"
	"qrkeep/internal/services"
	"qrkeep/internal/structures"
	"sort"
	"sync"
	"time"
)

// Scheduler restores the record store at startup and flushes it periodically.
// Mutations write through; the periodic flush rewrites the full state.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	store   services.RecordStoreInterface
	metrics providers.MetricsProviderInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Persistence.SaveInterval

	s.cron.AddFunc(gron.Every(interval), func() {
		if err := s.Persist(); err == nil {
			s.logger.Debugf(providers.TypeStore, "Flushed records to %s storage", s.config.Persistence.Driver)
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	report := s.store.Load()
	keys := make([]string, 0, len(report.Recovered))
	for key := range report.Recovered {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		s.logger.Warnf(providers.TypeStore, "Stored %q is unusable, using defaults: %s", key, report.Recovered[key])
	}
	s.logger.Infof(providers.TypeStore, "Restored %d history entries, %d favorites", s.store.HistoryLen(), len(s.store.Favorites()))
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.store.Persist()
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.metrics.IncPersistenceErrors()
		s.logger.Errorf(providers.TypeStore, "Error while persisting records: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store services.RecordStoreInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		store:   store,
		metrics: metrics,
	}
}
