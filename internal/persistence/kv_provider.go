package persistence

import (
	"fmt"
	"qrkeep/internal/persistence/interfaces"
	"qrkeep/internal/providers"
	"qrkeep/internal/structures"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// NewKeyValueProvider opens the configured storage driver. The cleanup func closes it.
func NewKeyValueProvider(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (interfaces.KeyValueInterface, func(), error) {
	var (
		kv  interfaces.KeyValueInterface
		err error
	)
	p := conf.Persistence
	switch p.Driver {
	case DriverFile, "":
		kv, err = NewFileKV(p.FilePath, p.MaxBytes, compressor, logger)
	case DriverSQLite:
		kv, err = NewSQLiteKV(p.FilePath, p.MaxBytes)
	case DriverMemory:
		kv = NewMemoryKV(p.MaxBytes)
	default:
		err = fmt.Errorf("unknown storage driver %q", p.Driver)
	}
	if err != nil {
		compressor.Close()
		return nil, nil, err
	}

	logger.Infof(providers.TypeStore, "Storage driver %q opened at %s", p.Driver, p.FilePath)
	cleanup := func() {
		if err := kv.Close(); err != nil {
			logger.Errorf(providers.TypeStore, "Close storage: %s", err)
		}
		// FileKV closes the compressor it was given
		if _, ok := kv.(*FileKV); !ok {
			compressor.Close()
		}
	}
	return kv, cleanup, nil
}
