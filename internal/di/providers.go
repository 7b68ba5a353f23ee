package di

import (
	"qrkeep/internal/providers"
	"qrkeep/internal/structures"
)

// provideLogger opens the log files and hands wire a cleanup that closes them.
func provideLogger(conf *structures.Config) (providers.Logger, func(), error) {
	logger, err := providers.NewLogProvider(conf)
	if err != nil {
		return nil, nil, err
	}
	return logger, logger.Close, nil
}
