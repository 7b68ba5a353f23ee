package providers

import (
	"fmt"
	"path/filepath"
	"qrkeep/internal/structures"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	AppName    = "QRKeep"
	AppVersion = "1.0.0"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("persistence.driver", "file")
	v.SetDefault("persistence.saveInterval", 30*time.Second)
	v.SetDefault("render.errorCorrection", "high")
	v.SetDefault("render.maxUploadMB", 10)
	v.SetDefault("cache.ttl", 10*time.Minute)

	_ = v.BindEnv("logger.level", "QRKEEP_LOG_LEVEL")
	_ = v.BindEnv("persistence.saveInterval", "QRKEEP_SAVE_INTERVAL")
	_ = v.BindEnv("persistence.driver", "QRKEEP_STORAGE_DRIVER")
	_ = v.BindEnv("cache.enabled", "QRKEEP_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "QRKEEP_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Version = AppVersion
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
