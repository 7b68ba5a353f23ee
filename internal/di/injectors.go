//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"qrkeep/internal"
	"qrkeep/internal/controllers"
	"qrkeep/internal/persistence"
	"qrkeep/internal/providers"
	"qrkeep/internal/render"
	"qrkeep/internal/services"
	"qrkeep/internal/structures"
)

var storeSet = wire.NewSet(
	providers.NewConfigProvider,
	provideLogger,
	persistence.NewZstdCompressor,
	persistence.NewKeyValueProvider,
	services.NewRecordStore,
	providers.NewMetricsProvider,
	persistence.NewScheduler,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		storeSet,
		providers.NewInstrumentedCacheProvider,
		render.NewQRRenderer,
		render.NewPDFExporter,
		render.NewQRDecoder,
		controllers.NewHistoryController,
		controllers.NewFavoritesController,
		controllers.NewSettingsController,
		controllers.NewQRController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}

func InitMaintenance(cfg *structures.CliFlags) (*internal.Maintenance, func(), error) {

	wire.Build(
		storeSet,
		internal.NewMaintenance,
	)

	return nil, nil, nil
}
