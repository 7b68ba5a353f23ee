package internal

import (
	"net/http"
	"qrkeep/internal/controllers"
	"qrkeep/internal/providers"
)

func InitRoutes(
	historyController *controllers.HistoryController,
	favoritesController *controllers.FavoritesController,
	settingsController *controllers.SettingsController,
	qrController *controllers.QRController,
	metrics providers.MetricsProviderInterface,
) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()
	routers.Use(providers.MetricsMiddlewareFunc(metrics))

	routers.Get("/history", http.HandlerFunc(historyController.List))
	routers.Delete("/history/{index:[0-9]+}", http.HandlerFunc(historyController.Delete))
	routers.Delete("/history/id/{id}", http.HandlerFunc(historyController.DeleteByID))
	routers.Get("/history/export", http.HandlerFunc(historyController.Export))
	routers.Post("/history/import", http.HandlerFunc(historyController.Import))
	routers.Get("/export", http.HandlerFunc(historyController.ExportFull))
	routers.Post("/reset", http.HandlerFunc(historyController.Reset))

	routers.Get("/favorites", http.HandlerFunc(favoritesController.List))
	routers.Post("/favorites/toggle", http.HandlerFunc(favoritesController.Toggle))

	routers.Get("/settings", http.HandlerFunc(settingsController.Get))
	routers.Put("/settings", http.HandlerFunc(settingsController.Update))
	routers.Get("/stats", http.HandlerFunc(historyController.Stats))

	routers.Post("/generate", http.HandlerFunc(qrController.Generate))
	routers.Get("/qr.png", http.HandlerFunc(qrController.PNG))
	routers.Get("/qr.pdf", http.HandlerFunc(qrController.PDF))
	routers.Post("/scan", http.HandlerFunc(qrController.Scan))
	return routers
}
