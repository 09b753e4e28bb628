package internal

import (
	"moneyprint/internal/controllers"
	"moneyprint/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/accounts", http.HandlerFunc(apiController.ListAccounts))
	routers.Post("/accounts", http.HandlerFunc(apiController.CreateAccount))
	routers.Post("/accounts/remove", http.HandlerFunc(apiController.RemoveAccount))
	routers.Post("/publish", http.HandlerFunc(apiController.PublishNow))
	routers.Get("/history", http.HandlerFunc(apiController.History))
	routers.Get("/products", http.HandlerFunc(apiController.ListProducts))
	routers.Post("/products", http.HandlerFunc(apiController.AddProduct))
	routers.Post("/products/remove", http.HandlerFunc(apiController.RemoveProduct))
	routers.Post("/products/pitch", http.HandlerFunc(apiController.PitchProduct))
	routers.Get("/schedules", http.HandlerFunc(apiController.ListSchedules))
	routers.Post("/schedules", http.HandlerFunc(apiController.CreateSchedule))
	routers.Post("/schedules/cancel", http.HandlerFunc(apiController.CancelSchedule))
	return routers
}
