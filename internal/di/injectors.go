//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"moneyprint/internal"
	"moneyprint/internal/bootstrap"
	"moneyprint/internal/controllers"
	"moneyprint/internal/jobs"
	"moneyprint/internal/jobs/interfaces"
	"moneyprint/internal/providers"
	"moneyprint/internal/publish"
	"moneyprint/internal/registry"
	"moneyprint/internal/services"
	"moneyprint/internal/storage"
	"moneyprint/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewFileStore,
		storage.NewZstdCompressor,
		storage.NewArchiver,
		registry.NewAccountRegistry,
		registry.NewProductRegistry,

		publish.NewPublisher,
		publish.NewTemplates,
		publish.NewFactory,
		services.NewPublishService,
		services.NewConsoleService,

		jobs.NewGronFactory,
		jobs.NewScheduler,
		wire.Bind(new(interfaces.SchedulerInterface), new(*jobs.Scheduler)),
		wire.Bind(new(jobs.Invoker), new(*services.PublishService)),
		wire.Bind(new(services.PublishServiceInterface), new(*services.PublishService)),
		wire.Bind(new(jobs.Snapshotter), new(*storage.Archiver)),

		bootstrap.NewAssets,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
