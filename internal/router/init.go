package router

import (
	"github.com/Pratik980/GharNirman-sub000/internal/application"
	"github.com/Pratik980/GharNirman-sub000/internal/container"
	pginfra "github.com/Pratik980/GharNirman-sub000/internal/infrastructure/postgres"
	handlers "github.com/Pratik980/GharNirman-sub000/internal/interface/http"
	"github.com/Pratik980/GharNirman-sub000/internal/router/modules"
)

// InitModules builds the repository/service/handler graph from the
// container singletons and registers every feature module. Call once
// during startup, after the container is populated.
func InitModules(r *Registry) {
	pool := container.GetPGPool()
	logger := container.GetLogger()

	tenders := pginfra.NewTenderRepository(pool)
	bids := pginfra.NewBidRepository(pool)
	contractors := pginfra.NewContractorRepository(pool)
	notifications := pginfra.NewNotificationRepository(pool)
	users := pginfra.NewUserRepository(pool)

	dispatcher := application.NewDispatcher(
		notifications,
		contractors,
		users,
		container.GetPushRouter(),
		container.GetRabbitPub(),
		logger,
	)
	container.SetDispatcher(dispatcher)

	tenderSvc := application.NewTenderService(tenders, dispatcher, logger)
	bidSvc := application.NewBidService(bids, tenders, contractors, dispatcher, logger)
	verifySvc := application.NewVerificationService(contractors, dispatcher, logger)
	notifySvc := application.NewNotificationService(notifications, logger)

	r.Add(modules.NewTenderModule(handlers.NewTenderHandler(tenderSvc, logger)))
	r.Add(modules.NewBidModule(handlers.NewBidHandler(bidSvc, logger)))
	r.Add(modules.NewContractorModule(handlers.NewContractorHandler(verifySvc, logger)))
	r.Add(modules.NewNotificationModule(handlers.NewNotificationHandler(notifySvc, logger)))
	r.Add(modules.NewRealtimeModule(handlers.NewRealtimeHandler(container.GetPusher(), logger)))
}
