package bootstrap

import (
	"database/sql"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/belimuno/workhub/config"
	redisadapter "github.com/belimuno/workhub/internal/adapters/redis"
	"github.com/belimuno/workhub/internal/core"
	"github.com/belimuno/workhub/internal/data"
	"github.com/belimuno/workhub/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Jobs         *service.JobService
	Applications *service.ApplicationService
	Payments     *service.PaymentService
	Sessions     core.SessionStore
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient goredis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	JobRepo         *data.JobRepo
	ApplicationRepo *data.ApplicationRepo
	PaymentRepo     *data.PaymentRepo
}

func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		JobRepo:         data.NewJobRepo(db),
		ApplicationRepo: data.NewApplicationRepo(db),
		PaymentRepo:     data.NewPaymentRepo(db),
	}
}

// NewServices wires repositories and adapters into the service container.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repos := buildRepositories(deps.DB)

	var notifier core.Notifier
	if deps.Config.Notifications.Enabled {
		notifier = redisadapter.NewNotifier(redisadapter.NotifierOptions{
			Client:  deps.RedisClient,
			Channel: deps.Config.Notifications.Channel,
			BaseURL: deps.Config.HTTP.BaseURL,
			Logger:  logger,
		})
	}

	return ServiceContainer{
		Jobs: service.NewJobService(service.JobServiceOptions{
			Repo:     repos.JobRepo,
			Notifier: notifier,
			Logger:   logger,
		}),
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{
			Repos:    service.ApplicationRepos{Applications: repos.ApplicationRepo, Jobs: repos.JobRepo},
			Notifier: notifier,
			Logger:   logger,
		}),
		Payments: service.NewPaymentService(service.PaymentServiceOptions{
			Repos:    service.PaymentRepos{Payments: repos.PaymentRepo, Jobs: repos.JobRepo},
			Notifier: notifier,
			Logger:   logger,
		}),
		Sessions: redisadapter.NewSessionStore(deps.RedisClient),
	}
}
