package cmd

import (
	"log/slog"

	"customs/internal/adapters/out/collaborators"
	"customs/internal/adapters/out/postgres"
	"customs/internal/adapters/out/postgres/statusrepo"
	"customs/internal/adapters/out/postgres/trackrepo"
	"customs/internal/adapters/out/postgres/transactionrepo"
	"customs/internal/adapters/out/soapclient"
	"customs/internal/core/application/usecases/commands"
	"customs/internal/core/application/usecases/queries"
	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/services"
	"customs/internal/core/ports"
	"customs/internal/jobs"
	"customs/internal/pkg/locks"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, services and use case handlers. Shared
// state (the in-flight lock table, the client registry with its breakers,
// the retry policy) lives here so every handler sees the same instances.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	registry   *soapclient.Registry
	inFlight   *locks.KeyedMutex
	policy     *services.RetryPolicy
	resolver   *services.DependencyResolver
	voyages    ports.VoyageProvider
	certs      ports.CertificateProvider
	logger     *slog.Logger
}

// NewCompositionRoot builds the shared object graph.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	registry := soapclient.NewRegistry()

	afip := soapclient.NewResilientClient(
		soapclient.NewAfipClient(map[kernel.Environment]string{
			kernel.EnvironmentTesting:    config.AfipEndpointTesting,
			kernel.EnvironmentProduction: config.AfipEndpointProduction,
		}, nil, logger),
		config.CallTimeout, logger,
	)
	gdsf := soapclient.NewResilientClient(
		soapclient.NewGdsfClient(map[kernel.Environment]string{
			kernel.EnvironmentTesting:    config.GdsfEndpointTesting,
			kernel.EnvironmentProduction: config.GdsfEndpointProduction,
		}, nil, logger),
		config.CallTimeout, logger,
	)
	// Registration over the closed type enums cannot fail.
	_ = registry.RegisterAll(kernel.CountryAR, afip)
	_ = registry.RegisterAll(kernel.CountryPY, gdsf)

	resolver, err := services.NewDependencyResolver(
		statusrepo.NewGormStatusRepository(gormDB),
		trackrepo.NewGormTrackRepository(gormDB),
	)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:   registry,
		inFlight:   locks.NewKeyedMutex(),
		policy:     services.NewRetryPolicy(),
		resolver:   resolver,
		voyages:    collaborators.NewHTTPVoyageProvider(config.VoyageServiceURL, nil),
		certs:      collaborators.NewFileCertificateProvider(config.CertificateDir),
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) commandsUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateSubmitCommandHandler() commands.SubmitCommandHandler {
	return commands.NewSubmitCommandHandler(
		c.commandsUoWFactory(), c.registry, c.resolver,
		c.voyages, c.certs, c.inFlight, c.config.CallTimeout,
	)
}

func (c *CompositionRoot) CreateSubmitMicDtaCommandHandler() commands.SubmitMicDtaCommandHandler {
	return commands.NewSubmitMicDtaCommandHandler(
		c.commandsUoWFactory(), c.registry,
		c.voyages, c.certs, c.inFlight, c.config.CallTimeout,
	)
}

func (c *CompositionRoot) CreateRetryCommandHandler() commands.RetryCommandHandler {
	return commands.NewRetryCommandHandler(
		c.commandsUoWFactory(), c.registry, c.resolver, c.policy,
		c.voyages, c.certs, c.inFlight, c.config.CallTimeout,
	)
}

func (c *CompositionRoot) CreateBatchSubmitCommandHandler() commands.BatchSubmitCommandHandler {
	return commands.NewBatchSubmitCommandHandler(
		c.CreateSubmitCommandHandler(), c.config.BatchConcurrency,
	)
}

func (c *CompositionRoot) CreateExpireStaleStatusesCommandHandler() commands.ExpireStaleStatusesCommandHandler {
	return commands.NewExpireStaleStatusesCommandHandler(c.commandsUoWFactory())
}

func (c *CompositionRoot) CreateGetVoyageStatusesQueryHandler() queries.GetVoyageStatusesQueryHandler {
	return queries.NewGetVoyageStatusesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTransactionQueryHandler() queries.GetTransactionQueryHandler {
	return queries.NewGetTransactionQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateAttachmentStore() ports.AttachmentStore {
	return collaborators.NewFileAttachmentStore(c.config.AttachmentDir)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRetryCommandHandler(),
		transactionrepo.NewGormTransactionRepository(c.gormDB),
		c.policy,
		c.CreateExpireStaleStatusesCommandHandler(),
		c.config.StalenessWindow,
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
