package services

import (
	portsrepo "github.com/mustafajawed/Budget-Manager/internal/core/ports/repositories"
	portssvc "github.com/mustafajawed/Budget-Manager/internal/core/ports/services"
	"github.com/mustafajawed/Budget-Manager/internal/events"
	"github.com/mustafajawed/Budget-Manager/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	identity portssvc.IdentityProviderSvcFacade,
	publisher events.Publisher,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ledger = NewLedgerService(repos.BudgetRepo, WithEventPublisher(publisher))
	container.Session = NewSessionService(cfg, identity, container.Ledger)

	return container
}
