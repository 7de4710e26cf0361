package mapping

import (
	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	"github.com/mustafajawed/Budget-Manager/internal/models"
)

// ToDomainUser converts a stored local-identity user to the domain
// identity shape the rest of the application sees.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:      m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
	}
}
