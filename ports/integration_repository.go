package ports

import (
	"context"

	"clientportal/models"

	"github.com/google/uuid"
)

// IntegrationRepository defines the interface for sheet integration configs
type IntegrationRepository interface {
	// SaveIntegration creates or replaces the integration for an org
	SaveIntegration(ctx context.Context, integ *models.Integration) error

	// GetIntegrationForOrg retrieves an org's integration
	GetIntegrationForOrg(ctx context.Context, orgID uuid.UUID) (*models.Integration, error)

	// DeleteIntegrationForOrg removes an org's integration
	DeleteIntegrationForOrg(ctx context.Context, orgID uuid.UUID) error
}
