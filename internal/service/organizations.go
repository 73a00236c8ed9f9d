package service

import (
	"context"
	"fmt"

	"github.com/Delandiluca/finly/internal/models"
	"github.com/Delandiluca/finly/internal/repository"
)

// CreateOrganization creates a new tenant with the caller as owner
func (s *DefaultService) CreateOrganization(ctx context.Context, userID string, req models.CreateOrganizationRequest) (*models.Organization, error) {
	org := &models.Organization{
		Name:      req.Name,
		CreatedBy: userID,
	}

	if err := s.store.Organizations.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("error creating organization: %w", err)
	}

	return org, nil
}

// ListOrganizations returns the caller's organizations
func (s *DefaultService) ListOrganizations(ctx context.Context, userID string) ([]models.Organization, error) {
	orgs, err := s.store.Organizations.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing organizations: %w", err)
	}

	return orgs, nil
}

// SelectOrganization verifies membership and issues a token carrying the
// organization claim. A non-member gets the same not-found outcome as a
// nonexistent organization.
func (s *DefaultService) SelectOrganization(ctx context.Context, userID, orgID string) (*models.SelectOrganizationResponse, error) {
	isMember, err := s.store.Organizations.IsMember(ctx, orgID, userID)
	if err != nil {
		return nil, fmt.Errorf("error checking membership: %w", err)
	}

	if !isMember {
		return nil, repository.ErrNotFound
	}

	token, err := s.generateJWT(userID, orgID)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.SelectOrganizationResponse{
		Status:         "success",
		OrganizationID: orgID,
		Token:          token,
		ExpiresIn:      int(s.tokenDuration.Seconds()),
	}, nil
}
