// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/partnerdesk/agreements-api/internal/core"
	"github.com/partnerdesk/agreements-api/internal/identity"
	"github.com/partnerdesk/agreements-api/internal/middleware"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// SyncFromClaims provisions or refreshes the local account from verified
// token claims. Identity comes from the claims alone; extras may only
// override the display name and picture.
func (s *Service) SyncFromClaims(
	ctx context.Context,
	claims *identity.Claims,
	extras *ProfileExtras,
) (*User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, core.UnauthorizedError("missing token subject")
	}

	// An empty email would collide on the unique constraint for every
	// second such account; surface it as the caller's problem instead.
	if claims.Email == "" {
		return nil, core.InvalidInputError(
			"token claims carry no email; request the email scope",
			"email",
		)
	}

	name := claims.Name
	if name == "" {
		name = claims.Email
	}

	var picture *string
	if claims.Picture != "" {
		picture = &claims.Picture
	}

	if extras != nil {
		if extras.Name != nil {
			name = *extras.Name
		}
		if extras.Picture != nil {
			picture = extras.Picture
		}
	}

	u := &User{
		Auth0ID: claims.Subject,
		Email:   strings.ToLower(claims.Email),
		Name:    name,
		Picture: picture,
		Role:    RolePartnerUser,
	}

	if err := s.repo.Upsert(ctx, u); err != nil {
		return nil, fmt.Errorf("sync user: %w", err)
	}

	s.logger.Info("user login",
		"user_id", u.ID,
		"role", u.Role,
	)

	return u, nil
}

// ResolvePrincipal implements the authentication middleware's lookup from
// a verified provider subject to the local account.
func (s *Service) ResolvePrincipal(
	ctx context.Context,
	subject string,
) (*middleware.Principal, error) {
	u, err := s.repo.GetByAuth0ID(ctx, subject)
	if err != nil {
		return nil, err
	}

	return &middleware.Principal{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
	}, nil
}

func (s *Service) GetMe(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id int64,
	role string,
) (*User, error) {
	if !ValidRole(role) {
		return nil, core.InvalidInputError("invalid role", "role")
	}

	u, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user role changed",
		"user_id", u.ID,
		"role", u.Role,
	)

	return u, nil
}

// DeleteUser removes an account. Self-deletion by the acting admin is
// rejected so a tenant cannot lock itself out of administration.
func (s *Service) DeleteUser(
	ctx context.Context,
	requesterID, targetID int64,
) error {
	if requesterID == targetID {
		return core.ForbiddenError("cannot delete your own account")
	}

	return s.repo.Delete(ctx, targetID)
}

func (s *Service) DeleteAllUsers(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Warn("all users deleted", "count", deleted)
	return deleted, nil
}
