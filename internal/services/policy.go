package services

import (
	"context"

	"github.com/crisdbarco/DeclaraFacil/internal/models"
)

// Role is the capability a caller must hold for an operation
type Role string

const (
	// RoleAdmin marks operations reserved for attendants
	RoleAdmin Role = "admin"
	// RoleCitizen marks operations reserved for non-admin citizens
	RoleCitizen Role = "citizen"
)

// Authorize resolves the caller profile and checks it against the required
// role. Every exposed operation goes through this single check so the
// admin/citizen split cannot drift between endpoints.
func Authorize(ctx context.Context, users *UserService, callerCPF string, required Role) (*models.UserProfile, error) {
	profile, err := users.GetByCPF(ctx, callerCPF)
	if err != nil {
		return nil, err
	}

	switch required {
	case RoleAdmin:
		if !profile.IsAdmin {
			return nil, models.ErrPermissionDenied
		}
	case RoleCitizen:
		if profile.IsAdmin {
			return nil, models.ErrPermissionDenied
		}
	}

	return profile, nil
}
