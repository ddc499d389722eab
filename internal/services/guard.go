package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
	"gorm.io/gorm"
)

// Caller is the authenticated identity an operation runs on behalf of.
type Caller struct {
	ID    uint64
	Role  models.Role
	Email string
}

// CallerFor builds a Caller from a stored person.
func CallerFor(person *models.Person) Caller {
	return Caller{ID: person.ID, Role: person.Role, Email: person.Email}
}

// Is reports whether the caller holds one of the roles.
func (c Caller) Is(roles ...models.Role) bool {
	return slices.Contains(roles, c.Role)
}

// Guard checks role requirements and re-validates claimed identities.
type Guard struct {
	personRepo repository.PersonRepository
}

// NewGuard creates a new Guard
func NewGuard(personRepo repository.PersonRepository) *Guard {
	return &Guard{personRepo: personRepo}
}

// Allow returns ErrRoleNotAllowed unless the caller holds one of the roles.
func (g *Guard) Allow(caller Caller, roles ...models.Role) error {
	if !caller.Is(roles...) {
		return ErrRoleNotAllowed
	}
	return nil
}

// Resolve fetches the person behind a claimed identity. A claim whose
// person is gone, or whose role or email no longer match, is an invalid user.
func (g *Guard) Resolve(ctx context.Context, claimed Caller) (*models.Person, error) {
	person, err := g.personRepo.FindByID(ctx, claimed.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityMismatch
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if claimed.Role != "" && claimed.Role != person.Role {
		return nil, ErrIdentityMismatch
	}
	if claimed.Email != "" && repository.NormalizeEmail(claimed.Email) != person.Email {
		return nil, ErrIdentityMismatch
	}
	if !person.IsActive() {
		return nil, ErrAccountInactive
	}

	return person, nil
}
