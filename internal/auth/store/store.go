package store

import (
	"context"

	"gatepass/internal/auth/models"
)

// UserStore persists operator accounts.
type UserStore interface {
	Save(ctx context.Context, user models.User) error
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// SessionStore persists live sessions. Delete is the logout path; a session
// absent from the store is invalid no matter what its token says.
type SessionStore interface {
	Save(ctx context.Context, session models.Session) error
	FindByID(ctx context.Context, id string) (models.Session, error)
	Delete(ctx context.Context, id string) error
}
