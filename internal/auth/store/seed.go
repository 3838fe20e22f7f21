package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gatepass/internal/auth/models"
	"gatepass/pkg/platform/sentinel"
)

// Default operator accounts created at startup when absent. Passwords come
// from configuration; only their bcrypt hashes are stored.
var defaultUsers = []struct {
	username string
	role     models.Role
}{
	{"doufik@AdminEmail.com", models.RoleAdmin},
	{"services@AdminEmail.com", models.RoleService},
}

// EnsureDefaultUsers seeds the two operator accounts if they do not exist yet.
// Existing accounts are never touched, so password rotations survive restarts.
func EnsureDefaultUsers(ctx context.Context, users UserStore, adminPassword, servicePassword string) error {
	passwords := map[models.Role]string{
		models.RoleAdmin:   adminPassword,
		models.RoleService: servicePassword,
	}

	for _, def := range defaultUsers {
		_, err := users.FindByUsername(ctx, def.username)
		if err == nil {
			continue
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return fmt.Errorf("check default user %s: %w", def.username, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(passwords[def.role]), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash default password: %w", err)
		}
		if err := users.Save(ctx, models.User{
			Username:     def.username,
			PasswordHash: string(hash),
			Role:         def.role,
			CreatedAt:    time.Now(),
		}); err != nil {
			return fmt.Errorf("seed default user %s: %w", def.username, err)
		}
	}
	return nil
}
