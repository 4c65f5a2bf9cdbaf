package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/config"
	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/domain/repository"
	pginfra "github.com/oksasatya/portofolio/internal/infrastructure/postgres"
	"github.com/oksasatya/portofolio/pkg/helpers"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// seed creates the site owner: one user with an admin profile. Run it after
// the server has applied migrations. An existing user keeps its password.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)

	email := getenv("SEED_ADMIN_EMAIL", "admin@example.com")
	password := getenv("SEED_ADMIN_PASSWORD", "password123")
	name := getenv("SEED_ADMIN_NAME", "Site Owner")

	u, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		hash, herr := helpers.HashPassword(password)
		if herr != nil {
			log.Fatalf("failed to hash password: %v", herr)
		}
		u = &entity.User{Email: email, Password: hash, Name: name}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("failed to seed user: %v", err)
		}
		if os.Getenv("SEED_ADMIN_PASSWORD") == "" {
			logger.Warnf("default password %q in use; set SEED_ADMIN_PASSWORD", password)
		}
	case err != nil:
		log.Fatalf("failed to look up user: %v", err)
	default:
		logger.WithField("email", email).Info("user exists, password left unchanged")
	}

	if _, err := profiles.Get(ctx, u.ID); errors.Is(err, repository.ErrNotFound) {
		if err := profiles.Upsert(ctx, &entity.Profile{UserID: u.ID, FullName: name, Email: email}); err != nil {
			log.Fatalf("failed to seed profile: %v", err)
		}
	} else if err != nil {
		log.Fatalf("failed to load profile: %v", err)
	}

	if err := profiles.AssignRole(ctx, u.ID, entity.RoleAdmin); err != nil {
		log.Fatalf("failed to assign admin role: %v", err)
	}
	helpers.LogInfo(logger, "seeded site owner", logrus.Fields{"user_id": u.ID, "email": email, "role": entity.RoleAdmin})
}
