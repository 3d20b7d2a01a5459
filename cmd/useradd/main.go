// Command useradd provisions a login for the image filter gateway.
//
//	MONGO_URI=mongodb://localhost:27017 useradd -email a@example.com -password s3cret
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"

	"github.com/udagram/image-filter/internal/core/domain"
	"github.com/udagram/image-filter/internal/core/service"
	"github.com/udagram/image-filter/internal/infrastructure/config"
	mongodb "github.com/udagram/image-filter/internal/infrastructure/db/mongo"
	"github.com/udagram/image-filter/pkg/logger"
)

func main() {
	email := flag.String("email", "", "user email")
	password := flag.String("password", os.Getenv("USER_PASSWORD"), "plaintext password (or USER_PASSWORD)")
	cost := flag.Int("cost", 0, "bcrypt cost, 0 for default")
	flag.Parse()

	log := logger.Init(logger.Options{Pretty: true, Service: "useradd"})
	ctx := context.Background()

	if err := validator.New().Var(*email, "required,email"); err != nil {
		log.Fatal().Msg(domain.ErrInvalidEmailFormat.Error())
	}
	if *password == "" {
		log.Fatal().Msg(domain.ErrMissingPassword.Error())
	}

	var cfg config.MongoConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load mongo configuration")
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := mongodb.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	hash, err := service.HashPassword(*password, *cost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	now := time.Now().UTC()
	if err := repo.Create(ctx, &domain.User{
		Email:        *email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to create user")
	}

	log.Info().Str("email", *email).Msg("user created")
}
