package main

import (
	"context"
	"flag"
	"os"

	"go-inventory-tracker/internal/config"
	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/internal/service"
	"go-inventory-tracker/pkg/database"
	"go-inventory-tracker/pkg/jwt"
	"go-inventory-tracker/pkg/logger"

	"github.com/sirupsen/logrus"
)

// reset-password sets a user's password directly in the database.
//
//	go run ./cmd/reset-password -username admin -password 'N3w!secret'
func main() {
	username := flag.String("username", "", "user whose password is reset")
	password := flag.String("password", "", "new password")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	// 2. Setup Database
	db, err := database.Connect(database.Options{
		DSN:             cfg.Database.DSN(),
		MaxIdleConns:    1,
		MaxOpenConns:    1,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// 3. Update
	users := repository.NewGormStore(db).Repos().Users
	userService := service.NewUserService(users, jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry))
	if err := userService.ResetPassword(context.Background(), *username, *password); err != nil {
		log.WithError(err).WithField("username", *username).Fatal("Failed to reset password")
	}

	log.WithField("username", *username).Info("Password has been reset")
}
