// Command useradd provisions an account that quotes can be stamped with.
// The API itself never creates users; accounts are managed by operators.
package main

import (
	"context"
	"flag"
	"strings"

	"procurement_backend/platform/config"
	"procurement_backend/platform/db"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "", "account email address")
	password := flag.String("password", "", "initial password")
	fullName := flag.String("name", "", "display name")
	role := flag.String("role", "buyer", "account role")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	if strings.TrimSpace(*email) == "" || *password == "" {
		log.Error("email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	var id uuid.UUID
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		strings.ToLower(strings.TrimSpace(*email)), string(hash), *fullName, *role,
	).Scan(&id)
	if err != nil {
		log.Error("failed to create user", "error", err)
		return
	}

	log.Info("user created", "id", id, "email", *email, "role", *role)
}
