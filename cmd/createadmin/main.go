package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"os"

	"kamgar-sahayak/backend/internal/models"
	"kamgar-sahayak/backend/internal/store"
	"kamgar-sahayak/backend/pkg/config"
	"kamgar-sahayak/backend/pkg/jwt"
	"kamgar-sahayak/backend/pkg/logger"

	"github.com/joho/godotenv"
)

// createadmin bootstraps the first reviewer account so the review queue is
// reachable before any admin exists. Safe to re-run: an existing username is
// reported, not overwritten.
func main() {
	usernamePtr := flag.String("username", "", "Admin username (falls back to INITIAL_ADMIN_USERNAME)")
	passwordPtr := flag.String("password", "", "Admin password (falls back to INITIAL_ADMIN_PASSWORD)")
	rolePtr := flag.String("role", string(jwt.RoleAdmin), "Account role: admin or viewer")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	username := *usernamePtr
	if username == "" {
		username = os.Getenv("INITIAL_ADMIN_USERNAME")
	}
	password := *passwordPtr
	if password == "" {
		password = os.Getenv("INITIAL_ADMIN_PASSWORD")
	}

	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "username and password are required (flags or INITIAL_ADMIN_USERNAME / INITIAL_ADMIN_PASSWORD)")
		os.Exit(1)
	}
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "password must be at least 8 characters")
		os.Exit(1)
	}

	role := jwt.Role(*rolePtr)
	if !role.Valid() {
		fmt.Fprintln(os.Stderr, "role must be admin or viewer")
		os.Exit(1)
	}

	log := logger.New(logger.DefaultConfig())

	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to connect to database")
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.AdminUser{}); err != nil {
		log.LogError(err, "Failed to migrate admin table")
		os.Exit(1)
	}

	adminStore := store.NewGormAdminStore(db)
	admin := &models.AdminUser{
		Username: username,
		Password: password,
		Role:     string(role),
	}

	if err := adminStore.Create(context.Background(), admin); err != nil {
		if errors.Is(err, store.ErrAdminExists) {
			fmt.Printf("Account %q already exists, nothing to do\n", username)
			os.Exit(0)
		}
		log.LogError(err, "Failed to create admin account")
		os.Exit(1)
	}

	fmt.Printf("Created %s account %q (id %d)\n", admin.Role, admin.Username, admin.ID)
}
