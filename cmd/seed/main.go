package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		catalogPath   string
		adminEmail    string
		adminPassword string
		adminName     string
		printToken    bool
		tokenTTL      time.Duration
	)
	flag.StringVar(&catalogPath, "file", "seed/catalog.yaml", "Catalog YAML to load (empty to skip)")
	flag.StringVar(&adminEmail, "admin-email", "", "Create an admin user with this email")
	flag.StringVar(&adminPassword, "admin-password", "", "Password for the admin user")
	flag.StringVar(&adminName, "admin-name", "Store Admin", "Full name for the admin user")
	flag.BoolVar(&printToken, "token", false, "Print a bearer token for the admin user")
	flag.DurationVar(&tokenTTL, "token-ttl", 0, "Token lifetime (default: jwt.access_token_expiration)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := persistence.Open(context.Background(), &cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel("warn"), time.Second))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// PostgreSQL schemas come from cmd/migrate
	if cfg.Database.Driver == config.DriverSQLite {
		if err := persistence.AutoMigrate(db.Gorm); err != nil {
			log.Fatal("Failed to create schema", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if catalogPath != "" {
		f, err := os.Open(catalogPath)
		if err != nil {
			log.Fatal("Failed to open catalog file", zap.String("path", catalogPath), zap.Error(err))
		}
		parsed, err := parseCatalog(f)
		_ = f.Close()
		if err != nil {
			log.Fatal("Failed to parse catalog file", zap.String("path", catalogPath), zap.Error(err))
		}
		res, err := seedCatalog(ctx, parsed,
			persistence.NewGormCategoryRepository(db.Gorm),
			persistence.NewGormProductRepository(db.Gorm),
			log)
		if err != nil {
			log.Fatal("Catalog seed failed", zap.Error(err))
		}
		log.Info("Catalog seeded",
			zap.Int("categories", res.Categories),
			zap.Int("products", res.Products),
			zap.Int("skipped", res.Skipped),
		)
	}

	if adminEmail == "" {
		if printToken {
			log.Fatal("-token needs -admin-email")
		}
		return
	}

	admin, err := ensureAdmin(ctx, persistence.NewGormUserRepository(db.Gorm), adminName, adminEmail, adminPassword, log)
	if err != nil {
		log.Fatal("Failed to create admin user", zap.Error(err))
	}

	if printToken {
		jwtService := auth.NewJWTService(cfg.JWT)
		input := auth.GenerateTokenInput{UserID: admin.ID, Email: admin.Email, Role: string(admin.Role)}
		var token *auth.IssuedToken
		if tokenTTL > 0 {
			token, err = jwtService.GenerateAccessTokenWithTTL(input, tokenTTL)
		} else {
			token, err = jwtService.GenerateAccessToken(input)
		}
		if err != nil {
			log.Fatal("Failed to sign token", zap.Error(err))
		}
		log.Info("Token issued", zap.Time("expires_at", token.ExpiresAt))
		fmt.Println(token.AccessToken)
	}
}

// ensureAdmin returns the user for email, creating an admin when absent.
// An existing user is promoted to admin.
func ensureAdmin(
	ctx context.Context,
	users identity.UserRepository,
	name, email, password string,
	log *zap.Logger,
) (*identity.User, error) {
	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != identity.RoleAdmin {
			existing.Role = identity.RoleAdmin
			if err := users.Save(ctx, existing); err != nil {
				return nil, err
			}
			log.Info("Existing user promoted to admin", zap.String("email", existing.Email))
		}
		return existing, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	user, err := identity.NewUser(name, email, password, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := users.Save(ctx, user); err != nil {
		return nil, err
	}
	log.Info("Admin user created", zap.String("email", user.Email))
	return user, nil
}
