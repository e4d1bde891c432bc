// Command issue-token signs a bearer token for a user, for use against a
// server whose auth.jwt_secret is set.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/subosito/gotenv"

	"github.com/garyjia/shareit/internal/config"
	httpapi "github.com/garyjia/shareit/internal/interfaces/http"
)

func main() {
	var (
		configPath = flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
		userID     = flag.Int64("user", 0, "user the token speaks for")
		ttl        = flag.Duration("ttl", time.Hour, "token lifetime")
	)
	flag.Parse()

	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	token, err := issue(cfg, *userID, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func issue(cfg *config.Config, userID int64, ttl time.Duration) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("-user must be a positive user ID")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("-ttl must be positive")
	}
	if cfg.Auth.JWTSecret == "" {
		return "", fmt.Errorf("auth.jwt_secret is not set; the server reads identity from %s", cfg.Auth.UserHeader)
	}
	return httpapi.IssueToken(userID, cfg.Auth.JWTSecret, ttl)
}
