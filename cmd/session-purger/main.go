package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	cartspostgres "github.com/monochra/storefront/internal/domains/carts/adapters/persistence/postgres"
	cartsdomain "github.com/monochra/storefront/internal/domains/carts/domain"
	platformpostgres "github.com/monochra/storefront/internal/platform/postgres"
)

// Purges expired guest sessions and clears their carts. Run from cron.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}

	sessions := cartspostgres.NewSessionStore(db, sessionTTLFromEnv())
	carts := cartspostgres.NewRepository(db)

	keys, err := sessions.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	cleared := 0
	for _, key := range keys {
		if err := carts.Clear(ctx, cartsdomain.SessionOwner(key)); err != nil {
			logger.Warn("failed to clear cart for expired session", slog.String("sessionKey", key), slog.String("error", err.Error()))
			continue
		}
		cleared++
	}
	log.Printf("session purge completed: %d sessions expired, %d carts cleared", len(keys), cleared)
}

func sessionTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS"))
	if raw == "" {
		return cartspostgres.DefaultSessionTTL
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return cartspostgres.DefaultSessionTTL
	}
	return time.Duration(hours) * time.Hour
}
