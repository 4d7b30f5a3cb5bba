// Package testutil provides testing utilities and helpers for the trust
// core: optional-backend setup with skip-if-absent semantics and fluent
// builders for domain objects.
package testutil

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/campushq/campus-trust/internal/migrate"
)

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
	Cleanup(func())
}

// requireBackends reports whether missing backends should fail instead of
// skip. CI sets TEST_REQUIRE_BACKENDS=1 so integration coverage cannot
// silently disappear.
func requireBackends() bool {
	return envBool("TEST_REQUIRE_BACKENDS")
}

func envBool(name string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	return v == "1" || v == "true" || v == "yes"
}

func getEnvOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// SetupTestRedis connects to the test Redis instance, flushing the selected
// database. The test is skipped when Redis is not reachable, unless
// TEST_REQUIRE_BACKENDS is set.
//
//nolint:ireturn // returning redis.UniversalClient matches the adapter constructors.
func SetupTestRedis(t TestingTB) redis.UniversalClient {
	t.Helper()

	addr := net.JoinHostPort(
		getEnvOrDefault("TEST_REDIS_HOST", "localhost"),
		getEnvOrDefault("TEST_REDIS_PORT", "6379"),
	)
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   15, // dedicated test database
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if requireBackends() {
			t.Fatal("Test Redis not available:", err)
		}
		t.Skip("Test Redis not available:", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatal("Failed to flush test Redis database:", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

// SetupTestArchiveDB connects to the test Postgres instance and applies the
// archive migrations. The test is skipped when Postgres is not reachable,
// unless TEST_REQUIRE_BACKENDS is set.
func SetupTestArchiveDB(t TestingTB) *pgxpool.Pool {
	t.Helper()

	hostPort := net.JoinHostPort(
		getEnvOrDefault("TEST_DB_HOST", "localhost"),
		getEnvOrDefault("TEST_DB_PORT", "5432"),
	)
	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		getEnvOrDefault("TEST_DB_USER", "campustrust"),
		getEnvOrDefault("TEST_DB_PASSWORD", "campustrust"),
		hostPort,
		getEnvOrDefault("TEST_DB_NAME", "campustrust"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err == nil {
		err = pool.Ping(ctx)
	}
	if err != nil {
		if requireBackends() {
			t.Fatal("Test database not available:", err)
		}
		t.Skip("Test database not available:", err)
	}

	if migErr := migrate.Run(ctx, pool); migErr != nil {
		t.Fatal("Failed to apply archive migrations:", migErr)
	}
	if _, execErr := pool.Exec(ctx, "DELETE FROM security_events"); execErr != nil {
		t.Fatal("Failed to clean up security_events:", execErr)
	}

	t.Cleanup(pool.Close)
	return pool
}
