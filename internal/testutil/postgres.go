package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
)

const (
	dbUser     = "storefront_user"
	dbPassword = "storefront_pass"
	dbName     = "storefront"
)

// StartPostgres launches a temporary Postgres container, applies the
// migrations and returns the DSN plus a connected pool. Both are released
// through t.Cleanup.
func StartPostgres(t *testing.T) (string, *pgxpool.Pool) {
	t.Helper()

	_, addr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     dbUser,
			"POSTGRES_PASSWORD": dbPassword,
			"POSTGRES_DB":       dbName,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}, "5432")

	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", dbUser, dbPassword, addr, dbName)
	require.NoError(t, db.RunMigrations(dsn, logging.Discard()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return dsn, pool
}
