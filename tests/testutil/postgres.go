// Package testutil provides shared helpers for the PropDesk test suites.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/propdesk/backend/internal/infrastructure/migration"
	"github.com/propdesk/backend/migrations"
)

var (
	sharedOnce sync.Once
	sharedDSN  string
	sharedErr  error
	sharedCtr  testcontainers.Container
)

// PostgresDB is a migrated PostgreSQL database in a container
type PostgresDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	DSN   string
}

// NewPostgres returns a connection to a container shared by the test binary.
// The schema is migrated once with the embedded migrations. Tests isolate
// themselves by office id rather than by truncating.
func NewPostgres(t *testing.T) *PostgresDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL test in short mode")
	}

	sharedOnce.Do(func() {
		sharedDSN, sharedErr = startPostgres(context.Background())
	})
	require.NoError(t, sharedErr, "Failed to start PostgreSQL container")

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(sharedDSN), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &PostgresDB{DB: db, SqlDB: sqlDB, DSN: sharedDSN}
}

func startPostgres(ctx context.Context) (string, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("propdesk_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return "", err
	}
	sharedCtr = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", err
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return "", err
	}
	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	if err != nil {
		_ = sqlDB.Close()
		return "", err
	}
	defer func() { _ = m.Close() }()
	if err := m.Up(); err != nil {
		return "", err
	}
	return dsn, nil
}

// TerminatePostgres stops the shared container. Call it from TestMain.
func TerminatePostgres() {
	if sharedCtr == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedCtr.Terminate(ctx)
	sharedCtr = nil
}
