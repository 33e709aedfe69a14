package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"rentchat/internal/model"
)

// PostgresStore serves catalog queries from a PostgreSQL table. It applies
// the same filtering and ranking contract as MemoryStore, with the work
// pushed into SQL.
type PostgresStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresStore connects to the database and verifies the connection.
func NewPostgresStore(dsn string, maxConn, maxIdleConn int, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger}, nil
}

// NewPostgresStoreWithDB wraps an existing connection; used by tests.
func NewPostgresStoreWithDB(db *sqlx.DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger}
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// QueryHouses filters houses by area and budget ceiling, ascending by price
// with insertion order breaking ties, capped at MaxResults. Rows with a NULL
// price are excluded unconditionally.
func (s *PostgresStore) QueryHouses(ctx context.Context, q model.HouseSearchQuery, opts ...QueryOption) ([]model.House, error) {
	params := resolveParams(q, opts)

	whereClauses := []string{"price IS NOT NULL"}
	args := []interface{}{}
	argIndex := 1

	if params.area != nil && strings.TrimSpace(*params.area) != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(btrim(area) LIKE '%%' || $%d || '%%' OR btrim(location) LIKE '%%' || $%d || '%%')",
			argIndex, argIndex,
		))
		args = append(args, strings.TrimSpace(*params.area))
		argIndex++
	}
	if params.maxPrice != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *params.maxPrice)
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT id, area, location, type, price, description
		FROM houses
		WHERE %s
		ORDER BY price ASC, id ASC
		LIMIT $%d
	`, strings.Join(whereClauses, " AND "), argIndex)
	args = append(args, MaxResults)

	var houses []model.House
	if err := s.db.SelectContext(ctx, &houses, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query houses: %w", err)
	}

	s.logger.Info("catalog query",
		zap.Stringp("area", params.area),
		zap.Intp("max_price", params.maxPrice),
		zap.Int("returned", len(houses)),
	)
	return houses, nil
}
