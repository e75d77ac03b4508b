package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresSource reads collections from four PostgreSQL tables
type PostgresSource struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

// NewPostgresSource connects to PostgreSQL and configures the pool
func NewPostgresSource(dsn string, maxConn, maxIdleConn int) (*PostgresSource, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return NewPostgresSourceFromDB(db), nil
}

// NewPostgresSourceFromDB wraps an existing handle
func NewPostgresSourceFromDB(db *sqlx.DB) *PostgresSource {
	return &PostgresSource{db: db, dialect: goqu.Dialect("postgres")}
}

// Close closes the database connection
func (s *PostgresSource) Close() error {
	return s.db.Close()
}

// Name implements Source
func (s *PostgresSource) Name() string {
	return "postgres"
}

// Fetch implements Source. Every column is selected so the mapping can be
// checked against the table's real header.
func (s *PostgresSource) Fetch(ctx context.Context, table NamedTable) ([]Record, error) {
	query, args, err := s.dialect.From(goqu.T(table.Table)).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query for %s: %w", table.Table, err)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table.Table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table.Table, err)
	}
	if err := table.checkHeader(header); err != nil {
		return nil, err
	}

	var records []Record
	for rows.Next() {
		values := make(map[string]interface{}, len(header))
		if err := rows.MapScan(values); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table.Table, err)
		}

		row := make(map[string]string, len(values))
		for column, v := range values {
			row[column] = stringify(v)
		}
		records = append(records, project(table, row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table.Table, err)
	}
	return records, nil
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
