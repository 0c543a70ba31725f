package database

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/irfndi/indexcast/internal/dataset"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// DatabasePool is the query surface shared by pgxpool.Pool, TracedPool and pgxmock.
type DatabasePool interface {
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PostgresSource reads the index history table as a dataset.Table.
type PostgresSource struct {
	pool  DatabasePool
	table string
}

// NewPostgresSource creates a source over table, which may be schema qualified.
func NewPostgresSource(pool DatabasePool, table string) *PostgresSource {
	return &PostgresSource{
		pool:  pool,
		table: table,
	}
}

// Name identifies the source in load statistics.
func (s *PostgresSource) Name() string {
	return "postgres:" + s.table
}

// ReadTable selects every row of the table and renders values as text, so
// the loader parses them the same way as CSV cells.
func (s *PostgresSource) ReadTable(ctx context.Context) (*dataset.Table, error) {
	query := "SELECT * FROM " + pgx.Identifier(strings.Split(s.table, ".")).Sanitize()

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}

	table := &dataset.Table{Header: header}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+1, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = textValue(v)
		}
		table.Rows = append(table.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", s.table, err)
	}

	logrus.WithFields(logrus.Fields{
		"table":   s.table,
		"columns": len(header),
		"rows":    len(table.Rows),
	}).Info("Read index history from PostgreSQL")

	return table, nil
}

func textValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format("2006-01-02T15:04:05")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case driver.Valuer:
		inner, err := val.Value()
		if err != nil {
			return ""
		}
		return textValue(inner)
	default:
		return fmt.Sprint(val)
	}
}
