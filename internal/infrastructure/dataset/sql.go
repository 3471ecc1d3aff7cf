package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/marketmind/backend/internal/domain"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLSource reads historical products from a relational database
type SQLSource struct {
	conn    ConnDescriptor
	table   string
	timeout time.Duration
}

// NewSQLSource creates a database-backed data source. table must be a plain
// SQL identifier; timeout bounds connect and query time (0 means none).
func NewSQLSource(conn ConnDescriptor, table string, timeout time.Duration) (*SQLSource, error) {
	if table == "" {
		table = "products"
	}
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SQLSource{conn: conn, table: table, timeout: timeout}, nil
}

// Name identifies the source in provenance
func (s *SQLSource) Name() string {
	return domain.SourceDatabase
}

// Query returns the statement used to read training rows
func (s *SQLSource) Query() string {
	return fmt.Sprintf(
		"SELECT name, category, price, rating, rating_count FROM %s WHERE rating IS NOT NULL AND rating_count IS NOT NULL",
		s.table,
	)
}

// Load opens a connection, reads every row and closes the connection again.
// Result columns go through the same header mapping and cleaning as files.
func (s *SQLSource) Load(ctx context.Context) ([]domain.ProductRecord, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	db, err := sql.Open(s.conn.Driver, s.conn.DSN())
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", domain.ErrSourceUnavailable, s.conn, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: connecting to %s: %v", domain.ErrSourceUnavailable, s.conn, err)
	}

	rows, err := db.QueryContext(ctx, s.Query())
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %v", domain.ErrSourceUnavailable, s.table, err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: reading columns: %v", domain.ErrSourceUnavailable, err)
	}

	var data [][]string
	for rows.Next() {
		values := make([]any, len(headers))
		ptrs := make([]any, len(headers))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", domain.ErrSourceUnavailable, err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = stringifyValue(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating rows: %v", domain.ErrSourceUnavailable, err)
	}

	return BuildRecords(headers, data)
}

// stringifyValue renders a driver value without exponent notation, so
// large prices survive CleanPrice.
func stringifyValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
