package dataset

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pivolan/go_utils"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ColumnInfo is one line of SHOW COLUMNS.
type ColumnInfo struct {
	Field string
	Type  string
}

// SQLSource reads a chart table from a MySQL-compatible server.
type SQLSource struct {
	DB    *gorm.DB
	Table string
	// Columns restricts the select list; empty means every column.
	Columns []string
}

// OpenDB connects with gorm's logger silenced.
func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return db, nil
}

func (s *SQLSource) columns(ctx context.Context) ([]string, error) {
	var info []ColumnInfo
	tx := s.DB.WithContext(ctx).Raw("SHOW COLUMNS FROM " + s.Table).Scan(&info)
	if tx.Error != nil {
		return nil, fmt.Errorf("describe %s: %w", s.Table, tx.Error)
	}
	available := make([]string, 0, len(info))
	for _, c := range info {
		available = append(available, c.Field)
	}
	if len(s.Columns) == 0 {
		return available, nil
	}
	for _, c := range s.Columns {
		if !go_utils.InArray(c, available) {
			return nil, fmt.Errorf("table %s has no column %q", s.Table, c)
		}
	}
	return s.Columns, nil
}

// Load selects the table and runs it through the same header and type
// handling as a CSV file.
func (s *SQLSource) Load(ctx context.Context) (*Table, error) {
	if !identifier.MatchString(s.Table) {
		return nil, fmt.Errorf("invalid table name %q", s.Table)
	}
	cols, err := s.columns(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		if !identifier.MatchString(c) {
			return nil, fmt.Errorf("invalid column name %q", c)
		}
	}

	var result []map[string]interface{}
	query := "SELECT " + strings.Join(cols, ", ") + " FROM " + s.Table
	tx := s.DB.WithContext(ctx).Raw(query).Scan(&result)
	if tx.Error != nil {
		return nil, fmt.Errorf("select %s: %w", s.Table, tx.Error)
	}
	if len(result) == 0 {
		return nil, ErrEmpty
	}
	return tableFromMaps(cols, result), nil
}

func tableFromMaps(cols []string, result []map[string]interface{}) *Table {
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = cleanHeaderName(c, i)
	}
	headers = ValidateHeaders(headers)

	body := make([][]string, 0, len(result))
	for _, m := range result {
		rec := make([]string, len(cols))
		for i, c := range cols {
			rec[i] = toText(m[c])
		}
		body = append(body, rec)
	}
	return buildTable(headers, body)
}

// toText renders a driver value the way it would appear in a CSV export.
func toText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format("2006-01-02 15:04:05")
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprintf("%v", v)
}
