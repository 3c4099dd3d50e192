package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/angelmondragon/olist-dashboard/pkg/db"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// TableNames holds the SQL table backing each raw source.
type TableNames struct {
	Orders    string
	Items     string
	Products  string
	Customers string
}

// DBSource reads the raw datasets from SQL tables. The four tables are read
// inside one transaction so they come from the same snapshot.
type DBSource struct {
	client *db.Client
	tables TableNames
}

func NewDBSource(client *db.Client, tables TableNames) *DBSource {
	return &DBSource{client: client, tables: tables}
}

func (s *DBSource) Name() string {
	return "db:" + s.client.DB().Dialector.Name()
}

func (s *DBSource) Load(ctx context.Context) (Tables, error) {
	specs := []struct {
		source string
		table  string
	}{
		{SourceOrders, s.tables.Orders},
		{SourceItems, s.tables.Items},
		{SourceProducts, s.tables.Products},
		{SourceCustomers, s.tables.Customers},
	}

	var schemaErr error
	for _, spec := range specs {
		schemaErr = multierr.Append(schemaErr, s.checkColumns(spec.source, spec.table))
	}
	if schemaErr != nil {
		return Tables{}, schemaErr
	}

	var tables Tables
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		raw := make([]*rawTable, len(specs))
		for i, spec := range specs {
			t, err := selectTable(tx, spec.source, spec.table)
			if err != nil {
				return err
			}
			raw[i] = t
		}
		var err error
		if tables.Orders, err = decodeOrders(raw[0]); err != nil {
			return err
		}
		if tables.Items, err = decodeItems(raw[1]); err != nil {
			return err
		}
		if tables.Products, err = decodeProducts(raw[2]); err != nil {
			return err
		}
		tables.Customers, err = decodeCustomers(raw[3])
		return err
	})
	if err != nil {
		return Tables{}, err
	}
	return tables, nil
}

func (s *DBSource) checkColumns(source, table string) error {
	if table == "" {
		return configError(source, "no table configured", nil)
	}
	migrator := s.client.DB().Migrator()
	if !migrator.HasTable(table) {
		return configError(source, fmt.Sprintf("table %s not found", table), map[string]any{"table": table})
	}
	var missing []string
	for _, column := range RequiredColumns[source] {
		if !migrator.HasColumn(table, column) {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return configError(source, "missing required columns", map[string]any{"table": table, "missing": missing})
	}
	return nil
}

// selectTable reads the required columns as text so decoding follows the same
// rules as delimited files.
func selectTable(tx *gorm.DB, source, table string) (*rawTable, error) {
	columns := RequiredColumns[source]
	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = tx.Statement.Quote(column)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), tx.Statement.Quote(table))

	rows, err := tx.Raw(query).Rows()
	if err != nil {
		return nil, configError(source, fmt.Sprintf("selecting from %s: %v", table, err), map[string]any{"table": table})
	}
	defer rows.Close()

	records := [][]string{columns}
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, configError(source, fmt.Sprintf("scanning %s: %v", table, err), map[string]any{"table": table})
		}
		record := make([]string, len(columns))
		for i, cell := range cells {
			if cell.Valid {
				record[i] = cell.String
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, configError(source, fmt.Sprintf("iterating %s: %v", table, err), map[string]any{"table": table})
	}
	return newRawTable(source, records), nil
}
