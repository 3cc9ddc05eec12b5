package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

// defaultBatchSize bounds the rows per INSERT when the config leaves the
// batch size unset.
const defaultBatchSize = 500

// Loader streams a feature table into one warehouse table: a CREATE TABLE
// IF NOT EXISTS derived from the table schema, then batched multi-row
// INSERTs.
type Loader struct {
	exec  QueryExecutor
	table string
	batch int
	log   *slog.Logger
}

// NewLoader returns a Loader writing to table through exec.
func NewLoader(exec QueryExecutor, table string, batchSize int, log *slog.Logger) *Loader {
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	return &Loader{exec: exec, table: table, batch: batchSize, log: log}
}

// Load creates the target table when absent and inserts every row.
func (l *Loader) Load(ctx context.Context, table *domain.FeatureTable) error {
	if table.Rows() == 0 {
		return apperrors.NewStorageError("feature table has no rows to load", nil)
	}

	if err := l.exec.Exec(ctx, l.createTableSQL(table)); err != nil {
		return err
	}

	l.log.InfoContext(ctx, "loading feature table into warehouse",
		slog.String("table", l.table),
		slog.Int("rows", table.Rows()),
		slog.Int("batch_size", l.batch))

	for lo := 0; lo < table.Rows(); lo += l.batch {
		hi := lo + l.batch
		if hi > table.Rows() {
			hi = table.Rows()
		}
		query, args := l.insertSQL(table, lo, hi)
		if err := l.exec.Exec(ctx, query, args...); err != nil {
			return apperrors.Wrapf(err, "insert batch starting at row %d", lo)
		}
	}

	l.log.InfoContext(ctx, "warehouse load complete",
		slog.String("table", l.table),
		slog.Int("rows", table.Rows()))
	return nil
}

// createTableSQL derives the DDL from the table schema: the timestamp
// column, the string identifiers, and a double-precision column per
// feature.
func (l *Loader) createTableSQL(table *domain.FeatureTable) string {
	defs := make([]string, 0, len(table.ColumnOrder))
	for _, name := range table.ColumnOrder {
		switch name {
		case domain.ColTimestamp:
			defs = append(defs, name+" TIMESTAMP NOT NULL")
		case domain.ColEntity, domain.ColFamily:
			defs = append(defs, name+" VARCHAR(255) NOT NULL")
		default:
			defs = append(defs, name+" DOUBLE PRECISION")
		}
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", l.table, strings.Join(defs, ", "))
}

// insertSQL builds one multi-row INSERT for rows [lo, hi).
func (l *Loader) insertSQL(table *domain.FeatureTable, lo, hi int) (string, []interface{}) {
	cols := table.ColumnOrder
	rows := hi - lo
	args := make([]interface{}, 0, rows*len(cols))

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", l.table, strings.Join(cols, ", "))
	n := 0
	for r := lo; r < hi; r++ {
		if r > lo {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c, name := range cols {
			if c > 0 {
				sb.WriteString(", ")
			}
			n++
			sb.WriteString(l.exec.Placeholder(n))
			args = append(args, cellValue(table, name, r))
		}
		sb.WriteString(")")
	}
	return sb.String(), args
}

func cellValue(table *domain.FeatureTable, name string, row int) interface{} {
	switch name {
	case domain.ColTimestamp:
		return table.Times[row].UTC()
	case domain.ColEntity:
		return table.Entities[row]
	case domain.ColFamily:
		return table.Families[row]
	default:
		return table.Numeric[name][row]
	}
}
