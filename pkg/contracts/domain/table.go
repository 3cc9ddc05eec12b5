package domain

import "time"

// Column names fixed by the output contract.
const (
	ColTimestamp = "fecha_hora"
	ColEntity    = "api_name"
	ColFamily    = "familia"
	ColTarget    = "llamados"
	ColImputed   = "imputed_flag"
)

// FeatureTable is the consolidated pipeline output. ColumnOrder lists every
// output column; the identifier columns resolve to Times, Entities and
// Families, and all remaining names resolve to Numeric. All slices share
// one length.
type FeatureTable struct {
	ColumnOrder []string
	Times       []time.Time
	Entities    []string
	Families    []string
	Numeric     map[string][]float64
}

// Rows returns the number of table rows.
func (t *FeatureTable) Rows() int {
	return len(t.Times)
}

// Cols returns the number of table columns.
func (t *FeatureTable) Cols() int {
	return len(t.ColumnOrder)
}
