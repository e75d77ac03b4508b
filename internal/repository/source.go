package repository

import "context"

// Record is one source row keyed by canonical field name
type Record map[string]string

// Source reads the raw rows of one collection
type Source interface {
	Name() string
	Fetch(ctx context.Context, table NamedTable) ([]Record, error)
}

// project maps a source row onto canonical field names
func project(table NamedTable, row map[string]string) Record {
	rec := make(Record, len(table.Columns))
	for canonical, column := range table.Columns {
		rec[canonical] = row[column]
	}
	return rec
}
