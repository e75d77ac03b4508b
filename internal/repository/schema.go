package repository

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrSchemaMismatch marks a source-field mapping that does not fit the data
var ErrSchemaMismatch = errors.New("schema mismatch")

// Source collection names
const (
	CollectionProjects       = "projects"
	CollectionAddresses      = "addresses"
	CollectionConfigurations = "configurations"
	CollectionVariants       = "variants"
)

// canonical fields per collection; join keys must always be mapped
var canonicalFields = map[string]struct {
	fields []string
	keys   []string
}{
	CollectionProjects: {
		fields: []string{"id", "projectName", "slug", "status"},
		keys:   []string{"id"},
	},
	CollectionAddresses: {
		fields: []string{"projectId", "fullAddress", "landmark"},
		keys:   []string{"projectId"},
	},
	CollectionConfigurations: {
		fields: []string{"id", "projectId", "type"},
		keys:   []string{"id", "projectId"},
	},
	CollectionVariants: {
		fields: []string{
			"id", "configurationId", "price", "carpetArea", "bathrooms", "balcony",
			"furnishedType", "propertyImages", "floorPlanImage", "lift", "parkingType",
		},
		keys: []string{"configurationId"},
	},
}

// TableSchema maps canonical field names onto one source's columns
type TableSchema struct {
	File    string            `yaml:"file"`
	Table   string            `yaml:"table"`
	Columns map[string]string `yaml:"columns"`
}

// Schema is the single source-field mapping for the four collections
type Schema struct {
	Projects       TableSchema `yaml:"projects"`
	Addresses      TableSchema `yaml:"addresses"`
	Configurations TableSchema `yaml:"configurations"`
	Variants       TableSchema `yaml:"variants"`
}

// NamedTable pairs a collection name with its mapping
type NamedTable struct {
	Name string
	TableSchema
}

// DefaultSchema returns the mapping for the stock CSV export, where column
// names already equal canonical names.
func DefaultSchema() *Schema {
	identity := func(collection string) map[string]string {
		cols := make(map[string]string)
		for _, f := range canonicalFields[collection].fields {
			cols[f] = f
		}
		return cols
	}

	return &Schema{
		Projects: TableSchema{
			File: "project.csv", Table: "project", Columns: identity(CollectionProjects),
		},
		Addresses: TableSchema{
			File: "ProjectAddress.csv", Table: "project_address", Columns: identity(CollectionAddresses),
		},
		Configurations: TableSchema{
			File: "ProjectConfiguration.csv", Table: "project_configuration", Columns: identity(CollectionConfigurations),
		},
		Variants: TableSchema{
			File: "ProjectConfigurationVariant.csv", Table: "project_configuration_variant", Columns: identity(CollectionVariants),
		},
	}
}

// LoadSchema reads a YAML override on top of the default mapping. An empty
// path yields the default.
func LoadSchema(path string) (*Schema, error) {
	schema := DefaultSchema()
	if path == "" {
		return schema, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	var override Schema
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("decode schema file %s: %w", path, err)
	}

	schema.Projects.merge(override.Projects)
	schema.Addresses.merge(override.Addresses)
	schema.Configurations.merge(override.Configurations)
	schema.Variants.merge(override.Variants)

	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}

func (t *TableSchema) merge(o TableSchema) {
	if o.File != "" {
		t.File = o.File
	}
	if o.Table != "" {
		t.Table = o.Table
	}
	for canonical, column := range o.Columns {
		if column == "" {
			delete(t.Columns, canonical)
			continue
		}
		t.Columns[canonical] = column
	}
}

// Tables lists the collections in load order
func (s *Schema) Tables() []NamedTable {
	return []NamedTable{
		{Name: CollectionProjects, TableSchema: s.Projects},
		{Name: CollectionAddresses, TableSchema: s.Addresses},
		{Name: CollectionConfigurations, TableSchema: s.Configurations},
		{Name: CollectionVariants, TableSchema: s.Variants},
	}
}

// Validate rejects unknown canonical fields and unmapped join keys
func (s *Schema) Validate() error {
	for _, t := range s.Tables() {
		known := make(map[string]bool)
		for _, f := range canonicalFields[t.Name].fields {
			known[f] = true
		}
		for _, canonical := range sortedKeys(t.Columns) {
			if !known[canonical] {
				return fmt.Errorf("%w: %s: unknown field %q", ErrSchemaMismatch, t.Name, canonical)
			}
		}
		for _, key := range canonicalFields[t.Name].keys {
			if t.Columns[key] == "" {
				return fmt.Errorf("%w: %s: join key %q is not mapped", ErrSchemaMismatch, t.Name, key)
			}
		}
	}
	return nil
}

// checkHeader verifies every mapped column is present in a source header
func (t NamedTable) checkHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, canonical := range sortedKeys(t.Columns) {
		if column := t.Columns[canonical]; !present[column] {
			return fmt.Errorf("%w: %s: column %q (for %s) not found", ErrSchemaMismatch, t.Name, column, canonical)
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
