package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchema_Valid(t *testing.T) {
	schema := DefaultSchema()
	require.NoError(t, schema.Validate())
	assert.Equal(t, "project.csv", schema.Projects.File)
	assert.Equal(t, "type", schema.Configurations.Columns["type"])
}

func TestLoadSchema_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
projects:
  table: projects_v2
  columns:
    projectName: name
variants:
  file: variants.csv
  columns:
    carpetArea: carpet_area_sqft
    floorPlanImage: ""
`), 0o600))

	schema, err := LoadSchema(path)
	require.NoError(t, err)

	assert.Equal(t, "projects_v2", schema.Projects.Table)
	assert.Equal(t, "project.csv", schema.Projects.File)
	assert.Equal(t, "name", schema.Projects.Columns["projectName"])
	assert.Equal(t, "id", schema.Projects.Columns["id"])
	assert.Equal(t, "variants.csv", schema.Variants.File)
	assert.Equal(t, "carpet_area_sqft", schema.Variants.Columns["carpetArea"])
	_, mapped := schema.Variants.Columns["floorPlanImage"]
	assert.False(t, mapped)
}

func TestLoadSchema_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		mismatch bool
	}{
		{
			name:     "unknown canonical field",
			content:  "projects:\n  columns:\n    developer: developer_name\n",
			mismatch: true,
		},
		{
			name:     "unmapped join key",
			content:  "variants:\n  columns:\n    configurationId: \"\"\n",
			mismatch: true,
		},
		{
			name:    "malformed yaml",
			content: "projects: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "schema.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := LoadSchema(path)
			require.Error(t, err)
			if tt.mismatch {
				assert.ErrorIs(t, err, ErrSchemaMismatch)
			}
		})
	}
}

func TestLoadSchema_EmptyPath(t *testing.T) {
	schema, err := LoadSchema("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSchema(), schema)
}
