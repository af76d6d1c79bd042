package load

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userYAML = `
packageName: com.example.demo
entityName: User
idFields: [id]
fields:
  - name: id
    type: Long
    nullable: false
  - name: username
    type: String
    length: 50
  - name: email
    type: String
  - name: active
    type: Boolean
    defaultValue: true
`

func TestParse(t *testing.T) {
	schemas, err := Parse([]byte(userYAML))
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	s := schemas[0]
	assert.Equal(t, "com.example.demo", s.PackageName)
	assert.Equal(t, "User", s.EntityName)
	assert.Empty(t, s.TableName)
	assert.Equal(t, []string{"id"}, s.IDFields)
	require.Len(t, s.Fields, 4)
	assert.False(t, s.Fields[0].IsNullable())
	assert.True(t, s.Fields[1].IsNullable())
	assert.Equal(t, 50, s.Fields[1].Size())
	assert.Equal(t, 0, s.Fields[2].Size())
	assert.Equal(t, "true", s.Fields[3].DefaultValue)
}

func TestParse_Batch(t *testing.T) {
	t.Run("Sequence", func(t *testing.T) {
		schemas, err := Parse([]byte(`
- packageName: a.b
  entityName: User
  idFields: [id]
  fields: [{name: id, type: Long}]
- packageName: a.b
  entityName: Product
  idFields: [id]
  fields: [{name: id, type: UUID}]
`))
		require.NoError(t, err)
		require.Len(t, schemas, 2)
		assert.Equal(t, "User", schemas[0].EntityName)
		assert.Equal(t, "Product", schemas[1].EntityName)
	})

	t.Run("MultiDocument", func(t *testing.T) {
		schemas, err := Parse([]byte(userYAML + "\n---\n" + `
packageName: a.b
entityName: Order
idFields: [id]
fields: [{name: id, type: Long}]
`))
		require.NoError(t, err)
		require.Len(t, schemas, 2)
		assert.Equal(t, "Order", schemas[1].EntityName)
	})

	t.Run("JSON", func(t *testing.T) {
		schemas, err := Parse([]byte(`{"packageName":"a.b","entityName":"Tag","idFields":["id"],"fields":[{"name":"id","type":"Integer","nullable":false}]}`))
		require.NoError(t, err)
		require.Len(t, schemas, 1)
		assert.False(t, schemas[0].Fields[0].IsNullable())
	})
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"MissingPackage", "entityName: User\nidFields: [id]\nfields: [{name: id, type: Long}]", "packageName"},
		{"MissingEntity", "packageName: a\nidFields: [id]\nfields: [{name: id, type: Long}]", "entityName"},
		{"MissingIDFields", "packageName: a\nentityName: User\nfields: [{name: id, type: Long}]", "idFields"},
		{"EmptyIDFields", "packageName: a\nentityName: User\nidFields: []\nfields: [{name: id, type: Long}]", "idFields"},
		{"EmptyFields", "packageName: a\nentityName: User\nidFields: [id]\nfields: []", "fields"},
		{"FieldType", "packageName: a\nentityName: User\nidFields: [id]\nfields: [{name: id}]", "fields[0].type"},
		{"FieldName", "packageName: a\nentityName: User\nidFields: [id]\nfields: [{type: Long}]", "fields[0].name"},
		{"Length", "packageName: a\nentityName: User\nidFields: [id]\nfields: [{name: id, type: String, length: 0}]", "fields[0].length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			var lerr *Error
			require.True(t, errors.As(err, &lerr))
			assert.Equal(t, tt.field, lerr.Field)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("packageName: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strata: load")
}

func TestLoadPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_user.yaml"), []byte(userYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_tag.json"),
		[]byte(`{"packageName":"a.b","entityName":"Tag","idFields":["id"],"fields":[{"name":"id","type":"Long"}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	schemas, err := LoadPaths(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, schemas, 2)
	assert.Equal(t, "Tag", schemas[0].EntityName)
	assert.Equal(t, "User", schemas[1].EntityName)
	assert.Equal(t, filepath.Join(dir, "b_user.yaml"), schemas[1].Pos)
}

func TestLoadPaths_Errors(t *testing.T) {
	_, err := LoadPaths(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("entityName: User"), 0o644))
	_, err = LoadPaths(context.Background(), bad)
	var lerr *Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, bad, lerr.File)
}
