package layer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/syssam/strata/compiler/gen"
)

// genMigration returns the migration of t. The writer skips it if a
// migration of the entity is already present.
func genMigration(h gen.GeneratorHelper, t *gen.Type) ([]*gen.Artifact, error) {
	version, err := h.MigrationVersion(t)
	if err != nil {
		return nil, err
	}
	content := t.SQL
	if strings.TrimSpace(content) == "" {
		content = defaultMigration(h.Config().MigrationAuthor, t)
	}
	return []*gen.Artifact{{
		Path:    filepath.Join("db", "migration", gen.MigrationName(version, t.Label())),
		Root:    gen.RootResource,
		Kind:    gen.KindMigration,
		Entity:  t.Name,
		Layer:   Migration,
		Match:   t.MigrationFragment(),
		Content: []byte(content),
	}}, nil
}

// defaultMigration returns the liquibase formatted migration creating the
// table of t, paired with its rollback.
func defaultMigration(author string, t *gen.Type) string {
	if author == "" {
		author = gen.DefaultMigrationAuthor
	}
	var b strings.Builder
	b.WriteString("--liquibase formatted sql\n\n")
	fmt.Fprintf(&b, "--changeset %s:1\n", author)
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", t.Table())
	lines := make([]string, 0, len(t.Fields)+1)
	for _, f := range t.Fields {
		lines = append(lines, "    "+columnDef(t, f))
	}
	if t.HasCompositeID() {
		cols := make([]string, len(t.IDs))
		for i, id := range t.IDs {
			cols[i] = id.Column()
		}
		lines = append(lines, "    PRIMARY KEY ("+strings.Join(cols, ", ")+")")
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n);\n\n")
	fmt.Fprintf(&b, "--rollback DROP TABLE %s;\n", t.Table())
	return b.String()
}

func columnDef(t *gen.Type, f *gen.Field) string {
	def := f.Column() + " " + f.ColumnType()
	if !f.Nullable {
		def += " NOT NULL"
	}
	if f.HasDefault() {
		def += " DEFAULT " + f.SQLDefault()
	}
	if f.IsID() && t.HasOneFieldID() {
		def += " PRIMARY KEY"
	}
	return def
}
