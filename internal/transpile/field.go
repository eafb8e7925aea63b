// Package transpile turns a resolved schema block into sea-orm entity source
// text. It derives field attributes per column, classifies every relation by
// direction and cardinality, and drives the codegen block tree. The whole
// package is a pure function of its input: no state survives a run and
// identical input always renders identical text.
package transpile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toredahl/seagen/internal/dialect"
	"github.com/toredahl/seagen/internal/schema"
)

// deriveField derives the ordered attribute list and the generated field type
// for one column. The attribute rules are independent of each other except
// that a column-level primary key suppresses the index-derived one, and the
// auto-increment marker only ever follows a column-level primary key.
func deriveField(col schema.ColumnDescriptor, meta *schema.MetaIndexer, d dialect.Dialect) (attrs []string, fieldType string) {
	mapping := d.TypeMapping(col.Type)

	if mapping.ColumnType != "" {
		attrs = append(attrs, fmt.Sprintf("column_type = %q", mapping.ColumnType))
	}
	switch {
	case col.Settings.PrimaryKey:
		attrs = append(attrs, "primary_key")
		if !col.Settings.Increment {
			attrs = append(attrs, "auto_increment = false")
		}
	case meta.IsPrimary(col.Name):
		attrs = append(attrs, "primary_key")
	}
	if col.Settings.Nullable {
		attrs = append(attrs, "nullable")
	}
	// A column can be unique both by its own settings and by an index
	// definition; the attribute is still emitted once.
	if col.Settings.Unique || meta.IsUnique(col.Name) {
		attrs = append(attrs, "unique")
	}
	if def := col.Settings.Default; def != nil {
		attrs = append(attrs, "default_value = "+renderLiteral(*def))
	}

	fieldType = mapping.Native
	if col.Settings.Nullable {
		fieldType = "Option<" + fieldType + ">"
	}
	return attrs, fieldType
}

// renderLiteral renders a default literal: strings quoted, everything else in
// its canonical textual form.
func renderLiteral(lit schema.Literal) string {
	if lit.Kind == schema.LiteralString {
		return strconv.Quote(lit.Raw)
	}
	return lit.Raw
}

// attrLine joins derived attributes into one sea_orm attribute line.
func attrLine(attrs []string) string {
	return "#[sea_orm(" + strings.Join(attrs, ", ") + ")]"
}
