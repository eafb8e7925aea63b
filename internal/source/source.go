// Package source builds a schema.SchemaBlock from a live database by reading
// catalog metadata. Each supported engine has a client and an introspector;
// none of them execute anything beyond catalog queries. Relation kinds are
// inferred from foreign keys: a unique owning column yields a one-to-one
// edge, everything else a many-to-one edge.
package source

import (
	"strconv"
	"strings"

	"github.com/toredahl/seagen/internal/schema"
)

// normalizeType lowercases a raw SQL type and strips any length or precision
// arguments: "VARCHAR(255)" -> "varchar".
func normalizeType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// classifyDefault turns a raw catalog default expression into a literal.
// Quoted values become string literals, numeric and boolean values keep their
// canonical form, and anything else is preserved as a raw expression.
func classifyDefault(raw string) *schema.Literal {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return &schema.Literal{Kind: schema.LiteralString, Raw: v[1 : len(v)-1]}
	}
	switch strings.ToLower(v) {
	case "true", "false":
		return &schema.Literal{Kind: schema.LiteralBool, Raw: strings.ToLower(v)}
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return &schema.Literal{Kind: schema.LiteralNumber, Raw: v}
	}
	return &schema.Literal{Kind: schema.LiteralExpr, Raw: v}
}

// actionFromRule maps a catalog referential action rule to the schema
// representation. NO ACTION is the engine default and maps to none.
func actionFromRule(rule string) schema.ReferentialAction {
	switch strings.ToUpper(strings.TrimSpace(rule)) {
	case "CASCADE":
		return schema.ActionCascade
	case "RESTRICT":
		return schema.ActionRestrict
	case "SET NULL":
		return schema.ActionSetNull
	case "SET DEFAULT":
		return schema.ActionSetDefault
	default:
		return ""
	}
}

// relationKind infers the cardinality of a foreign key from the uniqueness of
// its owning column.
func relationKind(sourceUnique bool) schema.RelationKind {
	if sourceUnique {
		return schema.KindOneToOne
	}
	return schema.KindManyToOne
}
