// Package schema defines the resolved semantic model consumed by the
// transpiler: tables, columns, indexes, enums, and the relation graph. All
// values are produced once (by introspection or by decoding a schema file)
// and treated as immutable input.
package schema

import "gopkg.in/yaml.v3"

// SchemaBlock is the root of a resolved schema: ordered tables, ordered
// enums, and the full list of relation descriptors. Relations are queried per
// table through RefsFor.
type SchemaBlock struct {
	Tables    []TableDescriptor    `json:"tables" yaml:"tables"`
	Enums     []EnumDescriptor     `json:"enums,omitempty" yaml:"enums,omitempty"`
	Relations []RelationDescriptor `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// Ident names a table or enum, optionally qualified by a database schema.
type Ident struct {
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Name   string `json:"name" yaml:"name"`
}

// TableDescriptor describes one table: its identifier, ordered columns, and
// ordered index definitions.
type TableDescriptor struct {
	Ident   Ident              `json:"ident" yaml:"ident"`
	Columns []ColumnDescriptor `json:"columns" yaml:"columns"`
	Indexes []IndexDescriptor  `json:"indexes,omitempty" yaml:"indexes,omitempty"`
}

// ColumnDescriptor describes one column: its name, semantic type, and
// column-level settings.
type ColumnDescriptor struct {
	Name     string         `json:"name" yaml:"name"`
	Type     string         `json:"type" yaml:"type"`
	Settings ColumnSettings `json:"settings" yaml:"settings"`
}

// ColumnSettings holds the column-level constraint flags and optional
// default literal.
type ColumnSettings struct {
	PrimaryKey bool     `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	Increment  bool     `json:"increment,omitempty" yaml:"increment,omitempty"`
	Nullable   bool     `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Unique     bool     `json:"unique,omitempty" yaml:"unique,omitempty"`
	Default    *Literal `json:"default,omitempty" yaml:"default,omitempty"`
}

// IndexDescriptor describes one index definition on a table.
type IndexDescriptor struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Columns []string `json:"columns" yaml:"columns"`
	Primary bool     `json:"primary,omitempty" yaml:"primary,omitempty"`
	Unique  bool     `json:"unique,omitempty" yaml:"unique,omitempty"`
}

// EnumDescriptor describes one enumeration: its identifier and the ordered
// raw string values exactly as stored by the database.
type EnumDescriptor struct {
	Ident  Ident    `json:"ident" yaml:"ident"`
	Values []string `json:"values" yaml:"values"`
}

// LiteralKind classifies a default-value literal.
type LiteralKind int

const (
	// LiteralString renders quoted.
	LiteralString LiteralKind = iota
	// LiteralNumber renders verbatim.
	LiteralNumber
	// LiteralBool renders verbatim.
	LiteralBool
	// LiteralExpr is a raw database expression, rendered verbatim.
	LiteralExpr
)

var literalKindNames = map[LiteralKind]string{
	LiteralString: "string",
	LiteralNumber: "number",
	LiteralBool:   "bool",
	LiteralExpr:   "expr",
}

// String returns the canonical name of the kind.
func (k LiteralKind) String() string {
	if name, ok := literalKindNames[k]; ok {
		return name
	}
	return "string"
}

// MarshalText encodes the kind by its canonical name.
func (k LiteralKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a canonical kind name. Unknown names decode to
// LiteralString, which renders quoted and so never injects raw text.
func (k *LiteralKind) UnmarshalText(text []byte) error {
	s := string(text)
	for kind, name := range literalKindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	*k = LiteralString
	return nil
}

// MarshalYAML encodes the kind by its canonical name.
func (k LiteralKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML decodes a canonical kind name from a YAML scalar.
func (k *LiteralKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return k.UnmarshalText([]byte(s))
}

// Literal is a default-value literal in canonical textual form.
type Literal struct {
	Kind LiteralKind `json:"kind" yaml:"kind"`
	Raw  string      `json:"raw" yaml:"raw"`
}
