package dialect

import "github.com/toredahl/seagen/internal/naming"

// PostgresDialect maps semantic column types onto sea-orm entity types for a
// PostgreSQL database.
type PostgresDialect struct{}

// Name returns the target name.
func (d *PostgresDialect) Name() string { return string(Postgres) }

// DefaultSchema returns the schema assumed when a table carries none.
func (d *PostgresDialect) DefaultSchema() string { return "public" }

// postgresTypes maps normalized semantic types to the generated field type
// and, where sea-orm needs one, an explicit column-type attribute value.
var postgresTypes = map[string]Mapping{
	"int":              {Native: "i32"},
	"integer":          {Native: "i32"},
	"serial":           {Native: "i32"},
	"smallint":         {Native: "i16"},
	"smallserial":      {Native: "i16"},
	"bigint":           {Native: "i64"},
	"bigserial":        {Native: "i64"},
	"varchar":          {Native: "String"},
	"char":             {Native: "String", ColumnType: "Char"},
	"text":             {Native: "String", ColumnType: "Text"},
	"uuid":             {Native: "Uuid"},
	"timestamp":        {Native: "DateTime"},
	"timestamptz":      {Native: "DateTimeWithTimeZone"},
	"date":             {Native: "Date"},
	"time":             {Native: "Time"},
	"timetz":           {Native: "Time"},
	"bool":             {Native: "bool"},
	"boolean":          {Native: "bool"},
	"real":             {Native: "f32", ColumnType: "Float"},
	"float":            {Native: "f32", ColumnType: "Float"},
	"double":           {Native: "f64", ColumnType: "Double"},
	"double precision": {Native: "f64", ColumnType: "Double"},
	"decimal":          {Native: "Decimal"},
	"numeric":          {Native: "Decimal"},
	"money":            {Native: "Decimal", ColumnType: "Money"},
	"json":             {Native: "Json", ColumnType: "Json"},
	"jsonb":            {Native: "Json", ColumnType: "JsonBinary"},
	"bytea":            {Native: "Vec<u8>"},
}

// TypeMapping maps a semantic type. Types outside the table are treated as
// user-defined (enum) types and pass through as their PascalCase name with no
// explicit column-type attribute.
func (d *PostgresDialect) TypeMapping(semantic string) Mapping {
	if m, ok := postgresTypes[semantic]; ok {
		return m
	}
	return Mapping{Native: naming.Pascal(semantic)}
}
