package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toredahl/seagen/internal/schema"
)

func TestNormalizeType(t *testing.T) {
	tests := map[string]string{
		"VARCHAR(255)":  "varchar",
		"INTEGER":       "integer",
		"Numeric(10,2)": "numeric",
		"  text  ":      "text",
		"TIMESTAMP":     "timestamp",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeType(in), "normalizeType(%q)", in)
	}
}

func TestClassifyDefault(t *testing.T) {
	tests := []struct {
		raw  string
		kind schema.LiteralKind
		want string
	}{
		{"'pending'", schema.LiteralString, "pending"},
		{"42", schema.LiteralNumber, "42"},
		{"3.14", schema.LiteralNumber, "3.14"},
		{"true", schema.LiteralBool, "true"},
		{"FALSE", schema.LiteralBool, "false"},
		{"now()", schema.LiteralExpr, "now()"},
		{"CURRENT_TIMESTAMP", schema.LiteralExpr, "CURRENT_TIMESTAMP"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			lit := classifyDefault(tt.raw)
			require.NotNil(t, lit)
			assert.Equal(t, tt.kind, lit.Kind)
			assert.Equal(t, tt.want, lit.Raw)
		})
	}

	assert.Nil(t, classifyDefault(""))
	assert.Nil(t, classifyDefault("   "))
}

func TestActionFromRule(t *testing.T) {
	assert.Equal(t, schema.ActionCascade, actionFromRule("CASCADE"))
	assert.Equal(t, schema.ActionRestrict, actionFromRule("restrict"))
	assert.Equal(t, schema.ActionSetNull, actionFromRule("SET NULL"))
	assert.Equal(t, schema.ActionSetDefault, actionFromRule("SET DEFAULT"))
	assert.Equal(t, schema.ReferentialAction(""), actionFromRule("NO ACTION"))
	assert.Equal(t, schema.ReferentialAction(""), actionFromRule(""))
}

func TestRelationKindInference(t *testing.T) {
	assert.Equal(t, schema.KindOneToOne, relationKind(true))
	assert.Equal(t, schema.KindManyToOne, relationKind(false))
}

func TestParseDatabaseName(t *testing.T) {
	tests := []struct {
		dsn     string
		want    string
		wantErr bool
	}{
		{dsn: "user:pass@tcp(localhost:3306)/mydb", want: "mydb"},
		{dsn: "user:pass@tcp(localhost:3306)/mydb?parseTime=true", want: "mydb"},
		{dsn: "user:pass@tcp(localhost:3306)/", wantErr: true},
		{dsn: "nodatabase", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			got, err := ParseDatabaseName(tt.dsn)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEnumValues(t *testing.T) {
	assert.Equal(t, []string{"active", "inactive"}, parseEnumValues("enum('active','inactive')"))
	assert.Equal(t, []string{"a"}, parseEnumValues("enum('a')"))
	assert.Nil(t, parseEnumValues("varchar(255)"))
	assert.Equal(t, []string{"it's"}, parseEnumValues("enum('it''s')"))
}
