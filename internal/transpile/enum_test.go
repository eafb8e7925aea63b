package transpile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toredahl/seagen/internal/codegen"
	"github.com/toredahl/seagen/internal/dialect"
	"github.com/toredahl/seagen/internal/schema"
)

func TestEnumAttrLine(t *testing.T) {
	d := must(dialect.New(dialect.Postgres))

	e := schema.EnumDescriptor{
		Ident:  schema.Ident{Name: "order_status"},
		Values: []string{"pending", "shipped"},
	}
	assert.Equal(t,
		`#[sea_orm(rs_type = "String", db_type = "Enum", enum_name = "order_status", schema_name = "public")]`,
		enumAttrLine(e, d))

	e.Ident.Schema = "sales"
	assert.Equal(t,
		`#[sea_orm(rs_type = "String", db_type = "Enum", enum_name = "order_status", schema_name = "sales")]`,
		enumAttrLine(e, d))
}

func TestTranslateEnum(t *testing.T) {
	e := schema.EnumDescriptor{
		Ident:  schema.Ident{Name: "order_status"},
		Values: []string{"pending", "in transit", "shipped"},
	}

	out := codegen.NewFile().Add(translateEnum(e)).Render()
	expected := "pub enum OrderStatus {\n" +
		"  #[sea_orm(string_value = \"pending\")]\n" +
		"  Pending,\n" +
		"  #[sea_orm(string_value = \"in transit\")]\n" +
		"  InTransit,\n" +
		"  #[sea_orm(string_value = \"shipped\")]\n" +
		"  Shipped,\n" +
		"}\n"
	assert.Equal(t, expected, out)
}
