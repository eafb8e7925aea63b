package transpile

import (
	"fmt"

	"github.com/toredahl/seagen/internal/codegen"
	"github.com/toredahl/seagen/internal/dialect"
	"github.com/toredahl/seagen/internal/naming"
	"github.com/toredahl/seagen/internal/schema"
)

// enumAttrLine renders the sea_orm attribute identifying the backing database
// enum. The raw name and schema are kept verbatim so the backend can resolve
// the stored type.
func enumAttrLine(e schema.EnumDescriptor, d dialect.Dialect) string {
	schemaName := e.Ident.Schema
	if schemaName == "" {
		schemaName = d.DefaultSchema()
	}
	return fmt.Sprintf(`#[sea_orm(rs_type = "String", db_type = "Enum", enum_name = %q, schema_name = %q)]`,
		e.Ident.Name, schemaName)
}

// translateEnum builds the enum declaration block. Each value becomes a
// PascalCase variant annotated with its original raw string so stored values
// round-trip exactly.
func translateEnum(e schema.EnumDescriptor) *codegen.Block {
	block := codegen.NewBlock(0, "pub enum "+naming.Pascal(e.Ident.Name))
	for _, value := range e.Values {
		block.Linef("#[sea_orm(string_value = %q)]", value)
		block.Line(naming.Pascal(value) + ",")
	}
	return block
}
