package transpile

import (
	"github.com/toredahl/seagen/internal/codegen"
	"github.com/toredahl/seagen/internal/dialect"
	"github.com/toredahl/seagen/internal/schema"
)

// Meta identifies the generating tool in the output header. It is passed in
// by the caller so the engine holds no process-global identity.
type Meta struct {
	Tool    string
	Version string
}

// Generate transpiles a resolved schema block into entity module source text
// for the given dialect. The relation graph is validated in full before any
// text is assembled, so a failing schema never yields partial output.
func Generate(block *schema.SchemaBlock, d dialect.Dialect, meta Meta) (string, error) {
	if err := schema.ValidateRelations(block.Relations); err != nil {
		return "", err
	}

	f := codegen.NewFile()
	f.Linef("//! Generated by %s %s", meta.Tool, meta.Version)
	f.BlankLines(1)
	f.Line("use sea_orm::entity::prelude::*;")

	for _, table := range block.Tables {
		refs := schema.RefsFor(block.Relations, table.Ident)
		mod, err := assembleEntity(table, refs, d)
		if err != nil {
			return "", err
		}
		f.BlankLines(1)
		f.Add(mod)
	}

	for _, e := range block.Enums {
		f.BlankLines(1)
		f.Line("#[derive(Clone, Debug, PartialEq, EnumIter, DeriveActiveEnum)]")
		f.Line(enumAttrLine(e, d))
		f.Add(translateEnum(e))
	}

	return f.Render(), nil
}
