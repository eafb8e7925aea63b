package transpile

import (
	"fmt"

	"github.com/toredahl/seagen/internal/codegen"
	"github.com/toredahl/seagen/internal/dialect"
	"github.com/toredahl/seagen/internal/naming"
	"github.com/toredahl/seagen/internal/schema"
)

// selfVariant is the relation variant synthesized for a self-relation. Both
// sides of such a relation are the same entity, so it links through a marker
// struct instead of an ordinary cross-entity Related impl.
const selfVariant = "SelfReferencing"

// assembleEntity builds the `pub mod` block for one table: the Model field
// block, the Relation enum in fixed order (self, outgoing, incoming), and one
// auxiliary linking block per relation.
func assembleEntity(table schema.TableDescriptor, refs schema.TableRefs, d dialect.Dialect) (*codegen.Block, error) {
	if err := checkVariantNames(table.Ident, refs); err != nil {
		return nil, err
	}
	meta := schema.NewMetaIndexer(table.Indexes)

	schemaName := table.Ident.Schema
	if schemaName == "" {
		schemaName = d.DefaultSchema()
	}

	model := codegen.NewBlock(1, "pub struct Model")
	for _, col := range table.Columns {
		attrs, fieldType := deriveField(col, meta, d)
		model.LineIf(len(attrs) > 0, attrLine(attrs))
		model.Line("pub " + col.Name + ": " + fieldType + ",")
	}

	rels := codegen.NewBlock(1, "pub enum Relation")
	var aux []*codegen.Block

	for _, rel := range refs.Self {
		rels.Line(attrLine(relationAttrs([]string{
			`belongs_to = "Entity"`,
			fmt.Sprintf("from = %q", "Column::"+naming.Pascal(rel.Source.Endpoint.Compositions[0])),
			fmt.Sprintf("to = %q", "Column::"+naming.Pascal(rel.Target.Compositions[0])),
		}, rel)))
		rels.Line(selfVariant + ",")
		aux = append(aux, selfLinkBlocks()...)
	}

	for _, rel := range refs.Outgoing {
		targetMod := naming.Snake(rel.Target.Table)
		switch rel.Kind {
		case schema.KindOneToOne, schema.KindManyToOne:
		default:
			return nil, &schema.UnsupportedRelationError{Relation: rel}
		}
		rels.Line(attrLine(relationAttrs([]string{
			fmt.Sprintf("belongs_to = %q", "super::"+targetMod+"::Entity"),
			fmt.Sprintf("from = %q", "Column::"+naming.Pascal(rel.Source.Endpoint.Compositions[0])),
			fmt.Sprintf("to = %q", "super::"+targetMod+"::Column::"+naming.Pascal(rel.Target.Compositions[0])),
		}, rel)))
		variant := naming.Pascal(rel.Target.Table)
		rels.Line(variant + ",")
		aux = append(aux, relatedBlock(targetMod, variant))
	}

	for _, rel := range refs.Incoming {
		sourceMod := naming.Snake(rel.Source.Endpoint.Table)
		var attr string
		switch rel.Kind {
		case schema.KindOneToOne:
			attr = fmt.Sprintf("has_one = %q", "super::"+sourceMod+"::Entity")
		case schema.KindManyToOne:
			// The reverse view of a forward many-to-one.
			attr = fmt.Sprintf("has_many = %q", "super::"+sourceMod+"::Entity")
		default:
			return nil, &schema.UnsupportedRelationError{Relation: rel}
		}
		rels.Line(attrLine([]string{attr}))
		variant := naming.Pascal(rel.Source.Endpoint.Table)
		rels.Line(variant + ",")
		aux = append(aux, relatedBlock(sourceMod, variant))
	}

	mod := codegen.NewBlock(0, "pub mod "+naming.Snake(table.Ident.Name))
	mod.Line("use sea_orm::entity::prelude::*;")
	mod.BlankLines(1)
	mod.Line("#[derive(Clone, Debug, PartialEq, DeriveEntityModel)]")
	mod.Linef("#[sea_orm(table_name = %q, schema_name = %q)]", table.Ident.Name, schemaName)
	mod.Add(model)
	mod.BlankLines(1)
	mod.Line("#[derive(Copy, Clone, Debug, EnumIter, DeriveRelation)]")
	mod.Add(rels)
	mod.AddAll(aux)
	mod.BlankLines(1)
	mod.Line("impl ActiveModelBehavior for ActiveModel {}")
	return mod, nil
}

// relationAttrs appends the optional referential actions to a relation's base
// attribute list.
func relationAttrs(attrs []string, rel schema.RelationDescriptor) []string {
	if rel.OnDelete != "" {
		attrs = append(attrs, fmt.Sprintf("on_delete = %q", naming.Pascal(string(rel.OnDelete))))
	}
	if rel.OnUpdate != "" {
		attrs = append(attrs, fmt.Sprintf("on_update = %q", naming.Pascal(string(rel.OnUpdate))))
	}
	return attrs
}

// relatedBlock builds the relation-traversal impl from this entity to the
// opposite entity's module.
func relatedBlock(oppositeMod, variant string) *codegen.Block {
	return codegen.NewBlock(1, "impl Related<super::"+oppositeMod+"::Entity> for Entity").
		Add(codegen.NewBlock(2, "fn to() -> RelationDef").
			Line("Relation::" + variant + ".def()"))
}

// selfLinkBlocks builds the marker struct and Linked impl for a
// self-relation.
func selfLinkBlocks() []*codegen.Block {
	marker := codegen.NewBlock(1, "pub struct SelfReferencingLink")
	linked := codegen.NewBlock(1, "impl Linked for SelfReferencingLink").
		Line("type FromEntity = Entity;").
		Line("type ToEntity = Entity;").
		BlankLines(1).
		Add(codegen.NewBlock(2, "fn link(&self) -> Vec<RelationDef>").
			Line("vec![Relation::" + selfVariant + ".def()]"))
	return []*codegen.Block{marker, linked}
}

// checkVariantNames rejects tables whose relations would generate duplicate
// variant names, which happens when a table has several relations to the same
// opposite table (or several self-relations).
func checkVariantNames(table schema.Ident, refs schema.TableRefs) error {
	seen := make(map[string]struct{})
	add := func(variant string) error {
		if _, ok := seen[variant]; ok {
			return &schema.NamingCollisionError{Table: table, Variant: variant}
		}
		seen[variant] = struct{}{}
		return nil
	}
	for range refs.Self {
		if err := add(selfVariant); err != nil {
			return err
		}
	}
	for _, rel := range refs.Outgoing {
		if err := add(naming.Pascal(rel.Target.Table)); err != nil {
			return err
		}
	}
	for _, rel := range refs.Incoming {
		if err := add(naming.Pascal(rel.Source.Endpoint.Table)); err != nil {
			return err
		}
	}
	return nil
}
