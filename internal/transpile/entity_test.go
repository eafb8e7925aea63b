package transpile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toredahl/seagen/internal/codegen"
	"github.com/toredahl/seagen/internal/dialect"
	"github.com/toredahl/seagen/internal/schema"
)

func renderEntity(t *testing.T, table schema.TableDescriptor, refs schema.TableRefs) string {
	t.Helper()
	d := must(dialect.New(dialect.Postgres))
	mod, err := assembleEntity(table, refs, d)
	require.NoError(t, err)
	return codegen.NewFile().Add(mod).Render()
}

func TestAssembleEntityOutgoing(t *testing.T) {
	table := schema.TableDescriptor{
		Ident: schema.Ident{Name: "posts"},
		Columns: []schema.ColumnDescriptor{
			{Name: "id", Type: "int", Settings: schema.ColumnSettings{PrimaryKey: true, Increment: true}},
			{Name: "user_id", Type: "int"},
		},
	}
	refs := schema.TableRefs{
		Outgoing: []schema.RelationDescriptor{{
			Kind: schema.KindManyToOne,
			Source: schema.RelationSource{
				Endpoint: schema.Endpoint{Table: "posts", Compositions: []string{"user_id"}},
			},
			Target: schema.Endpoint{Table: "users", Compositions: []string{"id"}},
		}},
	}

	expected := "pub mod posts {\n" +
		"  use sea_orm::entity::prelude::*;\n" +
		"\n" +
		"  #[derive(Clone, Debug, PartialEq, DeriveEntityModel)]\n" +
		"  #[sea_orm(table_name = \"posts\", schema_name = \"public\")]\n" +
		"  pub struct Model {\n" +
		"    #[sea_orm(primary_key)]\n" +
		"    pub id: i32,\n" +
		"    pub user_id: i32,\n" +
		"  }\n" +
		"\n" +
		"  #[derive(Copy, Clone, Debug, EnumIter, DeriveRelation)]\n" +
		"  pub enum Relation {\n" +
		"    #[sea_orm(belongs_to = \"super::users::Entity\", from = \"Column::UserId\", to = \"super::users::Column::Id\")]\n" +
		"    Users,\n" +
		"  }\n" +
		"\n" +
		"  impl Related<super::users::Entity> for Entity {\n" +
		"    fn to() -> RelationDef {\n" +
		"      Relation::Users.def()\n" +
		"    }\n" +
		"  }\n" +
		"\n" +
		"  impl ActiveModelBehavior for ActiveModel {}\n" +
		"}\n"
	assert.Equal(t, expected, renderEntity(t, table, refs))
}

func TestAssembleEntityIncoming(t *testing.T) {
	table := schema.TableDescriptor{
		Ident: schema.Ident{Name: "users"},
		Columns: []schema.ColumnDescriptor{
			{Name: "id", Type: "int", Settings: schema.ColumnSettings{PrimaryKey: true, Increment: true}},
		},
	}
	refs := schema.TableRefs{
		Incoming: []schema.RelationDescriptor{{
			Kind: schema.KindManyToOne,
			Source: schema.RelationSource{
				Endpoint: schema.Endpoint{Table: "posts", Compositions: []string{"user_id"}},
			},
			Target: schema.Endpoint{Table: "users", Compositions: []string{"id"}},
		}},
	}

	out := renderEntity(t, table, refs)
	assert.Contains(t, out, "    #[sea_orm(has_many = \"super::posts::Entity\")]\n    Posts,\n")
	assert.Contains(t, out, "  impl Related<super::posts::Entity> for Entity {\n")
	assert.Contains(t, out, "      Relation::Posts.def()\n")
}

func TestAssembleEntityIncomingOneToOne(t *testing.T) {
	table := schema.TableDescriptor{
		Ident: schema.Ident{Name: "users"},
		Columns: []schema.ColumnDescriptor{
			{Name: "id", Type: "int", Settings: schema.ColumnSettings{PrimaryKey: true, Increment: true}},
		},
	}
	refs := schema.TableRefs{
		Incoming: []schema.RelationDescriptor{{
			Kind: schema.KindOneToOne,
			Source: schema.RelationSource{
				Endpoint: schema.Endpoint{Table: "profiles", Compositions: []string{"user_id"}},
			},
			Target: schema.Endpoint{Table: "users", Compositions: []string{"id"}},
		}},
	}

	out := renderEntity(t, table, refs)
	assert.Contains(t, out, "#[sea_orm(has_one = \"super::profiles::Entity\")]")
	assert.NotContains(t, out, "has_many")
}

func TestAssembleEntitySelfRelation(t *testing.T) {
	table := schema.TableDescriptor{
		Ident: schema.Ident{Name: "categories"},
		Columns: []schema.ColumnDescriptor{
			{Name: "id", Type: "int", Settings: schema.ColumnSettings{PrimaryKey: true, Increment: true}},
			{Name: "parent_id", Type: "int", Settings: schema.ColumnSettings{Nullable: true}},
		},
	}
	refs := schema.TableRefs{
		Self: []schema.RelationDescriptor{{
			Kind: schema.KindManyToOne,
			Source: schema.RelationSource{
				Endpoint: schema.Endpoint{Table: "categories", Compositions: []string{"parent_id"}},
			},
			Target:   schema.Endpoint{Table: "categories", Compositions: []string{"id"}},
			OnDelete: schema.ActionSetNull,
		}},
	}

	expected := "pub mod categories {\n" +
		"  use sea_orm::entity::prelude::*;\n" +
		"\n" +
		"  #[derive(Clone, Debug, PartialEq, DeriveEntityModel)]\n" +
		"  #[sea_orm(table_name = \"categories\", schema_name = \"public\")]\n" +
		"  pub struct Model {\n" +
		"    #[sea_orm(primary_key)]\n" +
		"    pub id: i32,\n" +
		"    #[sea_orm(nullable)]\n" +
		"    pub parent_id: Option<i32>,\n" +
		"  }\n" +
		"\n" +
		"  #[derive(Copy, Clone, Debug, EnumIter, DeriveRelation)]\n" +
		"  pub enum Relation {\n" +
		"    #[sea_orm(belongs_to = \"Entity\", from = \"Column::ParentId\", to = \"Column::Id\", on_delete = \"SetNull\")]\n" +
		"    SelfReferencing,\n" +
		"  }\n" +
		"\n" +
		"  pub struct SelfReferencingLink {\n" +
		"  }\n" +
		"\n" +
		"  impl Linked for SelfReferencingLink {\n" +
		"    type FromEntity = Entity;\n" +
		"    type ToEntity = Entity;\n" +
		"\n" +
		"    fn link(&self) -> Vec<RelationDef> {\n" +
		"      vec![Relation::SelfReferencing.def()]\n" +
		"    }\n" +
		"  }\n" +
		"\n" +
		"  impl ActiveModelBehavior for ActiveModel {}\n" +
		"}\n"
	assert.Equal(t, expected, renderEntity(t, table, refs))
}

func TestAssembleEntityReferentialActions(t *testing.T) {
	table := schema.TableDescriptor{
		Ident: schema.Ident{Name: "posts"},
		Columns: []schema.ColumnDescriptor{
			{Name: "id", Type: "int", Settings: schema.ColumnSettings{PrimaryKey: true, Increment: true}},
			{Name: "user_id", Type: "int"},
		},
	}
	refs := schema.TableRefs{
		Outgoing: []schema.RelationDescriptor{{
			Kind: schema.KindManyToOne,
			Source: schema.RelationSource{
				Endpoint: schema.Endpoint{Table: "posts", Compositions: []string{"user_id"}},
			},
			Target:   schema.Endpoint{Table: "users", Compositions: []string{"id"}},
			OnDelete: schema.ActionCascade,
			OnUpdate: schema.ActionRestrict,
		}},
	}

	out := renderEntity(t, table, refs)
	assert.Contains(t, out, `on_delete = "Cascade", on_update = "Restrict")]`)
}

func TestAssembleEntityVariantCollision(t *testing.T) {
	table := schema.TableDescriptor{
		Ident: schema.Ident{Name: "posts"},
		Columns: []schema.ColumnDescriptor{
			{Name: "id", Type: "int", Settings: schema.ColumnSettings{PrimaryKey: true, Increment: true}},
		},
	}
	mkRel := func(col string) schema.RelationDescriptor {
		return schema.RelationDescriptor{
			Kind: schema.KindManyToOne,
			Source: schema.RelationSource{
				Endpoint: schema.Endpoint{Table: "posts", Compositions: []string{col}},
			},
			Target: schema.Endpoint{Table: "users", Compositions: []string{"id"}},
		}
	}
	refs := schema.TableRefs{
		Outgoing: []schema.RelationDescriptor{mkRel("author_id"), mkRel("editor_id")},
	}

	d := must(dialect.New(dialect.Postgres))
	_, err := assembleEntity(table, refs, d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrNamingCollision))

	var collision *schema.NamingCollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, "posts", collision.Table.Name)
	assert.Equal(t, "Users", collision.Variant)
}

func TestAssembleEntityVariantConsistency(t *testing.T) {
	// The forward variant on the owning side and the reverse variant on the
	// owned side both derive from the opposite table name, so traversal code
	// sees matching names on both ends.
	relations := []schema.RelationDescriptor{{
		Kind: schema.KindManyToOne,
		Source: schema.RelationSource{
			Endpoint: schema.Endpoint{Table: "order_items", Compositions: []string{"order_id"}},
		},
		Target: schema.Endpoint{Table: "orders", Compositions: []string{"id"}},
	}}

	items := schema.TableDescriptor{
		Ident:   schema.Ident{Name: "order_items"},
		Columns: []schema.ColumnDescriptor{{Name: "order_id", Type: "int"}},
	}
	orders := schema.TableDescriptor{
		Ident:   schema.Ident{Name: "orders"},
		Columns: []schema.ColumnDescriptor{{Name: "id", Type: "int"}},
	}

	itemsOut := renderEntity(t, items, schema.RefsFor(relations, items.Ident))
	ordersOut := renderEntity(t, orders, schema.RefsFor(relations, orders.Ident))

	assert.Contains(t, itemsOut, "    Orders,\n")
	assert.Contains(t, itemsOut, "impl Related<super::orders::Entity> for Entity")
	assert.Contains(t, ordersOut, "    OrderItems,\n")
	assert.Contains(t, ordersOut, "impl Related<super::order_items::Entity> for Entity")
}
