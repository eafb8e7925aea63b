package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/toredahl/seagen/internal/schema"
)

// PostgresIntrospector reads catalog metadata from a PostgreSQL database and
// assembles a resolved schema block.
type PostgresIntrospector struct {
	client     *PostgresClient
	schemaName string
}

// NewPostgresIntrospector creates an introspector bound to one database
// schema.
func NewPostgresIntrospector(client *PostgresClient, schemaName string) *PostgresIntrospector {
	return &PostgresIntrospector{client: client, schemaName: schemaName}
}

// Introspect builds the schema block for the requested tables. If tables is
// empty, every base table in the schema is read, in name order.
func (in *PostgresIntrospector) Introspect(ctx context.Context, tables []string) (*schema.SchemaBlock, error) {
	tableNames, err := in.tableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	block := &schema.SchemaBlock{}
	for _, name := range tableNames {
		table, uniqueCols, err := in.introspectTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect table %s: %w", name, err)
		}
		block.Tables = append(block.Tables, *table)

		relations, err := in.foreignKeys(ctx, name, uniqueCols)
		if err != nil {
			return nil, fmt.Errorf("failed to read foreign keys of %s: %w", name, err)
		}
		block.Relations = append(block.Relations, relations...)
	}

	enums, err := in.enums(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read enum types: %w", err)
	}
	block.Enums = enums

	return block, nil
}

func (in *PostgresIntrospector) tableNames(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	rows, err := in.client.Conn().Query(ctx, query, in.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// normalizePostgresType maps verbose catalog type names onto the semantic
// names used by the dialect mapping tables.
func normalizePostgresType(dataType, udtName string) string {
	switch dataType {
	case "timestamp with time zone":
		return "timestamptz"
	case "timestamp without time zone":
		return "timestamp"
	case "time with time zone":
		return "timetz"
	case "time without time zone":
		return "time"
	case "character varying":
		return "varchar"
	case "character":
		return "char"
	case "USER-DEFINED":
		return udtName
	default:
		return normalizeType(dataType)
	}
}

// introspectTable reads columns, the primary key, and secondary indexes. It
// also returns the set of uniquely-constrained column names, used later for
// relation-kind inference.
func (in *PostgresIntrospector) introspectTable(ctx context.Context, tableName string) (*schema.TableDescriptor, map[string]bool, error) {
	table := &schema.TableDescriptor{
		Ident: schema.Ident{Schema: in.schemaName, Name: tableName},
	}

	pk, err := in.primaryKey(ctx, tableName)
	if err != nil {
		return nil, nil, err
	}

	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.udt_name,
			c.is_nullable,
			c.is_identity,
			c.column_default,
			CASE WHEN EXISTS (
				SELECT 1 FROM information_schema.table_constraints tc
				JOIN information_schema.constraint_column_usage ccu
					ON tc.constraint_name = ccu.constraint_name
					AND tc.table_schema = ccu.table_schema
				WHERE tc.table_schema = $1
					AND tc.table_name = $2
					AND tc.constraint_type = 'UNIQUE'
					AND ccu.column_name = c.column_name
			) THEN true ELSE false END AS is_unique
		FROM information_schema.columns c
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`
	rows, err := in.client.Conn().Query(ctx, query, in.schemaName, tableName)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	uniqueCols := make(map[string]bool)
	for rows.Next() {
		var (
			name, dataType, udtName string
			nullable, identity      string
			defaultVal              *string
			unique                  bool
		)
		if err := rows.Scan(&name, &dataType, &udtName, &nullable, &identity, &defaultVal, &unique); err != nil {
			return nil, nil, err
		}

		col := schema.ColumnDescriptor{
			Name: name,
			Type: normalizePostgresType(dataType, udtName),
			Settings: schema.ColumnSettings{
				Nullable: nullable == "YES",
				Unique:   unique,
			},
		}
		if unique {
			uniqueCols[name] = true
		}
		// Single-column primary keys live in the column settings; composite
		// keys are carried as a primary index definition below.
		if len(pk) == 1 && pk[0] == name {
			col.Settings.PrimaryKey = true
		}
		increment := identity == "YES" ||
			(defaultVal != nil && strings.HasPrefix(*defaultVal, "nextval("))
		if increment {
			col.Settings.Increment = true
		} else if defaultVal != nil {
			col.Settings.Default = classifyDefault(stripTypeCast(*defaultVal))
		}
		table.Columns = append(table.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	if len(pk) > 1 {
		table.Indexes = append(table.Indexes, schema.IndexDescriptor{
			Columns: pk,
			Primary: true,
		})
	}

	indexes, err := in.indexes(ctx, tableName)
	if err != nil {
		return nil, nil, err
	}
	table.Indexes = append(table.Indexes, indexes...)

	return table, uniqueCols, nil
}

// stripTypeCast removes a trailing postgres cast from a default expression:
// "'active'::status" -> "'active'".
func stripTypeCast(expr string) string {
	if i := strings.Index(expr, "::"); i >= 0 {
		return expr[:i]
	}
	return expr
}

func (in *PostgresIntrospector) primaryKey(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1
			AND tc.table_name = $2
			AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position
	`
	rows, err := in.client.Conn().Query(ctx, query, in.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, err
		}
		pk = append(pk, col)
	}
	return pk, rows.Err()
}

func (in *PostgresIntrospector) indexes(ctx context.Context, tableName string) ([]schema.IndexDescriptor, error) {
	query := `
		SELECT
			i.relname AS index_name,
			ix.indisunique AS is_unique,
			array_agg(a.attname ORDER BY array_position(ix.indkey, a.attnum)) AS column_names
		FROM pg_class t
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE t.relkind = 'r'
			AND n.nspname = $1
			AND t.relname = $2
			AND NOT ix.indisprimary
		GROUP BY i.relname, ix.indisunique
		ORDER BY i.relname
	`
	rows, err := in.client.Conn().Query(ctx, query, in.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []schema.IndexDescriptor
	for rows.Next() {
		var idx schema.IndexDescriptor
		if err := rows.Scan(&idx.Name, &idx.Unique, &idx.Columns); err != nil {
			return nil, err
		}
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}

func (in *PostgresIntrospector) foreignKeys(ctx context.Context, tableName string, uniqueCols map[string]bool) ([]schema.RelationDescriptor, error) {
	query := `
		SELECT
			tc.constraint_name,
			kcu.column_name,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name,
			rc.delete_rule,
			rc.update_rule
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		JOIN information_schema.referential_constraints rc
			ON rc.constraint_name = tc.constraint_name
			AND rc.constraint_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`
	rows, err := in.client.Conn().Query(ctx, query, in.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Group rows by constraint so composite foreign keys keep all their
	// column pairs in order.
	var order []string
	grouped := make(map[string]*schema.RelationDescriptor)
	for rows.Next() {
		var constraint, column, foreignTable, foreignColumn, deleteRule, updateRule string
		if err := rows.Scan(&constraint, &column, &foreignTable, &foreignColumn, &deleteRule, &updateRule); err != nil {
			return nil, err
		}
		rel, ok := grouped[constraint]
		if !ok {
			rel = &schema.RelationDescriptor{
				Source: schema.RelationSource{
					Endpoint: schema.Endpoint{Schema: in.schemaName, Table: tableName},
					Inferred: true,
				},
				Target:   schema.Endpoint{Schema: in.schemaName, Table: foreignTable},
				OnDelete: actionFromRule(deleteRule),
				OnUpdate: actionFromRule(updateRule),
			}
			grouped[constraint] = rel
			order = append(order, constraint)
		}
		rel.Source.Endpoint.Compositions = append(rel.Source.Endpoint.Compositions, column)
		rel.Target.Compositions = append(rel.Target.Compositions, foreignColumn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var relations []schema.RelationDescriptor
	for _, constraint := range order {
		rel := grouped[constraint]
		src := rel.Source.Endpoint.Compositions
		rel.Kind = relationKind(len(src) == 1 && uniqueCols[src[0]])
		relations = append(relations, *rel)
	}
	return relations, nil
}

func (in *PostgresIntrospector) enums(ctx context.Context) ([]schema.EnumDescriptor, error) {
	query := `
		SELECT t.typname, e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON t.oid = e.enumtypid
		JOIN pg_namespace n ON t.typnamespace = n.oid
		WHERE n.nspname = $1
		ORDER BY t.typname, e.enumsortorder
	`
	rows, err := in.client.Conn().Query(ctx, query, in.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enums []schema.EnumDescriptor
	for rows.Next() {
		var name, label string
		if err := rows.Scan(&name, &label); err != nil {
			return nil, err
		}
		if len(enums) == 0 || enums[len(enums)-1].Ident.Name != name {
			enums = append(enums, schema.EnumDescriptor{
				Ident: schema.Ident{Schema: in.schemaName, Name: name},
			})
		}
		enums[len(enums)-1].Values = append(enums[len(enums)-1].Values, label)
	}
	return enums, rows.Err()
}
