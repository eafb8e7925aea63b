package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/toredahl/seagen/internal/schema"
)

// MySQLIntrospector reads catalog metadata from a MySQL database and
// assembles a resolved schema block. MySQL declares enums per column, so each
// enum column synthesizes an enum descriptor named <table>_<column>.
type MySQLIntrospector struct {
	client   *MySQLClient
	database string
}

// NewMySQLIntrospector creates an introspector bound to one database.
func NewMySQLIntrospector(client *MySQLClient, database string) *MySQLIntrospector {
	return &MySQLIntrospector{client: client, database: database}
}

// Introspect builds the schema block for the requested tables. If tables is
// empty, every base table in the database is read, in name order.
func (in *MySQLIntrospector) Introspect(ctx context.Context, tables []string) (*schema.SchemaBlock, error) {
	tableNames, err := in.tableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	block := &schema.SchemaBlock{}
	for _, name := range tableNames {
		table, uniqueCols, enums, err := in.introspectTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect table %s: %w", name, err)
		}
		block.Tables = append(block.Tables, *table)
		block.Enums = append(block.Enums, enums...)

		relations, err := in.foreignKeys(ctx, name, uniqueCols)
		if err != nil {
			return nil, fmt.Errorf("failed to read foreign keys of %s: %w", name, err)
		}
		block.Relations = append(block.Relations, relations...)
	}
	return block, nil
}

func (in *MySQLIntrospector) tableNames(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}
	query := `
		SELECT TABLE_NAME
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME
	`
	rows, err := in.client.DB().QueryContext(ctx, query, in.database)
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

func (in *MySQLIntrospector) introspectTable(ctx context.Context, tableName string) (*schema.TableDescriptor, map[string]bool, []schema.EnumDescriptor, error) {
	table := &schema.TableDescriptor{
		Ident: schema.Ident{Name: tableName},
	}

	query := `
		SELECT COLUMN_NAME, DATA_TYPE, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, COLUMN_KEY, EXTRA
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`
	rows, err := in.client.DB().QueryContext(ctx, query, in.database, tableName)
	if err != nil {
		return nil, nil, nil, err
	}
	defer rows.Close()

	uniqueCols := make(map[string]bool)
	var enums []schema.EnumDescriptor
	var pkCols []string
	for rows.Next() {
		var (
			name, dataType, columnType, nullable, columnKey, extra string
			defaultVal                                             *string
		)
		if err := rows.Scan(&name, &dataType, &columnType, &nullable, &defaultVal, &columnKey, &extra); err != nil {
			return nil, nil, nil, err
		}

		semantic := normalizeType(dataType)
		if dataType == "enum" {
			enumName := tableName + "_" + name
			enums = append(enums, schema.EnumDescriptor{
				Ident:  schema.Ident{Name: enumName},
				Values: parseEnumValues(columnType),
			})
			semantic = enumName
		}

		col := schema.ColumnDescriptor{
			Name: name,
			Type: semantic,
			Settings: schema.ColumnSettings{
				Nullable: nullable == "YES",
				Unique:   columnKey == "UNI",
			},
		}
		if columnKey == "UNI" {
			uniqueCols[name] = true
		}
		if columnKey == "PRI" {
			pkCols = append(pkCols, name)
		}
		if strings.Contains(extra, "auto_increment") {
			col.Settings.Increment = true
		} else if defaultVal != nil {
			col.Settings.Default = classifyDefault(*defaultVal)
		}
		table.Columns = append(table.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}

	// Single-column primary keys live in the column settings; composite keys
	// become a primary index definition.
	if len(pkCols) == 1 {
		for i := range table.Columns {
			if table.Columns[i].Name == pkCols[0] {
				table.Columns[i].Settings.PrimaryKey = true
			}
		}
	} else if len(pkCols) > 1 {
		table.Indexes = append(table.Indexes, schema.IndexDescriptor{
			Columns: pkCols,
			Primary: true,
		})
	}

	indexes, err := in.indexes(ctx, tableName)
	if err != nil {
		return nil, nil, nil, err
	}
	table.Indexes = append(table.Indexes, indexes...)

	return table, uniqueCols, enums, nil
}

// parseEnumValues extracts the quoted values from a MySQL column type such as
// enum('active','inactive').
func parseEnumValues(columnType string) []string {
	if !strings.HasPrefix(columnType, "enum(") {
		return nil
	}
	open := strings.IndexByte(columnType, '(')
	end := strings.LastIndexByte(columnType, ')')
	if end <= open {
		return nil
	}
	var values []string
	for _, part := range strings.Split(columnType[open+1:end], ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, "'")
		part = strings.ReplaceAll(part, "''", "'")
		values = append(values, part)
	}
	return values
}

func (in *MySQLIntrospector) indexes(ctx context.Context, tableName string) ([]schema.IndexDescriptor, error) {
	query := `
		SELECT INDEX_NAME, NON_UNIQUE, COLUMN_NAME
		FROM information_schema.STATISTICS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND INDEX_NAME != 'PRIMARY'
		ORDER BY INDEX_NAME, SEQ_IN_INDEX
	`
	rows, err := in.client.DB().QueryContext(ctx, query, in.database, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []schema.IndexDescriptor
	for rows.Next() {
		var name, column string
		var nonUnique int
		if err := rows.Scan(&name, &nonUnique, &column); err != nil {
			return nil, err
		}
		if len(indexes) == 0 || indexes[len(indexes)-1].Name != name {
			indexes = append(indexes, schema.IndexDescriptor{
				Name:   name,
				Unique: nonUnique == 0,
			})
		}
		idx := &indexes[len(indexes)-1]
		idx.Columns = append(idx.Columns, column)
	}
	return indexes, rows.Err()
}

func (in *MySQLIntrospector) foreignKeys(ctx context.Context, tableName string, uniqueCols map[string]bool) ([]schema.RelationDescriptor, error) {
	query := `
		SELECT kcu.CONSTRAINT_NAME, kcu.COLUMN_NAME, kcu.REFERENCED_TABLE_NAME, kcu.REFERENCED_COLUMN_NAME,
			rc.DELETE_RULE, rc.UPDATE_RULE
		FROM information_schema.KEY_COLUMN_USAGE kcu
		JOIN information_schema.REFERENTIAL_CONSTRAINTS rc
			ON rc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			AND rc.CONSTRAINT_SCHEMA = kcu.TABLE_SCHEMA
		WHERE kcu.TABLE_SCHEMA = ? AND kcu.TABLE_NAME = ?
			AND kcu.REFERENCED_TABLE_NAME IS NOT NULL
		ORDER BY kcu.CONSTRAINT_NAME, kcu.ORDINAL_POSITION
	`
	rows, err := in.client.DB().QueryContext(ctx, query, in.database, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
					Endpoint: schema.Endpoint{Table: tableName},
					Inferred: true,
				},
				Target:   schema.Endpoint{Table: foreignTable},
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
