package source

import (
	"context"
	"fmt"

	"github.com/toredahl/seagen/internal/schema"
)

// SQLiteIntrospector reads catalog metadata from a SQLite database and
// assembles a resolved schema block. SQLite has no schema concept, so idents
// carry no schema qualifier and the dialect default applies at render time.
type SQLiteIntrospector struct {
	client *SQLiteClient
	// pkCache memoizes primary-key lookups for foreign keys that omit the
	// referenced column.
	pkCache map[string][]string
}

// NewSQLiteIntrospector creates a new introspector.
func NewSQLiteIntrospector(client *SQLiteClient) *SQLiteIntrospector {
	return &SQLiteIntrospector{client: client, pkCache: make(map[string][]string)}
}

// Introspect builds the schema block for the requested tables. If tables is
// empty, every user table is read, in name order.
func (in *SQLiteIntrospector) Introspect(ctx context.Context, tables []string) (*schema.SchemaBlock, error) {
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
	return block, nil
}

func (in *SQLiteIntrospector) tableNames(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`
	rows, err := in.client.DB().QueryContext(ctx, query)
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

func (in *SQLiteIntrospector) introspectTable(ctx context.Context, tableName string) (*schema.TableDescriptor, map[string]bool, error) {
	table := &schema.TableDescriptor{
		Ident: schema.Ident{Name: tableName},
	}

	pk, err := in.primaryKey(ctx, tableName)
	if err != nil {
		return nil, nil, err
	}

	rows, err := in.client.DB().QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, notNull, pkOrdinal int
			name, rawType           string
			defaultVal              *string
		)
		if err := rows.Scan(&cid, &name, &rawType, &notNull, &defaultVal, &pkOrdinal); err != nil {
			return nil, nil, err
		}

		semantic := normalizeType(rawType)
		col := schema.ColumnDescriptor{
			Name: name,
			Type: semantic,
			Settings: schema.ColumnSettings{
				Nullable: notNull == 0 && pkOrdinal == 0,
			},
		}
		if len(pk) == 1 && pkOrdinal > 0 {
			col.Settings.PrimaryKey = true
			// An integer primary key aliases the rowid and auto-assigns.
			if semantic == "integer" || semantic == "int" {
				col.Settings.Increment = true
			}
		}
		if defaultVal != nil {
			col.Settings.Default = classifyDefault(*defaultVal)
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

	indexes, uniqueCols, err := in.indexes(ctx, tableName)
	if err != nil {
		return nil, nil, err
	}
	table.Indexes = append(table.Indexes, indexes...)

	return table, uniqueCols, nil
}

// primaryKey returns the table's primary-key columns in key order.
func (in *SQLiteIntrospector) primaryKey(ctx context.Context, tableName string) ([]string, error) {
	if pk, ok := in.pkCache[tableName]; ok {
		return pk, nil
	}
	rows, err := in.client.DB().QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// pkOrdinal is 1-based key position; collect then order.
	byOrdinal := make(map[int]string)
	maxOrdinal := 0
	for rows.Next() {
		var (
			cid, notNull, pkOrdinal int
			name, rawType           string
			defaultVal              *string
		)
		if err := rows.Scan(&cid, &name, &rawType, &notNull, &defaultVal, &pkOrdinal); err != nil {
			return nil, err
		}
		if pkOrdinal > 0 {
			byOrdinal[pkOrdinal] = name
			if pkOrdinal > maxOrdinal {
				maxOrdinal = pkOrdinal
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var pk []string
	for i := 1; i <= maxOrdinal; i++ {
		if name, ok := byOrdinal[i]; ok {
			pk = append(pk, name)
		}
	}
	in.pkCache[tableName] = pk
	return pk, nil
}

// indexes reads the table's secondary indexes. Unique constraints declared in
// the table definition surface as single-column unique sets; explicitly
// created indexes surface as index descriptors.
func (in *SQLiteIntrospector) indexes(ctx context.Context, tableName string) ([]schema.IndexDescriptor, map[string]bool, error) {
	rows, err := in.client.DB().QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%q)", tableName))
	if err != nil {
		return nil, nil, err
	}

	type indexMeta struct {
		name   string
		unique bool
		origin string
	}
	var metas []indexMeta
	for rows.Next() {
		var (
			seq, unique, partial int
			name, origin         string
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, nil, err
		}
		metas = append(metas, indexMeta{name: name, unique: unique == 1, origin: origin})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, err
	}
	rows.Close()

	var indexes []schema.IndexDescriptor
	uniqueCols := make(map[string]bool)
	for _, meta := range metas {
		if meta.origin == "pk" {
			continue
		}
		columns, err := in.indexColumns(ctx, meta.name)
		if err != nil {
			return nil, nil, err
		}
		if meta.unique && len(columns) == 1 {
			uniqueCols[columns[0]] = true
		}
		indexes = append(indexes, schema.IndexDescriptor{
			Name:    meta.name,
			Columns: columns,
			Unique:  meta.unique,
		})
	}
	return indexes, uniqueCols, nil
}

func (in *SQLiteIntrospector) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	rows, err := in.client.DB().QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%q)", indexName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name *string
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		if name != nil {
			columns = append(columns, *name)
		}
	}
	return columns, rows.Err()
}

func (in *SQLiteIntrospector) foreignKeys(ctx context.Context, tableName string, uniqueCols map[string]bool) ([]schema.RelationDescriptor, error) {
	rows, err := in.client.DB().QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", tableName))
	if err != nil {
		return nil, err
	}

	type fkRow struct {
		id                 int
		table, from        string
		to                 *string
		onUpdate, onDelete string
	}
	var fkRows []fkRow
	for rows.Next() {
		var r fkRow
		var seq int
		var match string
		if err := rows.Scan(&r.id, &seq, &r.table, &r.from, &r.to, &r.onUpdate, &r.onDelete, &match); err != nil {
			rows.Close()
			return nil, err
		}
		fkRows = append(fkRows, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var order []int
	grouped := make(map[int]*schema.RelationDescriptor)
	for _, r := range fkRows {
		rel, ok := grouped[r.id]
		if !ok {
			rel = &schema.RelationDescriptor{
				Source: schema.RelationSource{
					Endpoint: schema.Endpoint{Table: tableName},
					Inferred: true,
				},
				Target:   schema.Endpoint{Table: r.table},
				OnDelete: actionFromRule(r.onDelete),
				OnUpdate: actionFromRule(r.onUpdate),
			}
			grouped[r.id] = rel
			order = append(order, r.id)
		}
		rel.Source.Endpoint.Compositions = append(rel.Source.Endpoint.Compositions, r.from)
		// A foreign key may omit the referenced column, meaning the target's
		// primary key.
		target := ""
		if r.to != nil {
			target = *r.to
		} else {
			pk, err := in.primaryKey(ctx, r.table)
			if err != nil {
				return nil, err
			}
			if len(pk) > 0 {
				target = pk[0]
			}
		}
		rel.Target.Compositions = append(rel.Target.Compositions, target)
	}

	var relations []schema.RelationDescriptor
	for _, id := range order {
		rel := grouped[id]
		src := rel.Source.Endpoint.Compositions
		rel.Kind = relationKind(len(src) == 1 && uniqueCols[src[0]])
		relations = append(relations, *rel)
	}
	return relations, nil
}
