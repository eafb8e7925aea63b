//go:build integration
// +build integration

package integration

import (
	"testing"

	"github.com/toredahl/seagen"
)

// verifyTablesExist checks that all expected tables are present in the block
func verifyTablesExist(t *testing.T, block *seagen.SchemaBlock, expectedTables []string) {
	t.Helper()

	if len(block.Tables) != len(expectedTables) {
		t.Errorf("Expected %d tables, got %d", len(expectedTables), len(block.Tables))
	}

	tableMap := make(map[string]bool)
	for _, table := range block.Tables {
		tableMap[table.Ident.Name] = true
	}

	for _, tableName := range expectedTables {
		if !tableMap[tableName] {
			t.Errorf("Expected table %s not found in schema", tableName)
		}
	}
}

// verifyColumns checks that expected columns exist in a table
func verifyColumns(t *testing.T, table *seagen.TableDescriptor, expectedColumns []string) {
	t.Helper()

	columnMap := make(map[string]bool)
	for _, col := range table.Columns {
		columnMap[col.Name] = true
	}

	for _, colName := range expectedColumns {
		if !columnMap[colName] {
			t.Errorf("Expected column %s not found in %s table", colName, table.Ident.Name)
		}
	}
}

// verifyPrimaryKey checks that a column carries the primary-key setting
func verifyPrimaryKey(t *testing.T, table *seagen.TableDescriptor, columnName string) {
	t.Helper()

	for _, col := range table.Columns {
		if col.Name == columnName {
			if !col.Settings.PrimaryKey {
				t.Errorf("Expected %s column of %s to be the primary key", columnName, table.Ident.Name)
			}
			return
		}
	}

	t.Errorf("Column %s not found in table %s", columnName, table.Ident.Name)
}

// verifyUniqueColumn checks that a column is unique by settings or by index
func verifyUniqueColumn(t *testing.T, table *seagen.TableDescriptor, columnName string) {
	t.Helper()

	for _, col := range table.Columns {
		if col.Name == columnName && col.Settings.Unique {
			return
		}
	}
	for _, idx := range table.Indexes {
		if idx.Unique && len(idx.Columns) == 1 && idx.Columns[0] == columnName {
			return
		}
	}

	t.Errorf("Expected %s column of %s to be unique", columnName, table.Ident.Name)
}

// verifyRelation checks that a relation exists between two tables
func verifyRelation(t *testing.T, block *seagen.SchemaBlock, sourceTable, sourceColumn, targetTable string) {
	t.Helper()

	for _, rel := range block.Relations {
		if rel.Source.Endpoint.Table != sourceTable || rel.Target.Table != targetTable {
			continue
		}
		for _, col := range rel.Source.Endpoint.Compositions {
			if col == sourceColumn {
				return
			}
		}
	}

	t.Errorf("Expected relation from %s.%s to %s not found", sourceTable, sourceColumn, targetTable)
}

// verifyIndex checks that an index exists with the expected columns
func verifyIndex(t *testing.T, table *seagen.TableDescriptor, indexName string, expectedColumns []string) {
	t.Helper()

	for _, idx := range table.Indexes {
		if idx.Name != indexName {
			continue
		}
		if len(idx.Columns) != len(expectedColumns) {
			t.Errorf("Expected index %s on %v, got %v", indexName, expectedColumns, idx.Columns)
			return
		}
		for i, col := range expectedColumns {
			if idx.Columns[i] != col {
				t.Errorf("Expected index %s on %v, got %v", indexName, expectedColumns, idx.Columns)
				return
			}
		}
		return
	}

	t.Errorf("Expected index %s on %s table not found", indexName, table.Ident.Name)
}

// findTable is a helper function to find a table by name in the block
func findTable(block *seagen.SchemaBlock, tableName string) *seagen.TableDescriptor {
	for i := range block.Tables {
		if block.Tables[i].Ident.Name == tableName {
			return &block.Tables[i]
		}
	}
	return nil
}
