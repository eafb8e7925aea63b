package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/toredahl/seagen"
)

// version is stamped at build time via -ldflags.
var version = "0.1.0"

var (
	schemaFile string
	dbURL      string
	mysqlURL   string
	sqlitePath string
	outputFile string
	tables     string
	schemaName string
	target     string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "seagen",
	Short: "Generate sea-orm entity modules from a database schema",
	Long: `seagen transpiles a resolved relational schema into sea-orm entity module
source code. The schema comes from a JSON/YAML schema file or is introspected
directly from a PostgreSQL, MySQL, or SQLite database.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&schemaFile, "schema-file", "", "Schema file (.json, .yaml, or .yml)")
	rootCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	rootCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	rootCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	rootCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL)")
	rootCmd.Flags().StringVar(&target, "target", "postgres", "Target dialect: postgres")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Every flag can also come from the environment: SEAGEN_DB_URL,
	// SEAGEN_SCHEMA_FILE, and so on.
	viper.SetEnvPrefix("seagen")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"schema-file", "db-url", "mysql-url", "sqlite", "output", "tables", "schema", "target"} {
		_ = viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	logger := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = dev
	}
	defer func() { _ = logger.Sync() }()

	schemaFile = viper.GetString("schema-file")
	dbURL = viper.GetString("db-url")
	mysqlURL = viper.GetString("mysql-url")
	sqlitePath = viper.GetString("sqlite")
	outputFile = viper.GetString("output")
	tables = viper.GetString("tables")
	schemaName = viper.GetString("schema")
	target = viper.GetString("target")

	// Validate input flags
	inputCount := 0
	for _, v := range []string{schemaFile, dbURL, mysqlURL, sqlitePath} {
		if v != "" {
			inputCount++
		}
	}
	if inputCount == 0 {
		return fmt.Errorf("one of --schema-file, --db-url, --mysql-url, or --sqlite must be specified")
	}
	if inputCount > 1 {
		return fmt.Errorf("only one of --schema-file, --db-url, --mysql-url, or --sqlite can be specified")
	}

	// Parse table list
	var tableList []string
	if tables != "" {
		tableList = strings.Split(tables, ",")
		for i, t := range tableList {
			tableList[i] = strings.TrimSpace(t)
		}
	}

	var block *seagen.SchemaBlock
	var err error

	if schemaFile != "" {
		logger.Debug("loading schema file", zap.String("path", schemaFile))
		block, err = seagen.LoadSchemaFile(schemaFile)
		if err != nil {
			return err
		}
	} else {
		databaseURL := dbURL
		if mysqlURL != "" {
			databaseURL = "mysql://" + strings.TrimPrefix(mysqlURL, "mysql://")
		}
		if sqlitePath != "" {
			databaseURL = "sqlite://" + sqlitePath
		}
		logger.Debug("introspecting database")
		block, err = seagen.IntrospectSchema(ctx, databaseURL, &seagen.IntrospectOptions{
			Tables:     tableList,
			SchemaName: schemaName,
		})
		if err != nil {
			return fmt.Errorf("failed to introspect schema: %w", err)
		}
	}

	logger.Debug("transpiling schema",
		zap.Int("tables", len(block.Tables)),
		zap.Int("enums", len(block.Enums)),
		zap.Int("relations", len(block.Relations)))

	opts := &seagen.Options{
		Target:  target,
		Tool:    "seagen",
		Version: version,
	}
	outOpts := &seagen.OutputOptions{OutputPath: outputFile}
	if outputFile == "" {
		outOpts = &seagen.OutputOptions{Writer: os.Stdout}
	}

	if err := seagen.Generate(block, opts, outOpts); err != nil {
		return fmt.Errorf("failed to generate entities: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
