package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pittawat/chatcore/internal"
	"github.com/spf13/cobra"
)

var inspectSampleRows int

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [database-path]",
	Short: "Inspect the session database schema and raw contents",
	Long: `Inspect the schema and raw contents of a chatcore session database.

This command provides detailed information about:
  • Database schema (tables, columns, types)
  • Raw stored session JSON per identity key
  • Usage log row counts

Examples:
  chatcore inspect                       # Inspect the configured database
  chatcore inspect /path/to/chatcore.db  # Inspect a specific database
  chatcore inspect --sample 5            # Show 5 sample rows per table`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dbPath
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			cfgPath := configPath
			if cfgPath == "" {
				cfgPath = internal.DefaultConfigPath()
			}
			cfg, err := internal.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			path = cfg.StoragePath
		}

		return inspectDatabase(path)
	},
}

func inspectDatabase(path string) error {
	backend, err := internal.OpenSQLiteBackend(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = backend.Close() }()
	db := backend.DB()

	tables, err := getTables(db)
	if err != nil {
		return fmt.Errorf("failed to get tables: %w", err)
	}

	fmt.Printf("📋 Database: %s\n", path)
	fmt.Printf("📊 Found %d table(s)\n\n", len(tables))

	for _, tableName := range tables {
		if err := inspectTable(db, tableName); err != nil {
			fmt.Printf("⚠️  Error inspecting table %s: %v\n", tableName, err)
			continue
		}
		fmt.Println()
	}

	return nil
}

func getTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func inspectTable(db *sql.DB, tableName string) error {
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("📦 Table: %s\n", tableName)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")

	var rowCount int
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)).Scan(&rowCount); err != nil {
		return fmt.Errorf("failed to get row count: %w", err)
	}
	fmt.Printf("📊 Rows: %d\n\n", rowCount)

	columns, err := getTableSchema(db, tableName)
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}

	fmt.Printf("📐 Schema:\n")
	for _, col := range columns {
		pk := ""
		if col.PrimaryKey {
			pk = " [PRIMARY KEY]"
		}
		notNull := ""
		if col.NotNull {
			notNull = " NOT NULL"
		}
		fmt.Printf("  • %s: %s%s%s\n", col.Name, col.Type, notNull, pk)
	}
	fmt.Println()

	if rowCount > 0 && inspectSampleRows > 0 {
		if err := showSampleData(db, tableName, columns, inspectSampleRows); err != nil {
			fmt.Printf("⚠️  Error showing sample data: %v\n", err)
		}
	}

	return nil
}

type columnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

func getTableSchema(db *sql.DB, tableName string) ([]columnInfo, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []columnInfo
	for rows.Next() {
		var col columnInfo
		var cid int
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			continue
		}
		col.NotNull = notNull == 1
		col.PrimaryKey = pk == 1
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func showSampleData(db *sql.DB, tableName string, columns []columnInfo, limit int) error {
	if len(columns) == 0 {
		return nil
	}

	colNames := make([]string, len(columns))
	for i, col := range columns {
		colNames[i] = col.Name
	}

	query := fmt.Sprintf("SELECT %s FROM %s LIMIT %d", strings.Join(colNames, ", "), tableName, limit)
	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	fmt.Printf("📄 Sample Data (first %d rows):\n", limit)
	rowNum := 0
	for rows.Next() {
		rowNum++
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			fmt.Printf("  ⚠️  Row %d: error scanning: %v\n", rowNum, err)
			continue
		}

		fmt.Printf("\n  Row %d:\n", rowNum)
		for i, col := range columns {
			val := values[i]
			var valStr string
			if val == nil {
				valStr = "<NULL>"
			} else {
				valStr = fmt.Sprintf("%v", val)

				// Session lists are stored as one JSON array per key;
				// pretty-print them instead of dumping one long line.
				if tableName == "chatstore" && col.Name == "value" && valStr != "" {
					var sessions []internal.Session
					if json.Unmarshal([]byte(valStr), &sessions) == nil {
						if pretty, err := json.MarshalIndent(sessions, "      ", "  "); err == nil {
							fmt.Printf("    %s (session JSON):\n      %s\n", col.Name, string(pretty))
							continue
						}
					}
				}

				if len(valStr) > 200 {
					valStr = valStr[:200] + "..."
				}
				if strings.Contains(valStr, "\n") {
					valStr = strings.Split(valStr, "\n")[0] + "..."
				}
			}
			fmt.Printf("    %s: %s\n", col.Name, valStr)
		}
	}

	return rows.Err()
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample", 3, "Number of sample rows to show")
}
