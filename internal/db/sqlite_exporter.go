package db

import (
	"fmt"
	"strings"
)

// NewSQLiteExporter creates an exporter writing through an SQLite client
func NewSQLiteExporter(client *SQLiteClient) Exporter {
	return &sqlExporter{
		db: client.GetDB(),
		dialect: sqlDialect{
			name:  "SQLite",
			quote: quoteDouble,
			createTable: func(table string) string {
				return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	code_reg TEXT PRIMARY KEY,
	name_reg TEXT NOT NULL,
	registered INTEGER NOT NULL,
	abstentions INTEGER NOT NULL,
	null_ballots INTEGER NOT NULL,
	choice_a INTEGER NOT NULL,
	choice_b INTEGER NOT NULL,
	ratio REAL
)`, quoteDouble(table))
			},
		},
	}
}

// quoteDouble quotes an identifier the ANSI way
func quoteDouble(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
