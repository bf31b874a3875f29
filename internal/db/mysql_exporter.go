package db

import (
	"fmt"
	"strings"
)

// NewMySQLExporter creates an exporter writing through a MySQL client
func NewMySQLExporter(client *MySQLClient) Exporter {
	return &sqlExporter{
		db: client.GetDB(),
		dialect: sqlDialect{
			name:  "MySQL",
			quote: quoteBacktick,
			createTable: func(table string) string {
				return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s ("+
					"code_reg VARCHAR(16) NOT NULL PRIMARY KEY, "+
					"name_reg VARCHAR(255) NOT NULL, "+
					"registered BIGINT NOT NULL, "+
					"abstentions BIGINT NOT NULL, "+
					"null_ballots BIGINT NOT NULL, "+
					"choice_a BIGINT NOT NULL, "+
					"choice_b BIGINT NOT NULL, "+
					"ratio DOUBLE NULL"+
					") DEFAULT CHARSET=utf8mb4", quoteBacktick(table))
			},
		},
	}
}

func quoteBacktick(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}
