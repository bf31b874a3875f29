// Package db writes the region results to a relational database.
//
// Every export replaces the content of the target table inside one
// transaction, so a reader never sees a partially written result.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tordrt/refmap/internal/schema"
)

// Table columns, in insertion order
var resultColumns = []string{
	"code_reg",
	"name_reg",
	"registered",
	"abstentions",
	"null_ballots",
	"choice_a",
	"choice_b",
	"ratio",
}

// Exporter writes map records to a table
type Exporter interface {
	Export(ctx context.Context, table string, records []schema.MapRecord) error
}

// Export connects to databaseURL and replaces the rows of table with records
func Export(ctx context.Context, databaseURL, table string, records []schema.MapRecord) error {
	if err := ValidateTableName(table); err != nil {
		return err
	}

	driver, connString, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return err
	}

	log.Debug().
		Str("driver", string(driver)).
		Str("table", table).
		Int("rows", len(records)).
		Msg("exporting results")

	switch driver {
	case DriverPostgres:
		client, err := NewPostgresClient(ctx, connString)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		defer func() {
			if err := client.Close(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to close PostgreSQL connection")
			}
		}()
		return NewPostgresExporter(client).Export(ctx, table, records)

	case DriverMySQL:
		client, err := NewMySQLClient(ctx, connString)
		if err != nil {
			return fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		defer closeClient(client, "MySQL")
		return NewMySQLExporter(client).Export(ctx, table, records)

	case DriverSQLite:
		client, err := NewSQLiteClient(ctx, connString)
		if err != nil {
			return fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		defer closeClient(client, "SQLite")
		return NewSQLiteExporter(client).Export(ctx, table, records)
	}

	return fmt.Errorf("unsupported driver: %s", driver)
}

func closeClient(c interface{ Close() error }, name string) {
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msgf("failed to close %s connection", name)
	}
}

// nullableRatio maps an undefined ratio to SQL NULL
func nullableRatio(rec schema.MapRecord) sql.NullFloat64 {
	if !rec.HasRatio() {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: rec.Ratio, Valid: true}
}

func recordValues(rec schema.MapRecord) []any {
	v := rec.Votes
	return []any{
		rec.RegionCode,
		rec.RegionName,
		v.Registered,
		v.Abstentions,
		v.Null,
		v.ChoiceA,
		v.ChoiceB,
		nullableRatio(rec),
	}
}

// sqlDialect holds what differs between the database/sql backends
type sqlDialect struct {
	name        string
	quote       func(ident string) string
	createTable func(table string) string
}

// sqlExporter exports through database/sql with '?' placeholders
type sqlExporter struct {
	db      *sql.DB
	dialect sqlDialect
}

func (e *sqlExporter) Export(ctx context.Context, table string, records []schema.MapRecord) error {
	if err := ValidateTableName(table); err != nil {
		return err
	}

	// DDL stays outside the transaction: MySQL commits implicitly on CREATE TABLE
	if _, err := e.db.ExecContext(ctx, e.dialect.createTable(table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	quoted := e.dialect.quote(table)
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+quoted); err != nil {
		return fmt.Errorf("failed to clear table %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertStatement(quoted))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, recordValues(rec)...); err != nil {
			return fmt.Errorf("failed to insert region %s: %w", rec.RegionCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s export: %w", e.dialect.name, err)
	}
	return nil
}

func insertStatement(quotedTable string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(resultColumns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quotedTable, strings.Join(resultColumns, ", "), placeholders)
}
