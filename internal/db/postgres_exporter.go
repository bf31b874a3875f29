package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tordrt/refmap/internal/schema"
)

// PostgresExporter bulk loads the results with COPY
type PostgresExporter struct {
	client *PostgresClient
}

// NewPostgresExporter creates a new PostgreSQL exporter
func NewPostgresExporter(client *PostgresClient) *PostgresExporter {
	return &PostgresExporter{client: client}
}

// Export replaces the rows of table with records in a single transaction
func (e *PostgresExporter) Export(ctx context.Context, table string, records []schema.MapRecord) error {
	if err := ValidateTableName(table); err != nil {
		return err
	}

	tx, err := e.client.GetConnection().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	quoted := pgx.Identifier{table}.Sanitize()
	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	code_reg TEXT PRIMARY KEY,
	name_reg TEXT NOT NULL,
	registered BIGINT NOT NULL,
	abstentions BIGINT NOT NULL,
	null_ballots BIGINT NOT NULL,
	choice_a BIGINT NOT NULL,
	choice_b BIGINT NOT NULL,
	ratio DOUBLE PRECISION
)`, quoted)
	if _, err := tx.Exec(ctx, create); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM "+quoted); err != nil {
		return fmt.Errorf("failed to clear table %s: %w", table, err)
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = postgresValues(rec)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, resultColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy rows into %s: %w", table, err)
	}
	if int(n) != len(records) {
		return fmt.Errorf("copied %d rows into %s, expected %d", n, table, len(records))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit PostgreSQL export: %w", err)
	}
	return nil
}

// postgresValues uses a nil pointer for an undefined ratio, which COPY writes as NULL
func postgresValues(rec schema.MapRecord) []any {
	var ratio *float64
	if rec.HasRatio() {
		r := rec.Ratio
		ratio = &r
	}
	v := rec.Votes
	return []any{rec.RegionCode, rec.RegionName, v.Registered, v.Abstentions, v.Null, v.ChoiceA, v.ChoiceB, ratio}
}
