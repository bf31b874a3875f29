package db

import (
	"context"
	"database/sql"
	"math"
	"testing"

	"github.com/tordrt/refmap/internal/schema"
)

func testRecords() []schema.MapRecord {
	return []schema.MapRecord{
		{
			RegionResult: schema.RegionResult{
				RegionCode: "84",
				RegionName: "Auvergne-Rhône-Alpes",
				Votes:      schema.VoteCounts{Registered: 100, Abstentions: 20, Null: 5, ChoiceA: 40, ChoiceB: 35},
			},
			Ratio: 40.0 / 75.0,
		},
		{
			RegionResult: schema.RegionResult{
				RegionCode: "94",
				RegionName: "Corse",
				Votes:      schema.VoteCounts{Registered: 12, Abstentions: 12},
			},
			Ratio: math.NaN(),
		},
	}
}

type exportedRow struct {
	code       string
	registered int64
	ratio      sql.NullFloat64
}

// readExported runs query and scans code, registered and ratio columns
func readExported(t *testing.T, ctx context.Context, db *sql.DB, query string) []exportedRow {
	t.Helper()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		t.Fatalf("Failed to query exported rows: %v", err)
	}
	defer rows.Close()

	var out []exportedRow
	for rows.Next() {
		var r exportedRow
		if err := rows.Scan(&r.code, &r.registered, &r.ratio); err != nil {
			t.Fatalf("Failed to scan row: %v", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Row iteration failed: %v", err)
	}
	return out
}

// verifyExported checks the rows written from testRecords
func verifyExported(t *testing.T, rows []exportedRow) {
	t.Helper()

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].code != "84" || rows[0].registered != 100 {
		t.Errorf("Unexpected first row: %+v", rows[0])
	}
	if !rows[0].ratio.Valid || math.Abs(rows[0].ratio.Float64-40.0/75.0) > 1e-9 {
		t.Errorf("Expected ratio %.4f, got %+v", 40.0/75.0, rows[0].ratio)
	}
	if rows[1].code != "94" || rows[1].ratio.Valid {
		t.Errorf("Expected NULL ratio for region 94, got %+v", rows[1])
	}
}
