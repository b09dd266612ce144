package duckdb_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"rlsummary/internal/analysis"
	"rlsummary/internal/duckdb/testing"
	"rlsummary/internal/runs"
	"rlsummary/internal/testutil"
)

const (
	testTimeout = 5 * time.Second
)

// openTestDB opens an in-memory DuckDB instance with the schema applied.
func openTestDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx := testutil.Context(t, testTimeout)
	db := duckdbtesting.Open(t, ":memory:")
	duckdbtesting.ApplySchema(t, db)
	return db, ctx
}

// queryInt returns a single integer value from the database.
func queryInt(t *testing.T, ctx context.Context, db *sql.DB, query string, args ...interface{}) int {
	t.Helper()
	var out int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&out); err != nil {
		t.Fatalf("query int failed: %v", err)
	}
	return out
}

// constantRun builds a run with n identical episodes.
func constantRun(source, algorithm string, n int, reward float64, reached bool) runs.Run {
	episodes := make([]runs.Episode, n)
	for i := range episodes {
		episodes[i] = runs.Episode{Number: i + 1, Reward: reward, Steps: 12, Reached: reached}
	}
	run := runs.NewRun(source, algorithm, episodes)
	run.Params = runs.Hyperparameters{Alpha: "0.1", Gamma: "0.99"}
	return run
}

// sampleAnalysis returns two aggregated groups: Q converges, SARSA does not.
func sampleAnalysis(t *testing.T) ([]runs.Group, []analysis.Result) {
	t.Helper()
	groups := runs.GroupByAlgorithm([]runs.Run{
		constantRun("run-1.csv", "Q", 30, 5, true),
		constantRun("run-2.csv", "Q", 25, 5, true),
		constantRun("run-3.csv", "SARSA", 10, 0, false),
	})
	results, err := analysis.AggregateAll(groups)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	return groups, results
}
