package duckdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"rlsummary/internal/analysis"
	"rlsummary/internal/runs"
)

// AnalysisMeta describes where an analysis read its input from.
type AnalysisMeta struct {
	ResultsDir string
	Pattern    string
}

// InputKey returns a deterministic fingerprint of the grouped input files,
// so repeated exports of the same inputs can be recognized.
func InputKey(groups []runs.Group) (string, error) {
	type entry struct {
		Algorithm string   `json:"algorithm"`
		Sources   []string `json:"sources"`
	}
	payload := make([]entry, 0, len(groups))
	for _, group := range groups {
		e := entry{Algorithm: group.Algorithm, Sources: make([]string, 0, len(group.Runs))}
		for _, run := range group.Runs {
			e.Sources = append(e.Sources, run.Source)
		}
		payload = append(payload, e)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode input key: %w", err)
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// ExportAnalysis appends one analysis to db inside a single transaction and
// returns its id. groups and results must be index-aligned, as produced by
// runs.GroupByAlgorithm and analysis.AggregateAll.
func ExportAnalysis(ctx context.Context, db *sql.DB, meta AnalysisMeta, groups []runs.Group, results []analysis.Result) (string, error) {
	if ctx == nil {
		return "", errors.New("duckdb: context is nil")
	}
	if db == nil {
		return "", errors.New("duckdb: db is nil")
	}
	if len(groups) != len(results) {
		return "", fmt.Errorf("duckdb: %d groups but %d results", len(groups), len(results))
	}
	for i := range groups {
		if groups[i].Algorithm != results[i].Summary.Algorithm || len(groups[i].Runs) != len(results[i].Runs) {
			return "", fmt.Errorf("duckdb: group %d does not match its result", i)
		}
	}
	key, err := InputKey(groups)
	if err != nil {
		return "", err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin export: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	analysisID := uuid.NewString()
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO analyses (
		  analysis_id, input_key, results_dir, pattern, window_size,
		  success_threshold, reward_std_threshold, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, now())`,
		analysisID,
		key,
		meta.ResultsDir,
		meta.Pattern,
		analysis.Window,
		analysis.SuccessThreshold,
		analysis.RewardStdThreshold,
	); err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}

	for i, result := range results {
		if err := insertRuns(ctx, tx, analysisID, groups[i], result); err != nil {
			return "", err
		}
		if err := insertCurves(ctx, tx, analysisID, result); err != nil {
			return "", err
		}
		if err := insertSummary(ctx, tx, analysisID, i, result); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit export: %w", err)
	}
	return analysisID, nil
}

func insertRuns(ctx context.Context, tx *sql.Tx, analysisID string, group runs.Group, result analysis.Result) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO runs (
	  run_id, analysis_id, algorithm, source, max_episode, declared_episodes,
	  alpha, gamma, epsilon, success_rate_last_window, convergence_episode
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare runs: %w", err)
	}
	defer stmt.Close()

	for i, run := range group.Runs {
		detail := result.Runs[i]
		var convergence sql.NullInt64
		if detail.Converged {
			convergence = sql.NullInt64{Int64: int64(detail.ConvergenceEpisode), Valid: true}
		}
		if _, err := stmt.ExecContext(
			ctx,
			uuid.NewString(),
			analysisID,
			group.Algorithm,
			run.Source,
			run.MaxEpisode(),
			run.DeclaredEpisodes,
			nullableString(run.Params.Alpha),
			nullableString(run.Params.Gamma),
			nullableString(run.Params.Epsilon),
			detail.SuccessRate,
			convergence,
		); err != nil {
			return fmt.Errorf("insert run %s: %w", run.Source, err)
		}
	}
	return nil
}

func insertCurves(ctx context.Context, tx *sql.Tx, analysisID string, result analysis.Result) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO curves (
	  analysis_id, algorithm, episode, mean_reward, std_reward, mean_steps, std_steps
	) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare curves: %w", err)
	}
	defer stmt.Close()

	c := result.Curves
	for i := range c.Episodes {
		if _, err := stmt.ExecContext(
			ctx,
			analysisID,
			result.Summary.Algorithm,
			int(c.Episodes[i]),
			c.MeanReward[i],
			c.StdReward[i],
			c.MeanSteps[i],
			c.StdSteps[i],
		); err != nil {
			return fmt.Errorf("insert curve %s episode %d: %w", result.Summary.Algorithm, i+1, err)
		}
	}
	return nil
}

func insertSummary(ctx context.Context, tx *sql.Tx, analysisID string, index int, result analysis.Result) error {
	s := result.Summary
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO summaries (
		  analysis_id, group_index, algorithm, runs, episodes_used, window_size,
		  mean_reward_last_window, std_reward_last_window, mean_steps_last_window,
		  success_rate_last_window_mean, mean_convergence_episode,
		  std_convergence_episode, runs_converged
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		analysisID,
		index,
		s.Algorithm,
		s.Runs,
		s.EpisodesUsed,
		result.Window,
		s.MeanRewardLastWindow,
		s.StdRewardLastWindow,
		s.MeanStepsLastWindow,
		s.SuccessRateLastWindowMean,
		s.MeanConvergenceEpisode,
		s.StdConvergenceEpisode,
		s.RunsConverged,
	); err != nil {
		return fmt.Errorf("insert summary %s: %w", s.Algorithm, err)
	}
	return nil
}

// LoadSummaries reads the summary rows of one analysis in group order.
func LoadSummaries(ctx context.Context, db *sql.DB, analysisID string) ([]analysis.Summary, error) {
	rows, err := db.QueryContext(
		ctx,
		`SELECT algorithm, runs, episodes_used, mean_reward_last_window,
		  std_reward_last_window, mean_steps_last_window,
		  success_rate_last_window_mean, mean_convergence_episode,
		  std_convergence_episode, runs_converged
		FROM summaries
		WHERE CAST(analysis_id AS VARCHAR) = ?
		ORDER BY group_index`,
		analysisID,
	)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []analysis.Summary
	for rows.Next() {
		var s analysis.Summary
		if err := rows.Scan(
			&s.Algorithm,
			&s.Runs,
			&s.EpisodesUsed,
			&s.MeanRewardLastWindow,
			&s.StdRewardLastWindow,
			&s.MeanStepsLastWindow,
			&s.SuccessRateLastWindowMean,
			&s.MeanConvergenceEpisode,
			&s.StdConvergenceEpisode,
			&s.RunsConverged,
		); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read summaries: %w", err)
	}
	return out, nil
}

// nullableString maps an empty string to SQL NULL.
func nullableString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
