package db

import (
	"fmt"
	"time"
)

// AnalysisReport records one generated analysis artifact (plot, export)
// so runs can be listed and their files found later.
type AnalysisReport struct {
	ID        int       `json:"id"`
	RunID     string    `json:"run_id"` // uuid of the generation run
	Kind      string    `json:"kind"`   // e.g. "fraud_trend", "mean_comparison"
	Params    string    `json:"params"` // human-readable parameter summary
	Filepath  string    `json:"filepath"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateAnalysisReport inserts a report record and fills in its ID.
func (db *DB) CreateAnalysisReport(report *AnalysisReport) error {
	result, err := db.Exec(
		`INSERT INTO analysis_reports (run_id, kind, params, filepath) VALUES (?, ?, ?, ?)`,
		report.RunID, report.Kind, report.Params, report.Filepath,
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis report: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	report.ID = int(id)
	return nil
}

// ListAnalysisReports returns report records, newest first, up to limit
// (all when limit <= 0).
func (db *DB) ListAnalysisReports(limit int) ([]AnalysisReport, error) {
	query := `SELECT id, run_id, kind, params, filepath, created_at
		FROM analysis_reports ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []AnalysisReport
	for rows.Next() {
		var r AnalysisReport
		if err := rows.Scan(&r.ID, &r.RunID, &r.Kind, &r.Params, &r.Filepath, &r.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}
