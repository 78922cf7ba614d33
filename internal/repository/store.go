// Package repository persists screening runs, verdicts, and calibration
// scores in a local SQLite database.
package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/common"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
)

// Store wraps the SQLite handle. It implements the engine's score recorder
// and the queue's verdict sink.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	mu    sync.Mutex
	runID uuid.UUID
}

// Open opens or creates the database at path and ensures the schema.
// The driver serializes access through a single connection.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.NewAppError("INTERNAL_ERROR", "failed to open database", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, common.NewAppError("INTERNAL_ERROR", "failed to enable foreign keys", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, common.NewAppError("INTERNAL_ERROR", "failed to initialize schema", err)
	}

	logger.Info("repository.open", "path", path)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records the start of a screening run and makes it the target
// for subsequent verdicts and scores.
func (s *Store) BeginRun(ctx context.Context) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at) VALUES (?, ?)`,
		id.String(), time.Now().UTC(),
	)
	if err != nil {
		return uuid.Nil, common.NewAppError("INTERNAL_ERROR", "failed to record run start", err)
	}
	s.mu.Lock()
	s.runID = id
	s.mu.Unlock()
	return id, nil
}

// FinishRun stamps the run's end time and its flag tally.
func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET
			finished_at = ?,
			documents = (SELECT COUNT(*) FROM verdicts WHERE run_id = ?),
			red       = (SELECT COUNT(*) FROM verdicts WHERE run_id = ? AND overall_flag = ?),
			yellow    = (SELECT COUNT(*) FROM verdicts WHERE run_id = ? AND overall_flag = ?),
			green     = (SELECT COUNT(*) FROM verdicts WHERE run_id = ? AND overall_flag = ?)
		WHERE run_id = ?`,
		time.Now().UTC(),
		runID.String(),
		runID.String(), string(constants.FlagRed),
		runID.String(), string(constants.FlagYellow),
		runID.String(), string(constants.FlagGreen),
		runID.String(),
	)
	if err != nil {
		return common.NewAppError("INTERNAL_ERROR", "failed to record run end", err)
	}
	return nil
}

// Put persists one document verdict with its criterion results and page
// audit log. Implements the queue's VerdictSink.
func (s *Store) Put(ctx context.Context, runID uuid.UUID, v entity.DocumentVerdict) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewAppError("INTERNAL_ERROR", "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO verdicts (document_id, run_id, name, overall_flag, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		v.DocumentID.String(), runID.String(), v.Name, string(v.Overall),
		v.Elapsed.Milliseconds(), time.Now().UTC(),
	)
	if err != nil {
		return common.NewAppError("INTERNAL_ERROR", "failed to insert verdict", err)
	}

	for _, r := range v.Criteria {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO criterion_results
			 (document_id, criterion_id, name, severity, flag, confidence, phrase, location, detail)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.DocumentID.String(), r.CriterionID, r.Name, string(r.Severity), string(r.Flag),
			r.Confidence, r.Evidence.Phrase, r.Evidence.Location, r.Evidence.Detail,
		)
		if err != nil {
			return common.NewAppError("INTERNAL_ERROR", "failed to insert criterion result", err)
		}
	}

	for _, p := range v.Pages {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO page_verdicts (document_id, page_index, status, confidence, reason, fallback)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			v.DocumentID.String(), p.PageIndex, string(p.Status), p.Confidence, p.Reason, p.Fallback,
		)
		if err != nil {
			return common.NewAppError("INTERNAL_ERROR", "failed to insert page verdict", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return common.NewAppError("INTERNAL_ERROR", "failed to commit verdict", err)
	}
	s.logger.Debug("repository.verdict.ok", "document_id", v.DocumentID, "overall", string(v.Overall))
	return nil
}

// Record appends one fuzzy tier score for threshold calibration.
// Implements the engine's ScoreRecorder; errors are logged, not surfaced,
// so a calibration hiccup never fails a document.
func (s *Store) Record(criterionID int, tier string, score float64) {
	s.mu.Lock()
	runID := s.runID
	s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO fuzzy_scores (run_id, criterion_id, tier, score) VALUES (?, ?, ?, ?)`,
		runID.String(), criterionID, tier, score,
	)
	if err != nil {
		s.logger.Warn("repository.score.failed", "criterion_id", criterionID, "error", err)
	}
}

// RunSummary is the persisted outcome of one run.
type RunSummary struct {
	RunID     uuid.UUID
	Documents int
	Red       int
	Yellow    int
	Green     int
}

func (s *Store) Summary(ctx context.Context, runID uuid.UUID) (RunSummary, error) {
	var out RunSummary
	out.RunID = runID
	err := s.db.QueryRowContext(ctx,
		`SELECT documents, red, yellow, green FROM runs WHERE run_id = ?`,
		runID.String(),
	).Scan(&out.Documents, &out.Red, &out.Yellow, &out.Green)
	if err == sql.ErrNoRows {
		return out, common.NewAppError("NOT_FOUND", "run not found", common.ErrNotFound)
	}
	if err != nil {
		return out, common.NewAppError("INTERNAL_ERROR", "failed to load run summary", err)
	}
	return out, nil
}
