package repository

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	started_at   TIMESTAMP NOT NULL,
	finished_at  TIMESTAMP,
	documents    INTEGER NOT NULL DEFAULT 0,
	red          INTEGER NOT NULL DEFAULT 0,
	yellow       INTEGER NOT NULL DEFAULT 0,
	green        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS verdicts (
	document_id  TEXT PRIMARY KEY,
	run_id       TEXT NOT NULL REFERENCES runs(run_id),
	name         TEXT NOT NULL,
	overall_flag TEXT NOT NULL,
	elapsed_ms   INTEGER NOT NULL,
	created_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS criterion_results (
	document_id   TEXT NOT NULL REFERENCES verdicts(document_id),
	criterion_id  INTEGER NOT NULL,
	name          TEXT NOT NULL,
	severity      TEXT NOT NULL,
	flag          TEXT NOT NULL,
	confidence    REAL NOT NULL,
	phrase        TEXT,
	location      INTEGER NOT NULL,
	detail        TEXT,
	PRIMARY KEY (document_id, criterion_id)
);

CREATE TABLE IF NOT EXISTS page_verdicts (
	document_id  TEXT NOT NULL REFERENCES verdicts(document_id),
	page_index   INTEGER NOT NULL,
	status       TEXT NOT NULL,
	confidence   REAL NOT NULL,
	reason       TEXT,
	fallback     INTEGER NOT NULL,
	PRIMARY KEY (document_id, page_index)
);

CREATE TABLE IF NOT EXISTS fuzzy_scores (
	run_id       TEXT NOT NULL,
	criterion_id INTEGER NOT NULL,
	tier         TEXT NOT NULL,
	score        REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fuzzy_scores_criterion ON fuzzy_scores(run_id, criterion_id);
`
