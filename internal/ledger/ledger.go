// Package ledger is the durable audit trail of consensus rounds and
// partition recoveries, stored in SQLite.
package ledger

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by lookups for unknown ids.
var ErrNotFound = errors.New("ledger: not found")

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS rounds (
	id              TEXT PRIMARY KEY,
	consensus_type  TEXT NOT NULL,
	peer_count      INTEGER NOT NULL,
	threshold       REAL NOT NULL,
	max_steps       INTEGER NOT NULL,
	valid           INTEGER NOT NULL,
	steps           INTEGER NOT NULL,
	state_vector    BLOB,
	proof           TEXT,
	elapsed_ns      INTEGER NOT NULL,
	error           TEXT,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS round_steps (
	round_id   TEXT NOT NULL,
	step       INTEGER NOT NULL,
	form       TEXT NOT NULL,
	agreement  REAL NOT NULL,
	acyclic    INTEGER NOT NULL,
	action     TEXT NOT NULL,
	reason     TEXT,
	PRIMARY KEY (round_id, step),
	FOREIGN KEY (round_id) REFERENCES rounds(id)
);

CREATE TABLE IF NOT EXISTS recoveries (
	id                 TEXT PRIMARY KEY,
	strategy           TEXT NOT NULL,
	success            INTEGER NOT NULL,
	steps              INTEGER NOT NULL,
	message            TEXT,
	partitions_before  INTEGER NOT NULL,
	partitions_after   INTEGER NOT NULL,
	created_at         TEXT NOT NULL
);
`
// #endregion schema

// #region ledger-struct
// Ledger records rounds and recoveries in SQLite.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}
// #endregion ledger-struct

// #region constructor
// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Ledger{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}
// #endregion constructor

// #region record-round
// RecordRound inserts a round and its step trace in one transaction and
// returns the round id. A missing ID or CreatedAt is filled in.
func (l *Ledger) RecordRound(rec RoundRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = l.now()
	}

	var vec interface{}
	if rec.State != nil {
		vec = encodeVector(rec.State)
	}

	tx, err := l.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO rounds (id, consensus_type, peer_count, threshold, max_steps, valid, steps,
		                     state_vector, proof, elapsed_ns, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ConsensusType, rec.PeerCount, rec.Threshold, rec.MaxSteps, rec.Valid, rec.Steps,
		vec, nullIfEmpty(rec.Proof), rec.Elapsed.Nanoseconds(), nullIfEmpty(rec.Error),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert round: %w", err)
	}

	for _, s := range rec.Trace {
		_, err = tx.Exec(
			`INSERT INTO round_steps (round_id, step, form, agreement, acyclic, action, reason)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, s.Step, s.Form, s.Agreement, s.Acyclic, s.Action, nullIfEmpty(s.Reason),
		)
		if err != nil {
			return "", fmt.Errorf("insert step %d: %w", s.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return rec.ID, nil
}
// #endregion record-round

// #region record-recovery
// RecordRecovery inserts a recovery attempt and returns its id.
func (l *Ledger) RecordRecovery(rec RecoveryRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = l.now()
	}
	_, err := l.db.Exec(
		`INSERT INTO recoveries (id, strategy, success, steps, message, partitions_before, partitions_after, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Strategy, rec.Success, rec.Steps, nullIfEmpty(rec.Message),
		rec.PartitionsBefore, rec.PartitionsAfter, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert recovery: %w", err)
	}
	return rec.ID, nil
}
// #endregion record-recovery

// #region queries
const roundColumns = `id, consensus_type, peer_count, threshold, max_steps, valid, steps,
	state_vector, proof, elapsed_ns, error, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRound(row scanner) (RoundRecord, error) {
	var rec RoundRecord
	var vecBlob []byte
	var proof, errText sql.NullString
	var elapsed int64
	var createdStr string

	err := row.Scan(&rec.ID, &rec.ConsensusType, &rec.PeerCount, &rec.Threshold, &rec.MaxSteps,
		&rec.Valid, &rec.Steps, &vecBlob, &proof, &elapsed, &errText, &createdStr)
	if err != nil {
		return RoundRecord{}, err
	}
	if vecBlob != nil {
		rec.State = decodeVector(vecBlob)
	}
	rec.Proof = proof.String
	rec.Error = errText.String
	rec.Elapsed = time.Duration(elapsed)
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// Round returns a round with its step trace.
func (l *Ledger) Round(id string) (RoundRecord, error) {
	rec, err := scanRound(l.db.QueryRow(`SELECT `+roundColumns+` FROM rounds WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return RoundRecord{}, fmt.Errorf("round %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return RoundRecord{}, fmt.Errorf("get round %s: %w", id, err)
	}
	if rec.Trace, err = l.RoundSteps(id); err != nil {
		return RoundRecord{}, err
	}
	return rec, nil
}

// RecentRounds returns up to limit rounds, newest first, without traces.
func (l *Ledger) RecentRounds(limit int) ([]RoundRecord, error) {
	rows, err := l.db.Query(
		`SELECT `+roundColumns+` FROM rounds ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var records []RoundRecord
	for rows.Next() {
		rec, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RoundSteps returns the step trace of a round in step order.
func (l *Ledger) RoundSteps(roundID string) ([]StepRecord, error) {
	rows, err := l.db.Query(
		`SELECT step, form, agreement, acyclic, action, reason
		 FROM round_steps WHERE round_id = ? ORDER BY step`, roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	defer rows.Close()

	var steps []StepRecord
	for rows.Next() {
		var s StepRecord
		var reason sql.NullString
		if err := rows.Scan(&s.Step, &s.Form, &s.Agreement, &s.Acyclic, &s.Action, &reason); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		s.Reason = reason.String
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

// Recoveries returns up to limit recovery attempts, newest first.
func (l *Ledger) Recoveries(limit int) ([]RecoveryRecord, error) {
	rows, err := l.db.Query(
		`SELECT id, strategy, success, steps, message, partitions_before, partitions_after, created_at
		 FROM recoveries ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recoveries: %w", err)
	}
	defer rows.Close()

	var out []RecoveryRecord
	for rows.Next() {
		var r RecoveryRecord
		var msg sql.NullString
		var createdStr string
		if err := rows.Scan(&r.ID, &r.Strategy, &r.Success, &r.Steps, &msg,
			&r.PartitionsBefore, &r.PartitionsAfter, &createdStr); err != nil {
			return nil, fmt.Errorf("scan recovery: %w", err)
		}
		r.Message = msg.String
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}
// #endregion queries

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func encodeVector(v []float64) []byte {
	buf := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float64 {
	v := make([]float64, len(b)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return v
}
// #endregion helpers
