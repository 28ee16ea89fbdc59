// Package storage persists graded submissions. SQLite keeps the deployment
// a single binary; submitted CSV files live on disk next to it.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"pricing-grader/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DB wraps the SQLite connection for submission storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS assignment_versions (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL UNIQUE,
		rng_seed INTEGER NOT NULL,
		i INTEGER NOT NULL,
		t INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		assignment_version_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		i INTEGER NOT NULL,
		t INTEGER NOT NULL,
		trials INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		philosophy TEXT NOT NULL,
		csv_path TEXT,
		policy_json TEXT NOT NULL,
		aggregates_json TEXT NOT NULL,
		sample_trial_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_student ON submissions(student_id);
	CREATE INDEX IF NOT EXISTS idx_submissions_version ON submissions(assignment_version_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Student is one enrolled student, keyed by email.
type Student struct {
	ID        string `db:"id"`
	Email     string `db:"email"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
}

// AssignmentVersion records the grading identity submissions are bound to.
type AssignmentVersion struct {
	ID        string `db:"id"`
	Label     string `db:"label"`
	RNGSeed   int64  `db:"rng_seed"`
	I         int    `db:"i"`
	T         int    `db:"t"`
	CreatedAt string `db:"created_at"`
}

// Submission is one stored grading run.
type Submission struct {
	ID                  string `db:"id"`
	StudentID           string `db:"student_id"`
	AssignmentVersionID string `db:"assignment_version_id"`
	CreatedAt           string `db:"created_at"`

	I      int   `db:"i"`
	T      int   `db:"t"`
	Trials int   `db:"trials"`
	Seed   int64 `db:"seed"`

	Philosophy string         `db:"philosophy"`
	CSVPath    sql.NullString `db:"csv_path"`

	PolicyJSON      string         `db:"policy_json"`
	AggregatesJSON  string         `db:"aggregates_json"`
	SampleTrialJSON sql.NullString `db:"sample_trial_json"`
}

// SubmissionRecord joins a submission with its student for presentation.
type SubmissionRecord struct {
	Submission
	StudentEmail string `db:"student_email"`
	StudentName  string `db:"student_name"`
}

// Aggregates decodes the stored aggregates blob.
func (s Submission) Aggregates() (model.Aggregates, error) {
	var agg model.Aggregates
	err := json.Unmarshal([]byte(s.AggregatesJSON), &agg)
	return agg, err
}

// Policy decodes the stored policy blob.
func (s Submission) Policy() (model.PolicyMatrix, error) {
	var policy model.PolicyMatrix
	err := json.Unmarshal([]byte(s.PolicyJSON), &policy)
	return policy, err
}

// GetOrCreateStudent looks a student up by email, creating the record on
// first contact.
func (db *DB) GetOrCreateStudent(email, name string) (Student, error) {
	var student Student
	err := db.conn.Get(&student, `SELECT * FROM students WHERE email = ?`, email)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Student{}, err
	}

	student = Student{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: now(),
	}
	_, err = db.conn.Exec(
		`INSERT INTO students (id, email, name, created_at) VALUES (?, ?, ?, ?)`,
		student.ID, student.Email, student.Name, student.CreatedAt,
	)
	return student, err
}

// GetOrCreateAssignmentVersion looks an assignment version up by label,
// creating it with the given identity on first use.
func (db *DB) GetOrCreateAssignmentVersion(label string, rngSeed int64, i, t int) (AssignmentVersion, error) {
	var version AssignmentVersion
	err := db.conn.Get(&version, `SELECT * FROM assignment_versions WHERE label = ?`, label)
	if err == nil {
		return version, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return AssignmentVersion{}, err
	}

	version = AssignmentVersion{
		ID:        uuid.NewString(),
		Label:     label,
		RNGSeed:   rngSeed,
		I:         i,
		T:         t,
		CreatedAt: now(),
	}
	_, err = db.conn.Exec(
		`INSERT INTO assignment_versions (id, label, rng_seed, i, t, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		version.ID, version.Label, version.RNGSeed, version.I, version.T, version.CreatedAt,
	)
	return version, err
}

// NewSubmission carries everything needed to persist one grading run.
type NewSubmission struct {
	StudentID           string
	AssignmentVersionID string
	Config              model.SimConfig
	Philosophy          string
	CSVPath             string
	Policy              model.PolicyMatrix
	Aggregates          model.Aggregates
	SampleTrial         model.SampleTrial
}

// CreateSubmission stores one submission and returns the stored row.
func (db *DB) CreateSubmission(sub NewSubmission) (Submission, error) {
	policyJSON, err := json.Marshal(sub.Policy)
	if err != nil {
		return Submission{}, fmt.Errorf("encode policy: %w", err)
	}
	aggJSON, err := json.Marshal(sub.Aggregates)
	if err != nil {
		return Submission{}, fmt.Errorf("encode aggregates: %w", err)
	}
	trialJSON, err := json.Marshal(sub.SampleTrial)
	if err != nil {
		return Submission{}, fmt.Errorf("encode sample trial: %w", err)
	}

	row := Submission{
		ID:                  uuid.NewString(),
		StudentID:           sub.StudentID,
		AssignmentVersionID: sub.AssignmentVersionID,
		CreatedAt:           now(),
		I:                   sub.Config.I,
		T:                   sub.Config.T,
		Trials:              sub.Config.Trials,
		Seed:                sub.Config.Seed,
		Philosophy:          sub.Philosophy,
		CSVPath:             sql.NullString{String: sub.CSVPath, Valid: sub.CSVPath != ""},
		PolicyJSON:          string(policyJSON),
		AggregatesJSON:      string(aggJSON),
		SampleTrialJSON:     sql.NullString{String: string(trialJSON), Valid: true},
	}

	_, err = db.conn.Exec(
		`INSERT INTO submissions
		 (id, student_id, assignment_version_id, created_at, i, t, trials, seed,
		  philosophy, csv_path, policy_json, aggregates_json, sample_trial_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.StudentID, row.AssignmentVersionID, row.CreatedAt,
		row.I, row.T, row.Trials, row.Seed,
		row.Philosophy, row.CSVPath, row.PolicyJSON, row.AggregatesJSON, row.SampleTrialJSON,
	)
	if err != nil {
		return Submission{}, fmt.Errorf("insert submission: %w", err)
	}
	return row, nil
}

const submissionJoin = `
	SELECT s.*, st.email AS student_email, st.name AS student_name
	FROM submissions s
	JOIN students st ON st.id = s.student_id
`

// GetSubmission fetches one submission joined with its student.
func (db *DB) GetSubmission(id string) (SubmissionRecord, error) {
	var rec SubmissionRecord
	err := db.conn.Get(&rec, submissionJoin+` WHERE s.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return SubmissionRecord{}, ErrNotFound
	}
	return rec, err
}

// ListSubmissions returns all submissions, newest first.
func (db *DB) ListSubmissions() ([]SubmissionRecord, error) {
	var recs []SubmissionRecord
	err := db.conn.Select(&recs, submissionJoin+` ORDER BY s.created_at DESC`)
	return recs, err
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
