package repository

import (
	"database/sql"
	"fmt"
	"time"

	"otp-verify/entity"

	"github.com/jmoiron/sqlx"
)

// ChallengeRepository interface defines challenge data operations
type ChallengeRepository interface {
	Create(challenge *entity.Challenge) (*entity.Challenge, error)
	GetActive(subjectKey string, purpose entity.Purpose) (*entity.Challenge, error)
	IncrementAttempts(id int) (int, error)
	MarkUsed(id int) error
	SupersedeActive(subjectKey string, purpose entity.Purpose) error
	Delete(id int) error
	DeleteExpired() (int64, error)
}

// challengeRepository implements ChallengeRepository interface
type challengeRepository struct {
	db *sqlx.DB
}

// NewChallengeRepository creates a new challenge repository instance
func NewChallengeRepository(db *sqlx.DB) ChallengeRepository {
	return &challengeRepository{
		db: db,
	}
}

// Create inserts a new challenge with attempts=0 and is_used=false
func (r *challengeRepository) Create(challenge *entity.Challenge) (*entity.Challenge, error) {
	query := `
		INSERT INTO otp_challenges (subject_key, channel, purpose, code, device_id, attempts, is_used, created_at, expires_at)
		VALUES (:subject_key, :channel, :purpose, :code, :device_id, :attempts, :is_used, :created_at, :expires_at)
		RETURNING id, subject_key, channel, purpose, code, device_id, attempts, is_used, created_at, expires_at, used_at
	`

	if challenge.CreatedAt.IsZero() {
		challenge.CreatedAt = time.Now()
	}
	challenge.Attempts = 0
	challenge.IsUsed = false

	rows, err := r.db.NamedQuery(query, challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("failed to get created challenge")
	}

	var created entity.Challenge
	if err := rows.StructScan(&created); err != nil {
		return nil, fmt.Errorf("failed to scan created challenge: %w", err)
	}

	return &created, nil
}

// GetActive retrieves the most recent unused, unexpired challenge for a
// subject and purpose; nil when none exists
func (r *challengeRepository) GetActive(subjectKey string, purpose entity.Purpose) (*entity.Challenge, error) {
	query := `
		SELECT id, subject_key, channel, purpose, code, device_id, attempts, is_used, created_at, expires_at, used_at
		FROM otp_challenges
		WHERE subject_key = $1 AND purpose = $2 AND is_used = FALSE AND expires_at > CURRENT_TIMESTAMP
		ORDER BY created_at DESC
		LIMIT 1
	`

	var challenge entity.Challenge
	err := r.db.Get(&challenge, query, subjectKey, purpose)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active challenge: %w", err)
	}

	return &challenge, nil
}

// IncrementAttempts bumps the attempt counter in a single statement and
// returns the new value. The increment is conditioned on the record still
// being unused, so two concurrent verify calls cannot both observe the
// pre-increment count.
func (r *challengeRepository) IncrementAttempts(id int) (int, error) {
	query := `
		UPDATE otp_challenges
		SET attempts = attempts + 1
		WHERE id = $1 AND is_used = FALSE
		RETURNING attempts
	`

	var attempts int
	err := r.db.Get(&attempts, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("challenge not found or already used")
		}
		return 0, fmt.Errorf("failed to increment attempts: %w", err)
	}

	return attempts, nil
}

// MarkUsed moves a challenge to a terminal state (verified or exhausted)
func (r *challengeRepository) MarkUsed(id int) error {
	query := `
		UPDATE otp_challenges
		SET is_used = TRUE, used_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_used = FALSE
	`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to mark challenge as used: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("challenge not found or already used")
	}

	return nil
}

// SupersedeActive retires every unused challenge for a subject and purpose,
// keeping the one-active-challenge invariant before a fresh insert
func (r *challengeRepository) SupersedeActive(subjectKey string, purpose entity.Purpose) error {
	query := `
		UPDATE otp_challenges
		SET is_used = TRUE, used_at = CURRENT_TIMESTAMP
		WHERE subject_key = $1 AND purpose = $2 AND is_used = FALSE
	`

	if _, err := r.db.Exec(query, subjectKey, purpose); err != nil {
		return fmt.Errorf("failed to supersede active challenges: %w", err)
	}

	return nil
}

// Delete removes a challenge row. Used when delivery fails right after
// insert, so a phantom record does not block a legitimate resend.
func (r *challengeRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM otp_challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("challenge not found")
	}

	return nil
}

// DeleteExpired deletes expired challenges and returns how many were removed
func (r *challengeRepository) DeleteExpired() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM otp_challenges WHERE expires_at < CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired challenges: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}

	return rowsAffected, nil
}
