package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/pkg/database"
)

type candidateRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewCandidateRepository(db *database.SQLiteDB) candidate.CandidateRepository {
	return &candidateRepositoryImpl{db: db}
}

const candidateColumns = `id, name, username, alias, password_hash, status, created_at, updated_at`

func scanCandidate(row rowScanner) (candidate.Candidate, error) {
	var c candidate.Candidate
	var status string
	if err := row.Scan(&c.ID, &c.Name, &c.Username, &c.Alias, &c.PasswordHash, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return candidate.Candidate{}, err
	}
	c.Status = candidate.Status(status)
	return c, nil
}

func (r *candidateRepositoryImpl) Create(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	q := GetQuerier(ctx, r.db)

	if c.ID == "" {
		c.ID = uuid.Must(uuid.NewV7()).String()
	}
	if c.Status == "" {
		c.Status = candidate.StatusProbation
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	query := `
		INSERT INTO candidates (id, name, username, alias, password_hash, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query, c.ID, c.Name, c.Username, c.Alias, c.PasswordHash, string(c.Status), now, now)
	if err != nil {
		if constraintCode(err) == sqlite3.ErrConstraintUnique {
			return candidate.Candidate{}, &candidate.UsernameTakenError{Username: c.Username}
		}
		return candidate.Candidate{}, fmt.Errorf("failed to create candidate: %w", err)
	}
	return c, nil
}

func (r *candidateRepositoryImpl) get(ctx context.Context, where string, arg string) (candidate.Candidate, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanCandidate(q.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE `+where+` = ?`, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return candidate.Candidate{}, candidate.ErrCandidateNotFound
		}
		return candidate.Candidate{}, fmt.Errorf("failed to get candidate by %s %s: %w", where, arg, err)
	}
	return c, nil
}

func (r *candidateRepositoryImpl) GetByID(ctx context.Context, id string) (candidate.Candidate, error) {
	return r.get(ctx, "id", id)
}

func (r *candidateRepositoryImpl) GetByUsername(ctx context.Context, username string) (candidate.Candidate, error) {
	return r.get(ctx, "username", username)
}

func (r *candidateRepositoryImpl) List(ctx context.Context, filter candidate.Filter) ([]candidate.Candidate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + candidateColumns + ` FROM candidates`
	var args []any
	if filter.ActiveOnly {
		query += ` WHERE lower(status) IN (` + placeholders(len(candidate.ActiveStatuses)) + `)`
		for _, s := range candidate.ActiveStatuses {
			args = append(args, string(s))
		}
	}
	query += ` ORDER BY name ASC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []candidate.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepositoryImpl) exec(ctx context.Context, query string, args ...any) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return candidate.ErrCandidateNotFound
	}
	return nil
}

func (r *candidateRepositoryImpl) UpdateDetails(ctx context.Context, id string, patch candidate.DetailsPatch) error {
	var setParts []string
	var args []any

	if patch.Username != nil {
		setParts = append(setParts, "username = ?")
		args = append(args, *patch.Username)
	}
	if patch.PasswordHash != nil {
		setParts = append(setParts, "password_hash = ?")
		args = append(args, *patch.PasswordHash)
	}
	if patch.Alias != nil {
		setParts = append(setParts, "alias = ?")
		args = append(args, *patch.Alias)
	}
	if len(setParts) == 0 {
		return candidate.ErrNoDetailsProvided
	}
	setParts = append(setParts, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	err := r.exec(ctx, fmt.Sprintf("UPDATE candidates SET %s WHERE id = ?", strings.Join(setParts, ", ")), args...)
	if err != nil && !errors.Is(err, candidate.ErrCandidateNotFound) {
		if constraintCode(err) == sqlite3.ErrConstraintUnique && patch.Username != nil {
			return &candidate.UsernameTakenError{Username: *patch.Username}
		}
		return fmt.Errorf("failed to update candidate with id %s: %w", id, err)
	}
	return err
}

func (r *candidateRepositoryImpl) UpdateStatus(ctx context.Context, id string, status candidate.Status) error {
	err := r.exec(ctx, `UPDATE candidates SET status = ?, updated_at = ? WHERE id = ?`, string(status), time.Now().UTC(), id)
	if err != nil && !errors.Is(err, candidate.ErrCandidateNotFound) {
		return fmt.Errorf("failed to update status of candidate %s: %w", id, err)
	}
	return err
}

func (r *candidateRepositoryImpl) RevokeAccess(ctx context.Context, id string) error {
	err := r.exec(ctx, `UPDATE candidates SET password_hash = NULL, updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil && !errors.Is(err, candidate.ErrCandidateNotFound) {
		return fmt.Errorf("failed to revoke access of candidate %s: %w", id, err)
	}
	return err
}

func (r *candidateRepositoryImpl) Delete(ctx context.Context, id string) error {
	err := r.exec(ctx, `DELETE FROM candidates WHERE id = ?`, id)
	if err != nil && !errors.Is(err, candidate.ErrCandidateNotFound) {
		return fmt.Errorf("failed to delete candidate %s: %w", id, err)
	}
	return err
}
