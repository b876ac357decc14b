package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/pkg/database"
)

type candidateRepositoryImpl struct {
	db *database.DB
}

func NewCandidateRepository(db *database.DB) candidate.CandidateRepository {
	return &candidateRepositoryImpl{db: db}
}

const candidateColumns = `id, name, username, alias, password_hash, status, created_at, updated_at`

func scanCandidate(row pgx.Row) (candidate.Candidate, error) {
	var c candidate.Candidate
	var status string
	if err := row.Scan(&c.ID, &c.Name, &c.Username, &c.Alias, &c.PasswordHash, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return candidate.Candidate{}, err
	}
	c.Status = candidate.Status(status)
	return c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *candidateRepositoryImpl) Create(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	q := GetQuerier(ctx, r.db)

	if c.ID == "" {
		c.ID = uuid.Must(uuid.NewV7()).String()
	}
	if c.Status == "" {
		c.Status = candidate.StatusProbation
	}

	query := `
		INSERT INTO candidates (id, name, username, alias, password_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query, c.ID, c.Name, c.Username, c.Alias, c.PasswordHash, string(c.Status)).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return candidate.Candidate{}, &candidate.UsernameTakenError{Username: c.Username}
		}
		return candidate.Candidate{}, fmt.Errorf("failed to create candidate: %w", err)
	}
	return c, nil
}

func (r *candidateRepositoryImpl) GetByID(ctx context.Context, id string) (candidate.Candidate, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanCandidate(q.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return candidate.Candidate{}, candidate.ErrCandidateNotFound
		}
		return candidate.Candidate{}, fmt.Errorf("failed to get candidate with id %s: %w", id, err)
	}
	return c, nil
}

func (r *candidateRepositoryImpl) GetByUsername(ctx context.Context, username string) (candidate.Candidate, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanCandidate(q.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE username = $1`, username))
	if err != nil {
		if err == pgx.ErrNoRows {
			return candidate.Candidate{}, candidate.ErrCandidateNotFound
		}
		return candidate.Candidate{}, fmt.Errorf("failed to get candidate with username %s: %w", username, err)
	}
	return c, nil
}

func (r *candidateRepositoryImpl) List(ctx context.Context, filter candidate.Filter) ([]candidate.Candidate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + candidateColumns + ` FROM candidates`
	var args []interface{}
	if filter.ActiveOnly {
		active := make([]string, len(candidate.ActiveStatuses))
		for i, s := range candidate.ActiveStatuses {
			active[i] = string(s)
		}
		query += ` WHERE lower(status) = ANY($1)`
		args = append(args, active)
	}
	query += ` ORDER BY name ASC`

	rows, err := q.Query(ctx, query, args...)
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

func (r *candidateRepositoryImpl) UpdateDetails(ctx context.Context, id string, patch candidate.DetailsPatch) error {
	q := GetQuerier(ctx, r.db)

	var setParts []string
	var args []interface{}
	argIdx := 1

	if patch.Username != nil {
		setParts = append(setParts, fmt.Sprintf("username = $%d", argIdx))
		args = append(args, *patch.Username)
		argIdx++
	}
	if patch.PasswordHash != nil {
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", argIdx))
		args = append(args, *patch.PasswordHash)
		argIdx++
	}
	if patch.Alias != nil {
		setParts = append(setParts, fmt.Sprintf("alias = $%d", argIdx))
		args = append(args, *patch.Alias)
		argIdx++
	}
	if len(setParts) == 0 {
		return candidate.ErrNoDetailsProvided
	}
	setParts = append(setParts, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE candidates SET %s WHERE id = $%d", strings.Join(setParts, ", "), argIdx)
	args = append(args, id)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) && patch.Username != nil {
			return &candidate.UsernameTakenError{Username: *patch.Username}
		}
		return fmt.Errorf("failed to update candidate with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrCandidateNotFound
	}
	return nil
}

func (r *candidateRepositoryImpl) UpdateStatus(ctx context.Context, id string, status candidate.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE candidates SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update status of candidate %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrCandidateNotFound
	}
	return nil
}

func (r *candidateRepositoryImpl) RevokeAccess(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE candidates SET password_hash = NULL, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to revoke access of candidate %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrCandidateNotFound
	}
	return nil
}

func (r *candidateRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrCandidateNotFound
	}
	return nil
}
