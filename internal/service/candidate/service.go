package candidate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/database"
	"github.com/repsboard/payroll-backend/internal/pkg/sse"
	"golang.org/x/crypto/bcrypt"
)

type CandidateServiceImpl struct {
	tx            database.Transactor
	candidateRepo candidate.CandidateRepository
	recordRepo    workrecord.WorkRecordRepository
	events        sse.Publisher
}

func NewCandidateService(
	tx database.Transactor,
	candidateRepo candidate.CandidateRepository,
	recordRepo workrecord.WorkRecordRepository,
	events sse.Publisher,
) candidate.CandidateService {
	return &CandidateServiceImpl{
		tx:            tx,
		candidateRepo: candidateRepo,
		recordRepo:    recordRepo,
		events:        events,
	}
}

func (s *CandidateServiceImpl) Create(ctx context.Context, principal user.Principal, req candidate.CreateCandidateRequest) (candidate.CandidateResponse, error) {
	if err := principal.Require(user.PermissionCandidateManage); err != nil {
		return candidate.CandidateResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return candidate.CandidateResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	created, err := s.candidateRepo.Create(ctx, candidate.Candidate{
		Name:     name,
		Username: candidate.UsernameFromName(name),
		Status:   candidate.StatusProbation,
	})
	if err != nil {
		return candidate.CandidateResponse{}, err
	}

	slog.Info("Candidate created", "candidate_id", created.ID, "username", created.Username)
	return candidate.ToResponse(created), nil
}

func (s *CandidateServiceImpl) List(ctx context.Context, principal user.Principal, activeOnly bool) ([]candidate.CandidateResponse, error) {
	if err := principal.Require(user.PermissionCandidateManage); err != nil {
		return nil, err
	}

	candidates, err := s.candidateRepo.List(ctx, candidate.Filter{ActiveOnly: activeOnly})
	if err != nil {
		return nil, err
	}

	responses := make([]candidate.CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		responses = append(responses, candidate.ToResponse(c))
	}
	return responses, nil
}

func (s *CandidateServiceImpl) UpdateDetails(ctx context.Context, principal user.Principal, req candidate.UpdateDetailsRequest) error {
	if err := principal.Require(user.PermissionCandidateManage); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	patch := candidate.DetailsPatch{Username: req.Username, Alias: req.Alias}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hash := string(hashed)
		patch.PasswordHash = &hash
	}

	if err := s.candidateRepo.UpdateDetails(ctx, req.ID, patch); err != nil {
		return err
	}

	slog.Info("Candidate details updated",
		"candidate_id", req.ID,
		"username_changed", req.Username != nil,
		"password_changed", req.Password != nil)
	return nil
}

func (s *CandidateServiceImpl) UpdateStatus(ctx context.Context, principal user.Principal, req candidate.UpdateStatusRequest) error {
	if err := principal.Require(user.PermissionCandidateManage); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	status, _ := candidate.ParseStatus(req.Status)
	return s.candidateRepo.UpdateStatus(ctx, req.ID, status)
}

func (s *CandidateServiceImpl) RevokeAccess(ctx context.Context, principal user.Principal, id string) error {
	if err := principal.Require(user.PermissionCandidateManage); err != nil {
		return err
	}

	if err := s.candidateRepo.RevokeAccess(ctx, id); err != nil {
		return err
	}

	slog.Info("Candidate access revoked", "candidate_id", id)
	if s.events != nil {
		s.events.Publish(id, sse.Event{UserID: id, Event: sse.EventCandidateRevoked, Data: map[string]string{"id": id}})
	}
	return nil
}

func (s *CandidateServiceImpl) Delete(ctx context.Context, principal user.Principal, id string) error {
	if err := principal.Require(user.PermissionCandidateManage); err != nil {
		return err
	}

	var removed int64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.candidateRepo.GetByID(ctx, id); err != nil {
			return err
		}

		var err error
		removed, err = s.recordRepo.DeleteByEmployee(ctx, id)
		if err != nil {
			return err
		}
		return s.candidateRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, candidate.ErrCandidateNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete candidate %s: %w", id, err)
	}

	slog.Info("Candidate deleted", "candidate_id", id, "work_records_removed", removed)
	return nil
}
