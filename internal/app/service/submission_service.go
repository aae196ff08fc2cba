package service

import (
	"context"
	"fmt"
	"time"

	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"
	"codearena/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SubmissionService creates submissions and hands them to the external
// judge over the Redis queue; judge verdicts come back through
// ApplyJudgeResult (wired to the webhook endpoint).
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	rdb            *redis.Client
	log            *zap.Logger
}

func NewSubmissionService(submissionRepo repository.SubmissionRepository, rdb *redis.Client, log *zap.Logger) *SubmissionService {
	return &SubmissionService{submissionRepo: submissionRepo, rdb: rdb, log: log}
}

type CreateSubmissionRequest struct {
	ProblemID  string         `json:"problemId"`
	ContestID  string         `json:"contestId,omitempty"`
	SourceFile string         `json:"sourceFile"`
	Language   model.Language `json:"language"`
}

func (s *SubmissionService) CreateSubmission(ctx context.Context, author string, req CreateSubmissionRequest) (*model.Submission, error) {
	base := model.SubmissionBase{
		SubmissionID:   uuid.NewString(),
		AuthorUsername: author,
		ProblemID:      req.ProblemID,
		ContestID:      req.ContestID,
		SourceFile:     req.SourceFile,
		Language:       req.Language,
		SubmissionTime: time.Now().UTC(),
		Status:         model.StatusSubmitted,
	}
	submission, err := s.submissionRepo.Create(ctx, base)
	if err != nil {
		return nil, err
	}

	if err := s.rdb.LPush(ctx, config.AppConfig.JudgeQueueName, submission.SubmissionID).Err(); err != nil {
		// the submission stays Submitted; a requeue sweep can pick it up
		s.log.Error("enqueue submission failed",
			zap.String("submissionId", submission.SubmissionID), zap.Error(err))
		return submission, nil
	}

	base.Status = model.StatusInQueue
	updated, err := s.submissionRepo.Update(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("mark submission in queue: %w", err)
	}
	s.log.Info("submission enqueued", zap.String("submissionId", submission.SubmissionID))
	return updated, nil
}

type JudgeResultRequest struct {
	SubmissionID string                      `json:"submissionId"`
	Status       model.SubmissionStatus      `json:"status"`
	Result       *model.SubmissionResultBase `json:"result,omitempty"`
}

// ApplyJudgeResult persists whatever status the judge reports; transition
// legality is the judge's concern, not this layer's.
func (s *SubmissionService) ApplyJudgeResult(ctx context.Context, req JudgeResultRequest) (*model.Submission, error) {
	current, err := s.submissionRepo.Get(ctx, req.SubmissionID, model.SubmissionInclude{})
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &common.SubmissionNotFoundError{SubmissionID: req.SubmissionID}
	}
	base := model.SubmissionBase{
		SubmissionID:   current.SubmissionID,
		AuthorUsername: current.AuthorUsername,
		ProblemID:      current.ProblemID,
		ContestID:      current.ContestID,
		SourceFile:     current.SourceFile,
		Language:       current.Language,
		SubmissionTime: current.SubmissionTime,
		Status:         req.Status,
		Result:         req.Result,
	}
	updated, err := s.submissionRepo.Update(ctx, base)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &common.SubmissionNotFoundError{SubmissionID: req.SubmissionID}
	}
	s.log.Info("judge result applied",
		zap.String("submissionId", req.SubmissionID), zap.String("status", string(req.Status)))
	return updated, nil
}
