package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ActivityAdmin/logger"
	"ActivityAdmin/metrics"
	"ActivityAdmin/model"
	"ActivityAdmin/repository"
)

// AuditLog records administrative actions.
type AuditLog interface {
	Record(ctx context.Context, message string, category model.LogCategory, actor string)
}

// AuditService 操作日志服务
type AuditService struct {
	repo repository.OperationLogRepository
	now  func() time.Time
}

// NewAuditService 创建操作日志服务
func NewAuditService(repo repository.OperationLogRepository) *AuditService {
	return &AuditService{repo: repo, now: time.Now}
}

// Record stores one log entry. Failures are logged and counted, never returned.
func (s *AuditService) Record(ctx context.Context, message string, category model.LogCategory, actor string) {
	entry := &model.OperationLog{
		ID:        uuid.NewString(),
		Message:   message,
		Category:  category,
		Operator:  actor,
		CreatedAt: s.now(),
	}
	if _, err := s.repo.Insert(ctx, entry); err != nil {
		metrics.AuditFailures.Inc()
		logger.Warn("failed to record operation log",
			logger.String("category", string(category)),
			logger.String("operator", actor),
			logger.String("message", message),
			logger.ErrorField(err))
	}
}

// List returns one page of log entries, newest first unless the request says otherwise.
func (s *AuditService) List(ctx context.Context, admin model.Principal, filter repository.OperationLogFilter, page model.PageRequest) (*model.PageResult[model.OperationLog], error) {
	if !admin.IsSuper {
		return nil, ErrForbidden
	}
	if page.SortKey == "" {
		page.SortKey = repository.LogSortCreatedAt
		page.Descending = true
	}
	res, err := s.repo.Query(ctx, filter, page)
	if err != nil {
		return nil, queryFailure("list operation logs", err)
	}
	return res, nil
}
