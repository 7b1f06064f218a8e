// audit/service.go
package audit

import (
	"context"
	"time"

	abac_errors "github.com/frontendfixll/laundry-abac/errors"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type Service interface {
	LogDecision(ctx context.Context, entry DecisionLogEntry) error
	QueryLogs(ctx context.Context, filter Filter, page, limit int) ([]DecisionLogEntry, Pagination, error)
	GetDecision(ctx context.Context, decisionID string) (*DecisionLogEntry, error)
	ExportLogs(ctx context.Context, filter Filter) ([]byte, string, error)
	Stats(ctx context.Context, filter Filter) (DecisionStats, error)
}

type service struct {
	repo        Repository
	exportLimit int
}

// NewService wraps a repository with paging, export, and stats behavior.
// exportLimit caps how many entries one export refetches.
func NewService(repo Repository, exportLimit int) Service {
	if exportLimit <= 0 {
		exportLimit = 1000
	}
	return &service{repo: repo, exportLimit: exportLimit}
}

func (s *service) LogDecision(ctx context.Context, entry DecisionLogEntry) error {
	return s.repo.LogDecision(ctx, entry)
}

// QueryLogs fetches one page. Page is 1-indexed; pages is derived from the
// total so clients can bound their pagination controls.
func (s *service) QueryLogs(ctx context.Context, filter Filter, page, limit int) ([]DecisionLogEntry, Pagination, error) {
	if page < 1 {
		return nil, Pagination{}, abac_errors.ErrInvalidPagination
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	logs, total, err := s.repo.QueryLogs(ctx, filter, page, limit)
	if err != nil {
		return nil, Pagination{}, err
	}

	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}

	return logs, Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

func (s *service) GetDecision(ctx context.Context, decisionID string) (*DecisionLogEntry, error) {
	return s.repo.GetDecision(ctx, decisionID)
}

// ExportLogs refetches up to exportLimit entries under the filter, ignoring
// pagination, and serializes them to CSV. Returns the file content and the
// dated filename.
func (s *service) ExportLogs(ctx context.Context, filter Filter) ([]byte, string, error) {
	logs, _, err := s.repo.QueryLogs(ctx, filter, 1, s.exportLimit)
	if err != nil {
		return nil, "", err
	}

	return ConvertToCSV(logs), ExportFileName(time.Now()), nil
}

// Stats computes decision counts over the full filtered set. Deriving these
// from a single visible page undercounts; the aggregation is server-side on
// purpose.
func (s *service) Stats(ctx context.Context, filter Filter) (DecisionStats, error) {
	counts, err := s.repo.CountByDecision(ctx, filter)
	if err != nil {
		return DecisionStats{}, err
	}

	stats := DecisionStats{
		Allowed: counts["ALLOW"],
		Denied:  counts["DENY"],
	}
	stats.Total = stats.Allowed + stats.Denied
	return stats, nil
}
