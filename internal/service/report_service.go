package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
	"github.com/ygyuri/foodbank-management-system/internal/repository"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
)

const (
	trendDay   = "day"
	trendMonth = "month"

	overviewDays      = 7
	defaultTrendDays  = 30
	defaultTrendMonth = 12
)

// ReportService admin dashboard aggregates.
type ReportService interface {
	Overview(ctx context.Context, actor workflow.Actor) (*dto.OverviewResponse, error)
	DonationTrends(ctx context.Context, actor workflow.Actor, req *dto.TrendRequest) ([]dto.TrendPoint, error)
	FoodbankStats(ctx context.Context, actor workflow.Actor, req *dto.StatsRequest) ([]dto.FoodbankStats, error)
	DonorStats(ctx context.Context, actor workflow.Actor, req *dto.StatsRequest) ([]dto.DonorStats, error)
	RecipientStats(ctx context.Context, actor workflow.Actor, req *dto.StatsRequest) ([]dto.RecipientStats, error)
	RecipientDemographics(ctx context.Context, actor workflow.Actor) ([]dto.CountEntry, error)
}

type reportService struct {
	repo   *repository.Repository
	authz  *workflow.Authorizer
	logger *zap.Logger
	now    func() time.Time
}

func NewReportService(repo *repository.Repository, authz *workflow.Authorizer, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, authz: authz, logger: logger, now: time.Now}
}

func toCountEntries(rows []repository.GroupCount) []dto.CountEntry {
	out := make([]dto.CountEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CountEntry{Key: r.Key, Count: r.Count, Quantity: r.Sum})
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func periodLabel(unit string, t time.Time) string {
	if unit == trendMonth {
		return t.UTC().Format("2006-01")
	}
	return t.UTC().Format("2006-01-02")
}

// fillTrend one point per period in [from, to), zero where no row exists.
func fillTrend(unit string, from, to time.Time, rows []repository.TrendRow) []dto.TrendPoint {
	byPeriod := make(map[string]repository.TrendRow, len(rows))
	for _, r := range rows {
		byPeriod[periodLabel(unit, r.Period)] = r
	}

	step := func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	if unit == trendMonth {
		step = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	}

	var out []dto.TrendPoint
	for p := from; p.Before(to); p = step(p) {
		label := periodLabel(unit, p)
		r := byPeriod[label]
		out = append(out, dto.TrendPoint{
			Period:   label,
			Total:    r.Total,
			Approved: r.Approved,
			Pending:  r.Pending,
			Rejected: r.Rejected,
		})
	}
	return out
}

// ────────────────────── Overview ──────────────────────

func (s *reportService) Overview(ctx context.Context, actor workflow.Actor) (*dto.OverviewResponse, error) {
	if err := requireAnyScope(s.authz, actor, permission.ActionView, permission.SubjectReport); err != nil {
		return nil, err
	}

	users, err := s.repo.Report.CountUsersByRole(ctx)
	if err != nil {
		s.logger.Error("count users failed", zap.Error(err))
		return nil, err
	}
	byStatus, err := s.repo.Report.CountDonationsByStatus(ctx)
	if err != nil {
		s.logger.Error("count donations failed", zap.Error(err))
		return nil, err
	}
	byType, err := s.repo.Report.SumDonationsByType(ctx)
	if err != nil {
		s.logger.Error("sum donations failed", zap.Error(err))
		return nil, err
	}
	requests, err := s.repo.Report.CountRequestsFBByStatus(ctx)
	if err != nil {
		s.logger.Error("count requests failed", zap.Error(err))
		return nil, err
	}

	to := startOfDay(s.now()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -overviewDays)
	rows, err := s.repo.Report.DonationTrend(ctx, trendDay, from, to)
	if err != nil {
		s.logger.Error("donation trend failed", zap.Error(err))
		return nil, err
	}

	return &dto.OverviewResponse{
		UsersByRole:        toCountEntries(users),
		DonationsByStatus:  toCountEntries(byStatus),
		DonationsByType:    toCountEntries(byType),
		RequestsFBByStatus: toCountEntries(requests),
		LastSevenDays:      fillTrend(trendDay, from, to, rows),
	}, nil
}

// ────────────────────── DonationTrends ──────────────────────

// DonationTrends defaults to the last 30 days by day or the last 12 months by month.
// to is inclusive.
func (s *reportService) DonationTrends(ctx context.Context, actor workflow.Actor, req *dto.TrendRequest) ([]dto.TrendPoint, error) {
	if err := requireAnyScope(s.authz, actor, permission.ActionView, permission.SubjectReport); err != nil {
		return nil, err
	}

	unit := req.GroupBy
	if unit != trendMonth {
		unit = trendDay
	}
	align := startOfDay
	if unit == trendMonth {
		align = startOfMonth
	}

	var from, to time.Time
	if req.To != "" {
		t, err := dto.ParseDate(req.To)
		if err != nil {
			return nil, ErrInvalidDate
		}
		to = t
	} else {
		to = s.now()
	}
	if unit == trendMonth {
		to = startOfMonth(to).AddDate(0, 1, 0)
	} else {
		to = startOfDay(to).AddDate(0, 0, 1)
	}

	if req.From != "" {
		t, err := dto.ParseDate(req.From)
		if err != nil {
			return nil, ErrInvalidDate
		}
		from = align(t)
	} else if unit == trendMonth {
		from = to.AddDate(0, -defaultTrendMonth, 0)
	} else {
		from = to.AddDate(0, 0, -defaultTrendDays)
	}
	if !from.Before(to) {
		return nil, ErrInvalidPeriod
	}

	rows, err := s.repo.Report.DonationTrend(ctx, unit, from, to)
	if err != nil {
		s.logger.Error("donation trend failed", zap.String("unit", unit), zap.Error(err))
		return nil, err
	}
	return fillTrend(unit, from, to, rows), nil
}

// ────────────────────── per-user statistics ──────────────────────

// statsFilter parses the request; validStatus decides which statuses the
// counted tables know.
func statsFilter(req *dto.StatsRequest, validStatus func(string) bool) (repository.StatsFilter, error) {
	filter := repository.StatsFilter{UserID: req.UserID, Status: req.Status}
	if req.Status != "" && !validStatus(req.Status) {
		return filter, ErrInvalidStatus
	}
	if req.From != "" {
		t, err := dto.ParseDate(req.From)
		if err != nil {
			return filter, ErrInvalidDate
		}
		filter.From = &t
	}
	if req.To != "" {
		t, err := dto.ParseDate(req.To)
		if err != nil {
			return filter, ErrInvalidDate
		}
		end := t.AddDate(0, 0, 1)
		filter.To = &end
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return filter, ErrInvalidPeriod
	}
	return filter, nil
}

// percent n of total, two decimals; 0 when total is 0.
func percent(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)*10000/float64(total)) / 100
}

// FoodbankStats the status filter applies to both donation requests and donations.
func (s *reportService) FoodbankStats(ctx context.Context, actor workflow.Actor, req *dto.StatsRequest) ([]dto.FoodbankStats, error) {
	if err := requireAnyScope(s.authz, actor, permission.ActionView, permission.SubjectReport); err != nil {
		return nil, err
	}
	filter, err := statsFilter(req, func(v string) bool {
		return model.DonationStatus(v).Valid() || model.DonationRequestStatus(v).Valid()
	})
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Report.FoodbankStats(ctx, filter)
	if err != nil {
		s.logger.Error("foodbank stats failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.FoodbankStats, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FoodbankStats{
			UserID:               r.UserID,
			Name:                 r.Name,
			Email:                r.Email,
			TotalRequests:        r.TotalRequests,
			TotalDonations:       r.TotalDonations,
			DonationsReceived:    r.DonationsReceived,
			DonationsDistributed: r.DonationsDistributed,
		})
	}
	return out, nil
}

func (s *reportService) DonorStats(ctx context.Context, actor workflow.Actor, req *dto.StatsRequest) ([]dto.DonorStats, error) {
	if err := requireAnyScope(s.authz, actor, permission.ActionView, permission.SubjectReport); err != nil {
		return nil, err
	}
	filter, err := statsFilter(req, func(v string) bool { return model.DonationStatus(v).Valid() })
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Report.DonorStats(ctx, filter)
	if err != nil {
		s.logger.Error("donor stats failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.DonorStats, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DonorStats{
			UserID:             r.UserID,
			Name:               r.Name,
			Email:              r.Email,
			TotalDonations:     r.TotalDonations,
			TotalQuantity:      r.TotalQuantity,
			CompletedDonations: r.CompletedDonations,
		})
	}
	return out, nil
}

// RecipientStats a fulfilled request was approved first, so it counts toward
// the approval rate.
func (s *reportService) RecipientStats(ctx context.Context, actor workflow.Actor, req *dto.StatsRequest) ([]dto.RecipientStats, error) {
	if err := requireAnyScope(s.authz, actor, permission.ActionView, permission.SubjectReport); err != nil {
		return nil, err
	}
	filter, err := statsFilter(req, func(v string) bool { return model.RequestFBStatus(v).Valid() })
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Report.RecipientStats(ctx, filter)
	if err != nil {
		s.logger.Error("recipient stats failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.RecipientStats, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.RecipientStats{
			UserID:          r.UserID,
			Name:            r.Name,
			Email:           r.Email,
			TotalRequests:   r.Total,
			Pending:         r.Pending,
			Approved:        r.Approved,
			Rejected:        r.Rejected,
			Fulfilled:       r.Fulfilled,
			ApprovalRate:    percent(r.Approved+r.Fulfilled, r.Total),
			FulfillmentRate: percent(r.Fulfilled, r.Total),
		})
	}
	return out, nil
}

func (s *reportService) RecipientDemographics(ctx context.Context, actor workflow.Actor) ([]dto.CountEntry, error) {
	if err := requireAnyScope(s.authz, actor, permission.ActionView, permission.SubjectReport); err != nil {
		return nil, err
	}
	rows, err := s.repo.Report.RecipientDemographics(ctx)
	if err != nil {
		s.logger.Error("recipient demographics failed", zap.Error(err))
		return nil, err
	}
	return toCountEntries(rows), nil
}
