package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ygyuri/foodbank-management-system/internal/model"
)

// TrendRow donation counts for one day or month bucket.
type TrendRow struct {
	Period   time.Time `gorm:"column:period"`
	Total    int64     `gorm:"column:total"`
	Approved int64     `gorm:"column:approved"`
	Pending  int64     `gorm:"column:pending"`
	Rejected int64     `gorm:"column:rejected"`
}

// GroupCount row of a GROUP BY count.
type GroupCount struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
	Sum   int64  `gorm:"column:sum"`
}

// StatsFilter narrows the per-user statistics. From/To bound created_at as
// [From, To) on the counted rows; Status applies to them too.
type StatsFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Status string
}

// scope extra predicates on the counted table, with their arguments.
func (f StatsFilter) scope(alias string) (string, []interface{}) {
	parts := []string{alias + ".deleted_at IS NULL"}
	var args []interface{}
	if f.From != nil {
		parts = append(parts, alias+".created_at >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		parts = append(parts, alias+".created_at < ?")
		args = append(args, *f.To)
	}
	if f.Status != "" {
		parts = append(parts, alias+".status = ?")
		args = append(args, f.Status)
	}
	return " AND " + strings.Join(parts, " AND "), args
}

// FoodbankStatsRow requests and donations handled by one foodbank.
type FoodbankStatsRow struct {
	UserID               string `gorm:"column:user_id"`
	Name                 string `gorm:"column:name"`
	Email                string `gorm:"column:email"`
	TotalRequests        int64  `gorm:"column:total_requests"`
	TotalDonations       int64  `gorm:"column:total_donations"`
	DonationsReceived    int64  `gorm:"column:donations_received"`
	DonationsDistributed int64  `gorm:"column:donations_distributed"`
}

// DonorStatsRow donations made by one donor.
type DonorStatsRow struct {
	UserID             string `gorm:"column:user_id"`
	Name               string `gorm:"column:name"`
	Email              string `gorm:"column:email"`
	TotalDonations     int64  `gorm:"column:total_donations"`
	TotalQuantity      int64  `gorm:"column:total_quantity"`
	CompletedDonations int64  `gorm:"column:completed_donations"`
}

// RecipientStatsRow requests_fb of one recipient by status.
type RecipientStatsRow struct {
	UserID    string `gorm:"column:user_id"`
	Name      string `gorm:"column:name"`
	Email     string `gorm:"column:email"`
	Total     int64  `gorm:"column:total"`
	Pending   int64  `gorm:"column:pending"`
	Approved  int64  `gorm:"column:approved"`
	Rejected  int64  `gorm:"column:rejected"`
	Fulfilled int64  `gorm:"column:fulfilled"`
}

// ReportRepository read-only aggregates for the admin dashboard.
type ReportRepository interface {
	CountUsersByRole(ctx context.Context) ([]GroupCount, error)
	CountDonationsByStatus(ctx context.Context) ([]GroupCount, error)
	SumDonationsByType(ctx context.Context) ([]GroupCount, error)
	CountRequestsFBByStatus(ctx context.Context) ([]GroupCount, error)
	// DonationTrend groups donations created in [from, to) by unit ("day" or "month").
	DonationTrend(ctx context.Context, unit string, from, to time.Time) ([]TrendRow, error)

	FoodbankStats(ctx context.Context, filter StatsFilter) ([]FoodbankStatsRow, error)
	DonorStats(ctx context.Context, filter StatsFilter) ([]DonorStatsRow, error)
	RecipientStats(ctx context.Context, filter StatsFilter) ([]RecipientStatsRow, error)
	// RecipientDemographics recipients grouped by sex; an empty key means not given.
	RecipientDemographics(ctx context.Context) ([]GroupCount, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) CountUsersByRole(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("role AS key, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) CountDonationsByStatus(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&model.Donation{}).
		Select("status AS key, COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS sum").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) SumDonationsByType(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&model.Donation{}).
		Select("type AS key, COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS sum").
		Group("type").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) CountRequestsFBByStatus(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&model.RequestFB{}).
		Select("status AS key, COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS sum").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) DonationTrend(ctx context.Context, unit string, from, to time.Time) ([]TrendRow, error) {
	if unit != "month" {
		unit = "day"
	}
	var rows []TrendRow
	err := r.db.WithContext(ctx).
		Model(&model.Donation{}).
		Select(`date_trunc(?, created_at) AS period,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'approved') AS approved,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'rejected') AS rejected`, unit).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("1").
		Order("1").
		Scan(&rows).Error
	return rows, err
}

// usersOfRole base query for the per-user statistics.
func (r *reportRepo) usersOfRole(ctx context.Context, role model.Role, userID string) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("users.role = ?", role)
	if userID != "" {
		q = q.Where("users.user_id = ?", userID)
	}
	return q.Order("users.name")
}

func (r *reportRepo) FoodbankStats(ctx context.Context, filter StatsFilter) ([]FoodbankStatsRow, error) {
	drScope, drArgs := filter.scope("dr")
	dScope, dArgs := filter.scope("d")
	rcvScope, rcvArgs := StatsFilter{From: filter.From, To: filter.To}.scope("d")
	rfScope, rfArgs := StatsFilter{From: filter.From, To: filter.To}.scope("rf")

	sel := fmt.Sprintf(`users.user_id, users.name, users.email,
		(SELECT COUNT(*) FROM donation_requests dr WHERE dr.foodbank_id = users.user_id%s) AS total_requests,
		(SELECT COUNT(*) FROM donations d WHERE d.foodbank_id = users.user_id%s) AS total_donations,
		(SELECT COUNT(*) FROM donations d WHERE d.foodbank_id = users.user_id AND d.status IN ('delivered', 'completed')%s) AS donations_received,
		(SELECT COUNT(*) FROM requests_fb rf WHERE rf.foodbank_id = users.user_id AND rf.status = 'fulfilled'%s) AS donations_distributed`,
		drScope, dScope, rcvScope, rfScope)

	args := append(append(append(drArgs, dArgs...), rcvArgs...), rfArgs...)

	var rows []FoodbankStatsRow
	err := r.usersOfRole(ctx, model.RoleFoodbank, filter.UserID).
		Select(sel, args...).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) DonorStats(ctx context.Context, filter StatsFilter) ([]DonorStatsRow, error) {
	dScope, dArgs := filter.scope("d")
	cScope, cArgs := StatsFilter{From: filter.From, To: filter.To}.scope("d")

	sel := fmt.Sprintf(`users.user_id, users.name, users.email,
		(SELECT COUNT(*) FROM donations d WHERE d.donor_id = users.user_id%s) AS total_donations,
		(SELECT COALESCE(SUM(d.quantity), 0) FROM donations d WHERE d.donor_id = users.user_id%s) AS total_quantity,
		(SELECT COUNT(*) FROM donations d WHERE d.donor_id = users.user_id AND d.status = 'completed'%s) AS completed_donations`,
		dScope, dScope, cScope)

	args := append(append(append([]interface{}{}, dArgs...), dArgs...), cArgs...)

	var rows []DonorStatsRow
	err := r.usersOfRole(ctx, model.RoleDonor, filter.UserID).
		Select(sel, args...).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) RecipientStats(ctx context.Context, filter StatsFilter) ([]RecipientStatsRow, error) {
	// status narrows which requests are joined, not which columns are counted
	scope, args := filter.scope("rf")

	sel := `users.user_id, users.name, users.email,
		COUNT(rf.request_fb_id) AS total,
		COUNT(rf.request_fb_id) FILTER (WHERE rf.status = 'pending') AS pending,
		COUNT(rf.request_fb_id) FILTER (WHERE rf.status = 'approved') AS approved,
		COUNT(rf.request_fb_id) FILTER (WHERE rf.status = 'rejected') AS rejected,
		COUNT(rf.request_fb_id) FILTER (WHERE rf.status = 'fulfilled') AS fulfilled`

	var rows []RecipientStatsRow
	err := r.usersOfRole(ctx, model.RoleRecipient, filter.UserID).
		Select(sel).
		Joins("LEFT JOIN requests_fb rf ON rf.recipient_id = users.user_id"+scope, args...).
		Group("users.user_id, users.name, users.email").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) RecipientDemographics(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("COALESCE(sex, '') AS key, COUNT(*) AS count").
		Where("role = ?", model.RoleRecipient).
		Group("1").
		Order("1").
		Scan(&rows).Error
	return rows, err
}
