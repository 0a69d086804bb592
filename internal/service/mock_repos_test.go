package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/notify"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
	"github.com/ygyuri/foodbank-management-system/internal/repository"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
)

var errMockStore = errors.New("mock store failure")

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	user.CreatedAt = time.Now()
	user.Version = 1
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.Version++
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, _, _ int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(filter.Keyword)) {
			continue
		}
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) Delete(_ context.Context, id, _ string) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

// ── Mock DonationRepository ──

type mockDonationRepo struct {
	donations map[string]*model.Donation
	seq       int
	updates   int
	updateErr error
}

func newMockDonationRepo() *mockDonationRepo {
	return &mockDonationRepo{donations: make(map[string]*model.Donation)}
}

func (m *mockDonationRepo) Create(_ context.Context, d *model.Donation) error {
	if d.DonationID == "" {
		m.seq++
		d.DonationID = fmt.Sprintf("don-%d", m.seq)
	}
	d.CreatedAt = time.Now()
	d.Version = 1
	m.donations[d.DonationID] = d
	return nil
}

func (m *mockDonationRepo) GetByID(_ context.Context, id string) (*model.Donation, error) {
	if d, ok := m.donations[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDonationRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Donation, error) {
	return m.GetByID(ctx, id)
}

func (m *mockDonationRepo) Update(_ context.Context, d *model.Donation) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.donations[d.DonationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.updates++
	d.Version++
	m.donations[d.DonationID] = d
	return nil
}

func (m *mockDonationRepo) List(_ context.Context, filter repository.DonationFilter, _, _ int) ([]model.Donation, int64, error) {
	var result []model.Donation
	for _, d := range m.donations {
		if filter.DonorID != "" && d.DonorID != filter.DonorID {
			continue
		}
		if filter.FoodbankID != "" && (d.FoodbankID == nil || *d.FoodbankID != filter.FoodbankID) {
			continue
		}
		if filter.RecipientID != "" && (d.RecipientID == nil || *d.RecipientID != filter.RecipientID) {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.Type != "" && d.Type != filter.Type {
			continue
		}
		result = append(result, *d)
	}
	return result, int64(len(result)), nil
}

func (m *mockDonationRepo) Delete(_ context.Context, id, _ string) error {
	if _, ok := m.donations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.donations, id)
	return nil
}

// ── Mock DonationRequestRepository ──

type mockDonationRequestRepo struct {
	requests map[string]*model.DonationRequest
	seq      int
}

func newMockDonationRequestRepo() *mockDonationRequestRepo {
	return &mockDonationRequestRepo{requests: make(map[string]*model.DonationRequest)}
}

func (m *mockDonationRequestRepo) Create(_ context.Context, r *model.DonationRequest) error {
	if r.DonationRequestID == "" {
		m.seq++
		r.DonationRequestID = fmt.Sprintf("dreq-%d", m.seq)
	}
	r.CreatedAt = time.Now()
	r.Version = 1
	m.requests[r.DonationRequestID] = r
	return nil
}

func (m *mockDonationRequestRepo) GetByID(_ context.Context, id string) (*model.DonationRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDonationRequestRepo) Update(_ context.Context, r *model.DonationRequest) error {
	if _, ok := m.requests[r.DonationRequestID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.Version++
	m.requests[r.DonationRequestID] = r
	return nil
}

func (m *mockDonationRequestRepo) List(_ context.Context, filter repository.DonationRequestFilter, _, _ int) ([]model.DonationRequest, int64, error) {
	var result []model.DonationRequest
	for _, r := range m.requests {
		if filter.FoodbankID != "" && r.FoodbankID != filter.FoodbankID {
			continue
		}
		if filter.DonorID != "" && r.DonorID != filter.DonorID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		result = append(result, *r)
	}
	return result, int64(len(result)), nil
}

func (m *mockDonationRequestRepo) Delete(_ context.Context, id, _ string) error {
	if _, ok := m.requests[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.requests, id)
	return nil
}

// ── Mock RequestFBRepository ──

type mockRequestFBRepo struct {
	requests map[string]*model.RequestFB
	seq      int
	updates  int
}

func newMockRequestFBRepo() *mockRequestFBRepo {
	return &mockRequestFBRepo{requests: make(map[string]*model.RequestFB)}
}

func (m *mockRequestFBRepo) Create(_ context.Context, r *model.RequestFB) error {
	if r.RequestFBID == "" {
		m.seq++
		r.RequestFBID = fmt.Sprintf("rfb-%d", m.seq)
	}
	r.CreatedAt = time.Now()
	r.Version = 1
	m.requests[r.RequestFBID] = r
	return nil
}

func (m *mockRequestFBRepo) GetByID(_ context.Context, id string) (*model.RequestFB, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRequestFBRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.RequestFB, error) {
	return m.GetByID(ctx, id)
}

func (m *mockRequestFBRepo) Update(_ context.Context, r *model.RequestFB) error {
	if _, ok := m.requests[r.RequestFBID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.updates++
	r.Version++
	m.requests[r.RequestFBID] = r
	return nil
}

func (m *mockRequestFBRepo) List(_ context.Context, filter repository.RequestFBFilter, _, _ int) ([]model.RequestFB, int64, error) {
	var result []model.RequestFB
	for _, r := range m.requests {
		if filter.RecipientID != "" && r.RecipientID != filter.RecipientID {
			continue
		}
		if filter.FoodbankID != "" && (r.FoodbankID == nil || *r.FoodbankID != filter.FoodbankID) {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		result = append(result, *r)
	}
	return result, int64(len(result)), nil
}

func (m *mockRequestFBRepo) Delete(_ context.Context, id, _ string) error {
	if _, ok := m.requests[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.requests, id)
	return nil
}

// ── Mock FeedbackRepository ──

type mockFeedbackRepo struct {
	items map[string]*model.Feedback
	seq   int
}

func newMockFeedbackRepo() *mockFeedbackRepo {
	return &mockFeedbackRepo{items: make(map[string]*model.Feedback)}
}

func (m *mockFeedbackRepo) Create(_ context.Context, f *model.Feedback) error {
	if f.FeedbackID == "" {
		m.seq++
		f.FeedbackID = fmt.Sprintf("fb-note-%d", m.seq)
	}
	f.CreatedAt = time.Now()
	m.items[f.FeedbackID] = f
	return nil
}

func (m *mockFeedbackRepo) GetByID(_ context.Context, id string) (*model.Feedback, error) {
	if f, ok := m.items[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFeedbackRepo) Update(_ context.Context, f *model.Feedback) error {
	m.items[f.FeedbackID] = f
	return nil
}

func (m *mockFeedbackRepo) List(_ context.Context, filter repository.FeedbackFilter, _, _ int) ([]model.Feedback, int64, error) {
	var result []model.Feedback
	for _, f := range m.items {
		if filter.Participant != "" && f.SenderID != filter.Participant && f.ReceiverID != filter.Participant {
			continue
		}
		if filter.Type != "" && f.Type != filter.Type {
			continue
		}
		result = append(result, *f)
	}
	return result, int64(len(result)), nil
}

func (m *mockFeedbackRepo) Delete(_ context.Context, id, _ string) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

// ── Mock SubscriptionRepository ──

type mockSubscriptionRepo struct {
	subs     map[string]*model.Subscription
	seq      int
	expireAt time.Time
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{subs: make(map[string]*model.Subscription)}
}

func (m *mockSubscriptionRepo) Create(_ context.Context, s *model.Subscription) error {
	if s.SubscriptionID == "" {
		m.seq++
		s.SubscriptionID = fmt.Sprintf("sub-%d", m.seq)
	}
	s.CreatedAt = time.Now()
	m.subs[s.SubscriptionID] = s
	return nil
}

func (m *mockSubscriptionRepo) GetByID(_ context.Context, id string) (*model.Subscription, error) {
	if s, ok := m.subs[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubscriptionRepo) Update(_ context.Context, s *model.Subscription) error {
	m.subs[s.SubscriptionID] = s
	return nil
}

func (m *mockSubscriptionRepo) List(_ context.Context, filter repository.SubscriptionFilter, _, _ int) ([]model.Subscription, int64, error) {
	var result []model.Subscription
	for _, s := range m.subs {
		if filter.FoodbankID != "" && s.FoodbankID != filter.FoodbankID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (m *mockSubscriptionRepo) Delete(_ context.Context, id, _ string) error {
	if _, ok := m.subs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.subs, id)
	return nil
}

func (m *mockSubscriptionRepo) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	m.expireAt = now
	var n int64
	for _, s := range m.subs {
		due := (s.Status == model.SubscriptionTrial && s.TrialEndsAt != nil && s.TrialEndsAt.Before(now)) ||
			(s.Status == model.SubscriptionActive && s.SubscriptionEndsAt != nil && s.SubscriptionEndsAt.Before(now))
		if due {
			s.Status = model.SubscriptionExpired
			n++
		}
	}
	return n, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	mu        sync.Mutex
	items     map[string]*model.Notification
	seq       int
	createErr error
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{items: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if n.NotificationID == "" {
		m.seq++
		n.NotificationID = fmt.Sprintf("ntf-%d", m.seq)
	}
	n.CreatedAt = time.Now()
	m.items[n.NotificationID] = n
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	if n, ok := m.items[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) List(_ context.Context, filter repository.NotificationFilter, _, _ int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.items {
		if filter.UserID != "" && n.UserID != filter.UserID {
			continue
		}
		if filter.UnreadOnly && n.ReadAt != nil {
			continue
		}
		result = append(result, *n)
	}
	return result, int64(len(result)), nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string, at time.Time) error {
	n, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if n.ReadAt == nil {
		n.ReadAt = &at
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string, at time.Time) (int64, error) {
	var count int64
	for _, n := range m.items {
		if n.UserID == userID && n.ReadAt == nil {
			n.ReadAt = &at
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) forUser(userID string) []*model.Notification {
	var out []*model.Notification
	for _, n := range m.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// ── Mock ReportRepository ──

type mockReportRepo struct {
	trend     []repository.TrendRow
	trendUnit string
	from, to  time.Time

	foodbanks    []repository.FoodbankStatsRow
	donors       []repository.DonorStatsRow
	recipients   []repository.RecipientStatsRow
	demographics []repository.GroupCount
	statsFilter  repository.StatsFilter
}

func (m *mockReportRepo) CountUsersByRole(context.Context) ([]repository.GroupCount, error) {
	return []repository.GroupCount{{Key: "donor", Count: 3}, {Key: "foodbank", Count: 1}}, nil
}

func (m *mockReportRepo) CountDonationsByStatus(context.Context) ([]repository.GroupCount, error) {
	return []repository.GroupCount{{Key: "pending", Count: 2, Sum: 15}}, nil
}

func (m *mockReportRepo) SumDonationsByType(context.Context) ([]repository.GroupCount, error) {
	return []repository.GroupCount{{Key: "food", Count: 2, Sum: 15}}, nil
}

func (m *mockReportRepo) CountRequestsFBByStatus(context.Context) ([]repository.GroupCount, error) {
	return nil, nil
}

func (m *mockReportRepo) DonationTrend(_ context.Context, unit string, from, to time.Time) ([]repository.TrendRow, error) {
	m.trendUnit, m.from, m.to = unit, from, to
	return m.trend, nil
}

func (m *mockReportRepo) FoodbankStats(_ context.Context, f repository.StatsFilter) ([]repository.FoodbankStatsRow, error) {
	m.statsFilter = f
	return m.foodbanks, nil
}

func (m *mockReportRepo) DonorStats(_ context.Context, f repository.StatsFilter) ([]repository.DonorStatsRow, error) {
	m.statsFilter = f
	return m.donors, nil
}

func (m *mockReportRepo) RecipientStats(_ context.Context, f repository.StatsFilter) ([]repository.RecipientStatsRow, error) {
	m.statsFilter = f
	return m.recipients, nil
}

func (m *mockReportRepo) RecipientDemographics(context.Context) ([]repository.GroupCount, error) {
	return m.demographics, nil
}

// ── Notifier doubles ──

// recordingNotifier keeps every event instead of delivering it.
type recordingNotifier struct {
	events []notify.Event
}

func (r *recordingNotifier) Dispatch(_ context.Context, e notify.Event) notify.DispatchResult {
	if !e.IsZero() {
		r.events = append(r.events, e)
	}
	return notify.DispatchResult{}
}

func (r *recordingNotifier) kinds() []notify.Kind {
	out := make([]notify.Kind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

type failingMailer struct{ calls int }

func (m *failingMailer) Send(context.Context, string, string, string) error {
	m.calls++
	return errors.New("smtp: connection refused")
}

// ── fixtures ──

type testRepos struct {
	repo         *repository.Repository
	users        *mockUserRepo
	donations    *mockDonationRepo
	donationReqs *mockDonationRequestRepo
	requestsFB   *mockRequestFBRepo
	feedback     *mockFeedbackRepo
	subs         *mockSubscriptionRepo
	notes        *mockNotificationRepo
	reports      *mockReportRepo
}

func newTestRepos() *testRepos {
	r := &testRepos{
		users:        newMockUserRepo(),
		donations:    newMockDonationRepo(),
		donationReqs: newMockDonationRequestRepo(),
		requestsFB:   newMockRequestFBRepo(),
		feedback:     newMockFeedbackRepo(),
		subs:         newMockSubscriptionRepo(),
		notes:        newMockNotificationRepo(),
		reports:      &mockReportRepo{},
	}
	r.repo = &repository.Repository{
		User:            r.users,
		Donation:        r.donations,
		DonationRequest: r.donationReqs,
		RequestFB:       r.requestsFB,
		Feedback:        r.feedback,
		Subscription:    r.subs,
		Notification:    r.notes,
		Report:          r.reports,
	}
	return r
}

func (r *testRepos) addUser(id string, role model.Role, status model.UserStatus) *model.User {
	u := &model.User{
		UserID: id,
		Name:   "User " + id,
		Email:  id + "@example.org",
		Role:   role,
		Status: status,
	}
	u.Version = 1
	r.users.users[id] = u
	return u
}

func (r *testRepos) addDonation(d *model.Donation) *model.Donation {
	if d.Status == "" {
		d.Status = model.DonationPending
	}
	d.Version = 1
	r.donations.donations[d.DonationID] = d
	return d
}

func (r *testRepos) addRequestFB(req *model.RequestFB) *model.RequestFB {
	if req.Status == "" {
		req.Status = model.RequestFBPending
	}
	req.Version = 1
	r.requestsFB.requests[req.RequestFBID] = req
	return req
}

func testAuthorizer() *workflow.Authorizer {
	return workflow.NewAuthorizer(permission.NewPolicy())
}

var (
	adminActor     = workflow.Actor{ID: "admin-1", Role: model.RoleAdmin}
	donorActor     = workflow.Actor{ID: "donor-1", Role: model.RoleDonor}
	foodbankActor  = workflow.Actor{ID: "fb-1", Role: model.RoleFoodbank}
	recipientActor = workflow.Actor{ID: "rcp-1", Role: model.RoleRecipient}
)

// addStandardCast registers the users behind the standard actors, all approved.
func (r *testRepos) addStandardCast() {
	r.addUser(adminActor.ID, model.RoleAdmin, model.UserApproved)
	r.addUser(donorActor.ID, model.RoleDonor, model.UserApproved)
	r.addUser(foodbankActor.ID, model.RoleFoodbank, model.UserApproved)
	r.addUser(recipientActor.ID, model.RoleRecipient, model.UserApproved)
}
