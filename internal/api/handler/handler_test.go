package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/service"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
	"github.com/ygyuri/foodbank-management-system/pkg/response"
)

const (
	testDonationID = "5f0c9a3e-1d2b-4c8e-9a7f-2b6d1e4c8a10"
	testFoodbankID = "0b7e6f42-93d1-4a55-8c2e-6e1f0d9b3a21"
	testRequestID  = "c3a91d7e-5b20-4f6a-b8d4-1a2e3f4c5d6e"
	testDonorID    = "7d4e2a19-6c83-4b1f-a0e5-9f8d7c6b5a43"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = dto.RegisterValidators(v)
	}
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	refreshToken  string
	logoutErr     error
	logoutJTI     string
	logoutRefresh string
	meResult      *dto.UserResponse
	meErr         error
}

func (m *mockAuthService) Register(_ context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: "new-user", Name: req.Name, Email: req.Email, Role: req.Role}, nil
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, token string) (*dto.TokenResponse, error) {
	m.refreshToken = token
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Duration, refresh string) error {
	m.logoutJTI = jti
	m.logoutRefresh = refresh
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock DonationService ──

// Embedding the interface keeps the mock to the methods under test.
type mockDonationService struct {
	service.DonationService
	actor        workflow.Actor
	status       model.DonationStatus
	result       *dto.DonationResponse
	err          error
	listResult   []dto.DonationResponse
	listTotal    int64
	listRequest  *dto.DonationListRequest
	assignTarget string
}

func (m *mockDonationService) List(_ context.Context, actor workflow.Actor, req *dto.DonationListRequest) ([]dto.DonationResponse, int64, error) {
	m.actor = actor
	m.listRequest = req
	return m.listResult, m.listTotal, m.err
}
func (m *mockDonationService) GetByID(_ context.Context, actor workflow.Actor, _ string) (*dto.DonationResponse, error) {
	m.actor = actor
	return m.result, m.err
}
func (m *mockDonationService) Create(_ context.Context, actor workflow.Actor, _ *dto.CreateDonationRequest) (*dto.DonationResponse, error) {
	m.actor = actor
	return m.result, m.err
}
func (m *mockDonationService) UpdateStatus(_ context.Context, actor workflow.Actor, _ string, status model.DonationStatus) (*dto.DonationResponse, error) {
	m.actor = actor
	m.status = status
	return m.result, m.err
}
func (m *mockDonationService) AssignFoodbank(_ context.Context, _ workflow.Actor, _ string, foodbankID string) (*dto.DonationResponse, error) {
	m.assignTarget = foodbankID
	return m.result, m.err
}
func (m *mockDonationService) Complete(_ context.Context, _ workflow.Actor, _ string) (*dto.DonationResponse, error) {
	return m.result, m.err
}

// ── Mock RequestFBService ──

type mockRequestFBService struct {
	service.RequestFBService
	requestID  string
	donationID string
	result     *dto.FulfillmentResponse
	err        error
}

func (m *mockRequestFBService) FulfillWithDonation(_ context.Context, _ workflow.Actor, requestID, donationID string) (*dto.FulfillmentResponse, error) {
	m.requestID = requestID
	m.donationID = donationID
	return m.result, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	data     []byte
	filename string
	err      error
}

func (m *mockExportService) ExportDonations(_ context.Context, _ workflow.Actor, _ *dto.ExportDonationsRequest) (*bytes.Buffer, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	return bytes.NewBuffer(m.data), m.filename, nil
}
func (m *mockExportService) DonorStatement(_ context.Context, _ workflow.Actor, _ string) (*bytes.Buffer, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	return bytes.NewBuffer(m.data), m.filename, nil
}

// ── Mock NotificationService ──

type mockNotificationService struct {
	service.NotificationService
	marked int64
}

func (m *mockNotificationService) MarkAllRead(_ context.Context, _ workflow.Actor) (int64, error) {
	return m.marked, nil
}

// ═══════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	return r, c, w
}

func setAuth(c *gin.Context) {
	setAuthAs(c, "test-user-id", model.RoleAdmin)
}

func setAuthAs(c *gin.Context, userID string, role model.Role) {
	c.Set("user_id", userID)
	c.Set("role", string(role))
	c.Set("token_jti", "test-jti")
	c.Set("token_ttl", 15*time.Minute)
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock, nil)

	r, _, w := setupGin()
	r.POST("/auth/login", h.Login)
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "donor@example.org",
		Password: "secret123",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}

	var found bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "refresh_token" {
			found = true
			if ck.Value != "test-refresh-token" || !ck.HttpOnly || ck.Path != "/api/v1/auth" {
				t.Errorf("unexpected refresh cookie %+v", ck)
			}
		}
	}
	if !found {
		t.Error("expected refresh_token cookie")
	}
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r, _, w := setupGin()
	r.POST("/auth/login", h.Login)
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString("{invalid"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != codeBadParams {
		t.Errorf("expected code %d, got %d", codeBadParams, resp.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials}, nil)

	r, _, w := setupGin()
	r.POST("/auth/login", h.Login)
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "donor@example.org",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != codeInvalidCredential {
		t.Errorf("expected code %d, got %d", codeInvalidCredential, resp.Code)
	}
}

func TestAuthHandler_Login_NotApproved(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrAccountNotApproved}, nil)

	r, _, w := setupGin()
	r.POST("/auth/login", h.Login)
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "fb@example.org",
		Password: "secret123",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestAuthHandler_Register_Created(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r, _, w := setupGin()
	r.POST("/auth/register", h.Register)
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "Nairobi Pantry",
		Email:    "pantry@example.org",
		Password: "secret123",
		Role:     "foodbank",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthHandler_Register_AdminRefused(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r, _, w := setupGin()
	r.POST("/auth/register", h.Register)
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "Mallory",
		Email:    "mallory@example.org",
		Password: "secret123",
		Role:     "admin",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_FromCookie(t *testing.T) {
	mock := &mockAuthService{
		refreshResult: &dto.TokenResponse{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock, nil)

	r, _, w := setupGin()
	r.POST("/auth/refresh", h.RefreshToken)
	req := httptest.NewRequest("POST", "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-refresh"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.refreshToken != "cookie-refresh" {
		t.Errorf("expected the cookie token to be used, got %q", mock.refreshToken)
	}
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r, _, w := setupGin()
	r.POST("/auth/refresh", h.RefreshToken)
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(map[string]string{}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrInvalidToken}, nil)

	r, _, w := setupGin()
	r.POST("/auth/refresh", h.RefreshToken)
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{RefreshToken: "revoked"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != codeInvalidToken {
		t.Errorf("expected code %d, got %d", codeInvalidToken, resp.Code)
	}
}

func TestAuthHandler_Logout_RevokesAndClearsCookie(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock, nil)

	r, _, w := setupGin()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-refresh"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.logoutJTI != "test-jti" || mock.logoutRefresh != "cookie-refresh" {
		t.Errorf("unexpected logout args jti=%q refresh=%q", mock.logoutJTI, mock.logoutRefresh)
	}
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "refresh_token" && ck.MaxAge >= 0 {
			t.Error("expected refresh_token cookie to be cleared")
		}
	}
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r, _, w := setupGin()
	r.GET("/auth/me", h.GetCurrentUser)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/auth/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// DonationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDonationHandler_ListDonations_PassesActor(t *testing.T) {
	mock := &mockDonationService{
		listResult: []dto.DonationResponse{{ID: "don-1"}},
		listTotal:  1,
	}
	h := NewDonationHandler(mock)

	r, _, w := setupGin()
	r.GET("/donations", func(c *gin.Context) {
		setAuthAs(c, "donor-1", model.RoleDonor)
		h.ListDonations(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("GET", "/donations?page=2&page_size=5&status=pending", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if mock.actor.ID != "donor-1" || mock.actor.Role != model.RoleDonor {
		t.Errorf("unexpected actor %+v", mock.actor)
	}
	if mock.listRequest.GetPage() != 2 || mock.listRequest.GetPageSize() != 5 {
		t.Errorf("paging not bound: %+v", mock.listRequest.PaginationRequest)
	}
}

func TestDonationHandler_UpdateStatus(t *testing.T) {
	mock := &mockDonationService{result: &dto.DonationResponse{ID: "don-1", Status: "approved"}}
	h := NewDonationHandler(mock)

	r, _, w := setupGin()
	r.POST("/donations/:id/status", func(c *gin.Context) {
		setAuthAs(c, "fb-1", model.RoleFoodbank)
		h.UpdateDonationStatus(c)
	})
	req := httptest.NewRequest("POST", "/donations/"+testDonationID+"/status", jsonBody(dto.UpdateDonationStatusRequest{Status: "approved"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if mock.status != model.DonationApproved {
		t.Errorf("expected approved, got %s", mock.status)
	}
}

func TestDonationHandler_UpdateStatus_UnknownStatus(t *testing.T) {
	h := NewDonationHandler(&mockDonationService{})

	r, _, w := setupGin()
	r.POST("/donations/:id/status", func(c *gin.Context) {
		setAuth(c)
		h.UpdateDonationStatus(c)
	})
	req := httptest.NewRequest("POST", "/donations/"+testDonationID+"/status", jsonBody(dto.UpdateDonationStatusRequest{Status: "teleported"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDonationHandler_AssignFoodbank(t *testing.T) {
	mock := &mockDonationService{result: &dto.DonationResponse{ID: "don-1"}}
	h := NewDonationHandler(mock)

	r, _, w := setupGin()
	r.POST("/donations/:id/assign-foodbank/:foodbank_id", func(c *gin.Context) {
		setAuth(c)
		h.AssignFoodbank(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("POST", "/donations/"+testDonationID+"/assign-foodbank/"+testFoodbankID, nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.assignTarget != testFoodbankID {
		t.Errorf("expected %s, got %q", testFoodbankID, mock.assignTarget)
	}
}

func TestDonationHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"not found", service.ErrDonationNotFound, http.StatusNotFound, codeNotFound},
		{"not owner", pkgerrors.ErrNotOwner, http.StatusForbidden, codeNotOwner},
		{"no permission", pkgerrors.ErrUnauthorized, http.StatusForbidden, codeUnauthorized},
		{"bad transition", pkgerrors.ErrInvalidTransition, http.StatusConflict, codeInvalidTransition},
		{"already assigned", service.ErrFoodbankAlreadyAssigned, http.StatusConflict, codeInvalidTransition},
		{"completed", service.ErrDonationCompleted, http.StatusConflict, codeConflict},
		{"stale version", service.ErrConcurrentUpdate, http.StatusConflict, codeConflict},
		{"validation", service.ErrFoodbankOnCreate, http.StatusBadRequest, codeValidation},
		{"unknown", errors.New("db down"), http.StatusInternalServerError, 50000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewDonationHandler(&mockDonationService{err: tc.err})

			r, _, w := setupGin()
			r.POST("/donations/:id/complete", func(c *gin.Context) {
				setAuth(c)
				h.CompleteDonation(c)
			})
			r.ServeHTTP(w, httptest.NewRequest("POST", "/donations/"+testDonationID+"/complete", nil))

			if w.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tc.code {
				t.Errorf("expected code %d, got %d", tc.code, resp.Code)
			}
		})
	}
}

func TestDonationHandler_RequiresRole(t *testing.T) {
	h := NewDonationHandler(&mockDonationService{})

	r, _, w := setupGin()
	r.GET("/donations/:id", func(c *gin.Context) {
		c.Set("user_id", "u-1")
		c.Set("role", "superuser")
		h.GetDonation(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("GET", "/donations/"+testDonationID, nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown role: expected 401, got %d", w.Code)
	}
}

func TestDonationHandler_MalformedIDs(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{"donation id", "/donations/abc/assign-foodbank/" + testFoodbankID},
		{"foodbank id", "/donations/" + testDonationID + "/assign-foodbank/fb-9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockDonationService{result: &dto.DonationResponse{}}
			h := NewDonationHandler(mock)

			r, _, w := setupGin()
			r.POST("/donations/:id/assign-foodbank/:foodbank_id", func(c *gin.Context) {
				setAuth(c)
				h.AssignFoodbank(c)
			})
			r.ServeHTTP(w, httptest.NewRequest("POST", tc.path, nil))

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			if resp := parseResponse(w); resp.Code != codeBadParams {
				t.Errorf("expected code %d, got %d", codeBadParams, resp.Code)
			}
			if mock.assignTarget != "" {
				t.Error("service must not be called with a malformed id")
			}
		})
	}
}

func TestDonationHandler_GetDonation_MalformedID(t *testing.T) {
	h := NewDonationHandler(&mockDonationService{result: &dto.DonationResponse{}})

	r, _, w := setupGin()
	r.GET("/donations/:id", func(c *gin.Context) {
		setAuth(c)
		h.GetDonation(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("GET", "/donations/abc", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RequestFBHandler Tests
// ═══════════════════════════════════════════════════════════

func TestRequestFBHandler_AssignDonation(t *testing.T) {
	mock := &mockRequestFBService{result: &dto.FulfillmentResponse{
		Request:  dto.RequestFBResponse{ID: "rfb-1", Status: "fulfilled"},
		Donation: dto.DonationResponse{ID: "don-1"},
	}}
	h := NewRequestFBHandler(mock)

	r, _, w := setupGin()
	r.POST("/requests-fb/:id/assign-donation/:donation_id", func(c *gin.Context) {
		setAuthAs(c, "fb-1", model.RoleFoodbank)
		h.AssignDonation(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("POST", "/requests-fb/"+testRequestID+"/assign-donation/"+testDonationID, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.requestID != testRequestID || mock.donationID != testDonationID {
		t.Errorf("unexpected ids %s/%s", mock.requestID, mock.donationID)
	}
}

func TestRequestFBHandler_AssignDonation_Mismatch(t *testing.T) {
	h := NewRequestFBHandler(&mockRequestFBService{err: service.ErrFulfillmentMismatch})

	r, _, w := setupGin()
	r.POST("/requests-fb/:id/assign-donation/:donation_id", func(c *gin.Context) {
		setAuthAs(c, "fb-1", model.RoleFoodbank)
		h.AssignDonation(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("POST", "/requests-fb/"+testRequestID+"/assign-donation/"+testDonationID, nil))

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != codeMismatch {
		t.Errorf("expected code %d, got %d", codeMismatch, resp.Code)
	}
}

func TestRequestFBHandler_AssignDonation_Unavailable(t *testing.T) {
	h := NewRequestFBHandler(&mockRequestFBService{err: service.ErrDonationUnavailable})

	r, _, w := setupGin()
	r.POST("/requests-fb/:id/assign-donation/:donation_id", func(c *gin.Context) {
		setAuthAs(c, "fb-1", model.RoleFoodbank)
		h.AssignDonation(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("POST", "/requests-fb/"+testRequestID+"/assign-donation/"+testDonationID, nil))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestRequestFBHandler_AssignDonation_MalformedDonationID(t *testing.T) {
	mock := &mockRequestFBService{}
	h := NewRequestFBHandler(mock)

	r, _, w := setupGin()
	r.POST("/requests-fb/:id/assign-donation/:donation_id", func(c *gin.Context) {
		setAuthAs(c, "fb-1", model.RoleFoodbank)
		h.AssignDonation(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("POST", "/requests-fb/"+testRequestID+"/assign-donation/don-1", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if mock.requestID != "" {
		t.Error("service must not be called with a malformed id")
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportDonations(t *testing.T) {
	mock := &mockExportService{data: []byte("PK-fake-xlsx"), filename: "donations_2026-05-01.xlsx"}
	h := NewExportHandler(mock)

	r, _, w := setupGin()
	r.GET("/reports/donations/export", func(c *gin.Context) {
		setAuth(c)
		h.ExportDonations(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/donations/export?status=completed", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != mimeXLSX {
		t.Errorf("unexpected content type %s", ct)
	}
	want := "attachment; filename*=UTF-8''donations_2026-05-01.xlsx"
	if cd := w.Header().Get("Content-Disposition"); cd != want {
		t.Errorf("unexpected disposition %s", cd)
	}
	if w.Body.String() != "PK-fake-xlsx" {
		t.Error("body should be the file bytes")
	}
}

func TestExportHandler_ExportDonations_BadRange(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrInvalidPeriod})

	r, _, w := setupGin()
	r.GET("/reports/donations/export", func(c *gin.Context) {
		setAuth(c)
		h.ExportDonations(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/donations/export?from=2026-05-02&to=2026-05-01", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_DonorStatement(t *testing.T) {
	h := NewExportHandler(&mockExportService{data: []byte("%PDF-1.3"), filename: "statement_donor-1.pdf"})

	r, _, w := setupGin()
	r.GET("/reports/donors/:id/statement", func(c *gin.Context) {
		setAuthAs(c, "donor-1", model.RoleDonor)
		h.DonorStatement(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/donors/"+testDonorID+"/statement", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != mimePDF {
		t.Errorf("unexpected content type %s", ct)
	}
}

// ═══════════════════════════════════════════════════════════
// NotificationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	h := NewNotificationHandler(&mockNotificationService{marked: 3}, nil)

	r, _, w := setupGin()
	r.POST("/notifications/read-all", func(c *gin.Context) {
		setAuthAs(c, "donor-1", model.RoleDonor)
		h.MarkAllRead(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("POST", "/notifications/read-all", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data, _ := parseResponse(w).Data.(map[string]interface{})
	if data["marked"] != float64(3) {
		t.Errorf("expected marked=3, got %v", data["marked"])
	}
}

func TestNotificationHandler_Stream_Disabled(t *testing.T) {
	h := NewNotificationHandler(&mockNotificationService{}, nil)

	r, _, w := setupGin()
	r.GET("/notifications/ws", func(c *gin.Context) {
		setAuthAs(c, "donor-1", model.RoleDonor)
		h.Stream(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("GET", "/notifications/ws", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

type recordingStreamer struct {
	userID string
}

func (s *recordingStreamer) Serve(w http.ResponseWriter, _ *http.Request, userID string) error {
	s.userID = userID
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

func TestNotificationHandler_Stream_UsesCaller(t *testing.T) {
	stream := &recordingStreamer{}
	h := NewNotificationHandler(&mockNotificationService{}, stream)

	r, _, w := setupGin()
	r.GET("/notifications/ws", func(c *gin.Context) {
		setAuthAs(c, "rcp-1", model.RoleRecipient)
		h.Stream(c)
	})
	r.ServeHTTP(w, httptest.NewRequest("GET", "/notifications/ws", nil))

	if stream.userID != "rcp-1" {
		t.Errorf("stream should be bound to the caller, got %q", stream.userID)
	}
}
