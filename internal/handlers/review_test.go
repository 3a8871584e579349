package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/webdevzw/reviews-apiserver/internal/services"
	"github.com/webdevzw/reviews-apiserver/internal/store"
	"github.com/webdevzw/reviews-apiserver/types"
)

// --- Mock Review Repository ---

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) List(ctx context.Context, filter store.ReviewFilter) ([]types.Review, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Review), args.Error(1)
}

func (m *mockReviewRepo) Get(ctx context.Context, id string) (types.Review, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.Review), args.Error(1)
}

func (m *mockReviewRepo) Create(ctx context.Context, review types.Review) (types.Review, error) {
	args := m.Called(ctx, review)
	created := args.Get(0).(types.Review)
	if created.ID == "" {
		created = review
		created.ID = "8d2a5f00-0000-0000-0000-000000000001"
		created.CreatedAt = time.Now()
		created.UpdatedAt = created.CreatedAt
	}
	return created, args.Error(1)
}

func (m *mockReviewRepo) Update(ctx context.Context, review types.Review) (types.Review, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(types.Review), args.Error(1)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewRepo) SetTestimonial(ctx context.Context, id string, promote bool) (types.Review, error) {
	args := m.Called(ctx, id, promote)
	return args.Get(0).(types.Review), args.Error(1)
}

func (m *mockReviewRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- Test Helpers ---

func passthroughAuth(next http.Handler) http.Handler {
	return next
}

func newReviewRouter(repo *mockReviewRepo) *chi.Mux {
	reviewService := services.NewReviewService(repo, nil)
	exportService := services.NewExportService(services.CSVFormatter{}, nil, nil)
	handler := NewReviewHandler(reviewService, exportService)

	r := chi.NewRouter()
	r.Post("/api/feedback", handler.SubmitFeedback)
	r.Route("/api/reviews", func(r chi.Router) {
		ReviewRouter(r, handler, passthroughAuth)
	})
	return r
}

const validSubmission = `{
	"service": "WEBSITE_DEVELOPMENT",
	"content": "Outstanding website development. They understood our needs perfectly.",
	"rating": 5,
	"clientEmail": "mark@example.com",
	"clientName": "Mark Johnson",
	"phoneNumber": "1112223333",
	"userId": "anon-1"
}`

func storedReview() types.Review {
	return types.Review{
		ID:          "8d2a5f00-0000-0000-0000-000000000001",
		Service:     types.ServiceWebsiteDevelopment,
		Content:     "Outstanding website development. They understood our needs perfectly.",
		Rating:      5,
		ClientName:  "Mark Johnson",
		ClientEmail: "mark@example.com",
		PhoneNumber: "1112223333",
		UserID:      "anon-1",
		Status:      types.StatusPending,
		CreatedAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

// --- Tests ---

func TestSubmitReviewCreatesPending(t *testing.T) {
	repo := new(mockReviewRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r types.Review) bool {
		return r.Status == types.StatusPending && !r.IsTestimonial
	})).Return(types.Review{}, nil)
	router := newReviewRouter(repo)

	rec := postJSON(router, "/api/reviews/", validSubmission)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    types.Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, types.StatusPending, resp.Data.Status)
	repo.AssertExpectations(t)
}

func TestSubmitFeedbackEnvelope(t *testing.T) {
	repo := new(mockReviewRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(types.Review{}, nil)
	router := newReviewRouter(repo)

	rec := postJSON(router, "/api/feedback", validSubmission)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Review types.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Review.ID)
}

func TestSubmitReviewValidation(t *testing.T) {
	repo := new(mockReviewRepo)
	router := newReviewRouter(repo)

	rec := postJSON(router, "/api/reviews/", `{
		"service": "GARDENING",
		"content": "too short",
		"rating": 6,
		"clientEmail": "not-an-email",
		"clientName": "M",
		"userId": "anon-1"
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "service")
	assert.Contains(t, resp.Errors, "rating")
	assert.Contains(t, resp.Errors, "clientEmail")
	assert.Contains(t, resp.Errors, "clientName")

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitReviewStoresClientNameVerbatim(t *testing.T) {
	repo := new(mockReviewRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r types.Review) bool {
		return r.ClientName == " A"
	})).Return(types.Review{}, nil)
	router := newReviewRouter(repo)

	// A padded name passes the same length rule the database enforces;
	// nothing between the two may shorten it.
	rec := postJSON(router, "/api/reviews/", `{
		"service": "HOSTING",
		"content": "Good enough hosting for our needs.",
		"rating": 4,
		"clientEmail": "pad@example.com",
		"clientName": " A",
		"userId": "anon-2"
	}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestSubmitReviewRejectsUnknownFields(t *testing.T) {
	repo := new(mockReviewRepo)
	router := newReviewRouter(repo)

	rec := postJSON(router, "/api/reviews/", `{"service":"HOSTING","content":"good enough hosting","rating":4,"clientEmail":"a@b.co","clientName":"Al","userId":"u1","isTestimonial":true}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListReviews(t *testing.T) {
	repo := new(mockReviewRepo)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f store.ReviewFilter) bool {
		return f.Testimonial == nil && f.Order == store.OrderCreatedDesc
	})).Return([]types.Review{storedReview()}, nil)
	router := newReviewRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var reviews []types.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Mark Johnson", reviews[0].ClientName)
}

func TestPatchReviewNotFound(t *testing.T) {
	repo := new(mockReviewRepo)
	repo.On("Get", mock.Anything, "missing").Return(types.Review{}, store.ErrNotFound)
	router := newReviewRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/api/reviews/missing", strings.NewReader(`{"status":"APPROVED"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "review not found")
}

func TestPatchReviewUpdatesStatus(t *testing.T) {
	repo := new(mockReviewRepo)
	existing := storedReview()
	approved := existing
	approved.Status = types.StatusApproved

	repo.On("Get", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(r types.Review) bool {
		return r.Status == types.StatusApproved
	})).Return(approved, nil)
	router := newReviewRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/api/reviews/"+existing.ID, strings.NewReader(`{"status":"APPROVED"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var updated types.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, types.StatusApproved, updated.Status)
	repo.AssertExpectations(t)
}

func TestPatchReviewRejectsInvalidStatus(t *testing.T) {
	repo := new(mockReviewRepo)
	existing := storedReview()
	router := newReviewRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/api/reviews/"+existing.ID, strings.NewReader(`{"status":"PUBLISHED"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteReview(t *testing.T) {
	repo := new(mockReviewRepo)
	existing := storedReview()
	repo.On("Get", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Delete", mock.Anything, existing.ID).Return(nil)
	router := newReviewRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/reviews/"+existing.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	repo.AssertExpectations(t)
}

func TestDeleteReviewNotFound(t *testing.T) {
	repo := new(mockReviewRepo)
	repo.On("Get", mock.Anything, "missing").Return(types.Review{}, store.ErrNotFound)
	router := newReviewRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/reviews/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetTestimonialPromotes(t *testing.T) {
	repo := new(mockReviewRepo)
	existing := storedReview()
	order := 1
	promoted := existing
	promoted.IsTestimonial = true
	promoted.TestimonialOrder = &order

	repo.On("SetTestimonial", mock.Anything, existing.ID, true).Return(promoted, nil)
	router := newReviewRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/api/reviews/"+existing.ID+"/testimonial", strings.NewReader(`{"isTestimonial":true}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool         `json:"success"`
		Review  types.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Review.IsTestimonial)
	require.NotNil(t, resp.Review.TestimonialOrder)
	assert.Equal(t, 1, *resp.Review.TestimonialOrder)
}

func TestSetTestimonialConflict(t *testing.T) {
	repo := new(mockReviewRepo)
	existing := storedReview()
	repo.On("SetTestimonial", mock.Anything, existing.ID, true).Return(types.Review{}, store.ErrConflict)
	router := newReviewRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/api/reviews/"+existing.ID+"/testimonial", strings.NewReader(`{"isTestimonial":true}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSetTestimonialRequiresFlag(t *testing.T) {
	repo := new(mockReviewRepo)
	existing := storedReview()
	router := newReviewRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/api/reviews/"+existing.ID+"/testimonial", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "SetTestimonial", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportReviews(t *testing.T) {
	repo := new(mockReviewRepo)
	repo.On("List", mock.Anything, mock.Anything).Return([]types.Review{storedReview()}, nil)
	router := newReviewRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Date,Service,Rating,Client Name,Company,Email,Phone,Review"))
}
