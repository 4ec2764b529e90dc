package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindlingapp/kindling/internal/api"
	"github.com/kindlingapp/kindling/internal/api/models"
	"github.com/kindlingapp/kindling/internal/auth"
	"github.com/kindlingapp/kindling/internal/match"
	"github.com/kindlingapp/kindling/internal/notification"
	"github.com/kindlingapp/kindling/internal/profile"
	"github.com/kindlingapp/kindling/internal/recommendation"
	"github.com/kindlingapp/kindling/internal/swipe"
)

// testJWTService creates a JWT service for generating and validating test
// tokens.
func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.kindling.app",
		Audience:   "kindling-api",
	})
}

// testRouter bundles the router with its in-memory backing stores so tests
// can seed state and assert on side effects.
type testRouter struct {
	handler         http.Handler
	profiles        *profile.InMemoryRepository
	swipes          *swipe.InMemoryRepository
	matches         *match.InMemoryRepository
	recommendations *recommendation.InMemoryRepository
}

func newTestRouter() *testRouter {
	logger := zerolog.New(io.Discard)

	profiles := profile.NewInMemoryRepository()
	swipes := swipe.NewInMemoryRepository()
	matches := match.NewInMemoryRepository()
	recommendations := recommendation.NewInMemoryRepository()

	dispatcher := notification.NewDispatcher(notification.NewMemoryNotifier(), logger)
	detector := match.NewDetector(match.DetectorConfig{
		Swipes:        swipes,
		Matches:       matches,
		Notifications: dispatcher,
		Logger:        logger,
	})
	swipeService := swipe.NewService(swipe.ServiceConfig{
		Swipes:          swipes,
		Profiles:        profiles,
		Recommendations: recommendations,
		Detector:        detector,
		Logger:          logger,
	})
	matchService := match.NewService(matches, logger)

	router := api.NewRouter(api.RouterConfig{
		Version:         "test",
		BuildTime:       "2024-01-01T00:00:00Z",
		Logger:          logger,
		TokenValidator:  testJWTService(),
		Profiles:        profiles,
		SwipeService:    swipeService,
		MatchService:    matchService,
		Recommendations: recommendations,
	})

	return &testRouter{
		handler:         router,
		profiles:        profiles,
		swipes:          swipes,
		matches:         matches,
		recommendations: recommendations,
	}
}

// addAuthHeader adds a valid Bearer token for the given user.
func addAuthHeader(t *testing.T, req *http.Request, userID string) {
	t.Helper()
	token, _, err := testJWTService().GenerateAccessToken(userID)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
}

// seedProfile stores a complete profile with the given coordinates.
func seedProfile(t *testing.T, tr *testRouter, id string, lat, lon float64) *profile.Profile {
	t.Helper()
	loc := &profile.Location{Latitude: lat, Longitude: lon}
	p := &profile.Profile{
		ID:                id,
		FirstName:         "User " + id,
		Email:             id + "@example.com",
		ProfilePictureURL: "https://cdn.kindling.app/" + id + ".jpg",
		Location:          loc,
		IndexedLocation:   loc,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	require.NoError(t, tr.profiles.Create(context.Background(), p))
	return p
}

func TestRouter_HealthCheck(t *testing.T) {
	tr := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	tr := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_SystemStatus(t *testing.T) {
	tr := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	addAuthHeader(t, req, "usr_status")
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	err := json.Unmarshal(w.Body.Bytes(), &status)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, status.Status)
	assert.NotEmpty(t, status.Subsystems)
}

func TestRouter_SystemStatus_RequiresAuth(t *testing.T) {
	tr := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_GetProfile_NotFound(t *testing.T) {
	tr := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/me/profile", http.NoBody)
	addAuthHeader(t, req, "usr_missing")
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_UpsertProfile_CreateThenGet(t *testing.T) {
	tr := newTestRouter()

	input := models.ProfileInput{
		FirstName:         "Alice",
		Email:             "alice@example.com",
		ProfilePictureURL: "https://cdn.kindling.app/alice.jpg",
		Location:          &models.LocationInput{Latitude: 52.37, Longitude: 4.89},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPut, "/v1/me/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req, "usr_alice")
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var created profile.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "usr_alice", created.ID)
	assert.Equal(t, "Alice", created.FirstName)
	require.NotNil(t, created.Location)
	assert.Equal(t, 52.37, created.Location.Latitude)

	req = httptest.NewRequest(http.MethodGet, "/v1/me/profile", http.NoBody)
	addAuthHeader(t, req, "usr_alice")
	w = httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var fetched profile.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, "Alice", fetched.FirstName)
}

func TestRouter_UpsertProfile_ValidationError(t *testing.T) {
	tr := newTestRouter()

	input := models.ProfileInput{
		FirstName: "Bob",
		Location:  &models.LocationInput{Latitude: 123.0, Longitude: 4.89},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPut, "/v1/me/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req, "usr_bob")
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.TraceID)
}

func TestRouter_SubmitSwipe_NoMatch(t *testing.T) {
	tr := newTestRouter()
	seedProfile(t, tr, "usr_a", 52.0, 4.0)
	seedProfile(t, tr, "usr_b", 52.0, 4.1)

	body, _ := json.Marshal(models.SwipeRequest{SwipedProfileID: "usr_b", Type: "like"})

	req := httptest.NewRequest(http.MethodPost, "/v1/swipes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req, "usr_a")
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.SwipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.MatchedUser)
}

func TestRouter_SubmitSwipe_MutualLike(t *testing.T) {
	tr := newTestRouter()
	seedProfile(t, tr, "usr_a", 52.0, 4.0)
	seedProfile(t, tr, "usr_b", 52.0, 4.1)

	submit := func(author, target string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(models.SwipeRequest{SwipedProfileID: target, Type: "like"})
		req := httptest.NewRequest(http.MethodPost, "/v1/swipes", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		addAuthHeader(t, req, author)
		w := httptest.NewRecorder()
		tr.handler.ServeHTTP(w, req)
		return w
	}

	w := submit("usr_b", "usr_a")
	require.Equal(t, http.StatusOK, w.Code)

	w = submit("usr_a", "usr_b")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SwipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.MatchedUser)
	assert.Equal(t, "usr_b", resp.MatchedUser.ID)

	// Both sides now list the match.
	req := httptest.NewRequest(http.MethodGet, "/v1/me/matches", http.NoBody)
	addAuthHeader(t, req, "usr_b")
	w = httptest.NewRecorder()
	tr.handler.ServeHTTP(w, req)

	var matches models.MatchesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matches))
	assert.True(t, matches.Success)
	require.Len(t, matches.Matches, 1)
	assert.Equal(t, "usr_a", matches.Matches[0].ID)
}

func TestRouter_SubmitSwipe_InvalidType(t *testing.T) {
	tr := newTestRouter()
	seedProfile(t, tr, "usr_a", 52.0, 4.0)

	body, _ := json.Marshal(models.SwipeRequest{SwipedProfileID: "usr_b", Type: "wink"})

	req := httptest.NewRequest(http.MethodPost, "/v1/swipes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req, "usr_a")
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SubmitSwipe_RequiresAuth(t *testing.T) {
	tr := newTestRouter()

	body, _ := json.Marshal(models.SwipeRequest{SwipedProfileID: "usr_b", Type: "like"})

	req := httptest.NewRequest(http.MethodPost, "/v1/swipes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ListMatches_Empty(t *testing.T) {
	tr := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/me/matches", http.NoBody)
	addAuthHeader(t, req, "usr_lonely")
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.MatchesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Matches)
}

func TestRouter_ListRecommendations(t *testing.T) {
	tr := newTestRouter()
	seeded := seedProfile(t, tr, "usr_c", 52.0, 4.2)

	err := tr.recommendations.Replace(context.Background(), "usr_a", []recommendation.Candidate{
		{Profile: *seeded, Distance: "8 miles away"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/me/recommendations", http.NoBody)
	addAuthHeader(t, req, "usr_a")
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.RecommendationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsComputing)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "usr_c", resp.Recommendations[0].Profile.ID)
	assert.Equal(t, "8 miles away", resp.Recommendations[0].Distance)
}

func TestRouter_ListRecommendations_EmptyIsNotNull(t *testing.T) {
	tr := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/me/recommendations", http.NoBody)
	addAuthHeader(t, req, "usr_new")
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"recommendations":[]`)
}

func TestRouter_RemoveRecommendation(t *testing.T) {
	tr := newTestRouter()
	seeded := seedProfile(t, tr, "usr_c", 52.0, 4.2)

	err := tr.recommendations.Replace(context.Background(), "usr_a", []recommendation.Candidate{
		{Profile: *seeded},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/v1/me/recommendations/usr_c", http.NoBody)
	addAuthHeader(t, req, "usr_a")
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	count, err := tr.recommendations.Count(context.Background(), "usr_a")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	tr := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	tr := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	tr := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
