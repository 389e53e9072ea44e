package scoring

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, model *stubPredictor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := newTestService(t, model)
	h := NewHandler(svc)

	r := gin.New()
	h.RegisterRoutes(r.Group("/v1"))
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPredictSafety_OK(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 58.126})

	w := doJSON(r, "POST", "/v1/predict/safety", `{"state":"Tamil Nadu","year":2021}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		State       string  `json:"state"`
		Year        int     `json:"year"`
		SafetyScore float64 `json:"safety_score"`
		RiskLevel   string  `json:"risk_level"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "Tamil Nadu", body.State)
	assert.Equal(t, 2021, body.Year)
	assert.Equal(t, 58.13, body.SafetyScore)
	assert.Equal(t, string(Classify(body.SafetyScore)), body.RiskLevel)
}

func TestPredictSafety_NotFound(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 50})

	w := doJSON(r, "POST", "/v1/predict/safety", `{"state":"NoSuchState","year":2021}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestPredictSafety_YearOutOfRange(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 50})

	for _, body := range []string{
		`{"state":"Delhi","year":1999}`,
		`{"state":"Delhi","year":2026}`,
		`{"state":"Delhi"}`,
		`{"year":2021}`,
	} {
		w := doJSON(r, "POST", "/v1/predict/safety", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestPredictSafety_PredictorFailure(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{err: errors.New("boom")})

	w := doJSON(r, "POST", "/v1/predict/safety", `{"state":"Delhi","year":2021}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
	// Predictor detail must not leak to the client
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestSimulate_OK(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 81.005})

	w := doJSON(r, "POST", "/v1/predict/simulate", `{
		"year": 2021,
		"rape": 100,
		"kidnapping": 50,
		"dowry_deaths": 20,
		"assault_on_women": 150,
		"assault_on_minors": 30,
		"domestic_violence": 80,
		"trafficking": 10
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		SafetyScore float64 `json:"safety_score"`
		RiskLevel   string  `json:"risk_level"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(RiskLow), body.RiskLevel)
}

func TestSimulate_AllZero(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 50})

	w := doJSON(r, "POST", "/v1/predict/simulate", `{
		"year": 2021,
		"rape": 0,
		"kidnapping": 0,
		"dowry_deaths": 0,
		"assault_on_women": 0,
		"assault_on_minors": 0,
		"domestic_violence": 0,
		"trafficking": 0
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_input")
}

func TestSimulate_MissingCount(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 50})

	// trafficking absent: schema-level rejection, not a business-rule one
	w := doJSON(r, "POST", "/v1/predict/simulate", `{
		"year": 2021,
		"rape": 100,
		"kidnapping": 50,
		"dowry_deaths": 20,
		"assault_on_women": 150,
		"assault_on_minors": 30,
		"domestic_violence": 80
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request")
}

func TestTrends_OK(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 50})

	w := doJSON(r, "GET", "/v1/trends?state=Delhi&crime=Rape", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		State string       `json:"state"`
		Crime string       `json:"crime"`
		Data  []TrendPoint `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "Delhi", body.State)
	assert.Equal(t, "Rape", body.Crime)
	require.Len(t, body.Data, 3)
	for i := 1; i < len(body.Data); i++ {
		assert.Less(t, body.Data[i-1].Year, body.Data[i].Year)
	}
}

func TestTrends_InvalidCrime(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 50})

	w := doJSON(r, "GET", "/v1/trends?state=Delhi&crime=InvalidCrime", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_input")
}

func TestTrends_UnknownState(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 50})

	w := doJSON(r, "GET", "/v1/trends?state=Atlantis&crime=Rape", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrends_MissingParams(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 50})

	w := doJSON(r, "GET", "/v1/trends?state=Delhi", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request")
}

func TestLeaderboard_YearFilter(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 50})

	w := doJSON(r, "GET", "/v1/leaderboard?year=2021", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
		Count       int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 3, body.Count)
	for i := 1; i < len(body.Leaderboard); i++ {
		assert.LessOrEqual(t, body.Leaderboard[i-1].Score, body.Leaderboard[i].Score)
	}
}

func TestLeaderboard_NoYear(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 50})

	w := doJSON(r, "GET", "/v1/leaderboard", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestLeaderboard_EmptyYear(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 50})

	w := doJSON(r, "GET", "/v1/leaderboard?year=1999", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaderboard_BadYear(t *testing.T) {
	r := newTestRouter(t, &stubPredictor{score: 50})

	w := doJSON(r, "GET", "/v1/leaderboard?year=twenty21", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
