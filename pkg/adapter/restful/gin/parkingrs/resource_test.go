package parkingrs_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/momeni/park-bill/pkg/adapter/restful/gin/parkingrs"
	"github.com/momeni/park-bill/pkg/core/model"
	"github.com/momeni/park-bill/pkg/core/usecase/parkinguc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a mutable time source, so one test may open a session
// and close it hours later without sleeping.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func newServer(t *testing.T, clk *fakeClock) *gin.Engine {
	t.Helper()
	rates, err := model.NewRateConfig(
		2000.0/60, 1000.0/60, 5000, 0, 2,
	)
	require.NoError(t, err)
	uc, err := parkinguc.New(rates)
	require.NoError(t, err)
	gin.SetMode(gin.TestMode)
	e := gin.New()
	parkingrs.Register(e.Group("/api/pbweb/v1"), uc, clk)
	return e
}

func do(
	t *testing.T, e *gin.Engine,
	method, target, body string, res any,
) int {
	t.Helper()
	req, err := http.NewRequest(
		method, target, strings.NewReader(body),
	)
	require.NoError(t, err)
	req.Header.Add("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if res != nil {
		require.NoError(
			t, json.Unmarshal(w.Body.Bytes(), res),
			"body is not json: %s", w.Body.String(),
		)
	}
	return w.Code
}

func TestOpenListClose(t *testing.T) {
	clk := &fakeClock{
		now: time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC),
	}
	e := newServer(t, clk)

	opened := &struct {
		SID string `json:"sid"`
	}{}
	code := do(t, e, http.MethodPost, "/api/pbweb/v1/sessions",
		`{"plate": "ABC-123", "vehicle-class": "car"}`, opened)
	require.Equal(t, 201, code)

	// 45 minutes later the live charge is one full car hour
	clk.now = clk.now.Add(45 * time.Minute)
	var active []struct {
		SID           string `json:"sid"`
		Plate         string `json:"plate"`
		VehicleClass  string `json:"vehicle-class"`
		CurrentCharge *int64 `json:"current-charge"`
	}
	code = do(t, e, http.MethodGet, "/api/pbweb/v1/sessions", "", &active)
	require.Equal(t, 200, code)
	require.Len(t, active, 1)
	assert.Equal(t, "ABC123", active[0].Plate)
	assert.Equal(t, "car", active[0].VehicleClass)
	require.NotNil(t, active[0].CurrentCharge)
	assert.Equal(t, int64(2000), *active[0].CurrentCharge)

	// 2h10m total is billed as 3 hours
	clk.now = clk.now.Add(85 * time.Minute)
	closed := &struct {
		TotalCost int64 `json:"total-cost"`
	}{}
	code = do(t, e, http.MethodPatch,
		"/api/pbweb/v1/sessions/"+opened.SID+"?op=close", "", closed)
	require.Equal(t, 200, code)
	assert.Equal(t, int64(6000), closed.TotalCost)

	code = do(t, e, http.MethodPatch,
		"/api/pbweb/v1/sessions/"+opened.SID+"?op=close", "",
		&struct{}{})
	assert.Equal(t, 404, code)
}

func TestOpenBeyondCapacity(t *testing.T) {
	clk := &fakeClock{
		now: time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC),
	}
	e := newServer(t, clk) // capacity of two slots

	for i, plate := range []string{"11A11", "22B22"} {
		code := do(t, e, http.MethodPost, "/api/pbweb/v1/sessions",
			`{"plate": "`+plate+`", "vehicle-class": "car"}`,
			&struct{}{})
		require.Equal(t, 201, code, "open #%d", i+1)
	}
	res := &struct {
		Detail string
	}{}
	code := do(t, e, http.MethodPost, "/api/pbweb/v1/sessions",
		`{"plate": "33C33", "vehicle-class": "motorcycle"}`, res)
	assert.Equal(t, 409, code)
	assert.Contains(t, res.Detail, "capacity exceeded")
}

func TestUpdateSessionBadOp(t *testing.T) {
	clk := &fakeClock{
		now: time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC),
	}
	e := newServer(t, clk)

	opened := &struct {
		SID string `json:"sid"`
	}{}
	code := do(t, e, http.MethodPost, "/api/pbweb/v1/sessions",
		`{"plate": "55D55", "vehicle-class": "car"}`, opened)
	require.Equal(t, 201, code)

	code = do(t, e, http.MethodPatch,
		"/api/pbweb/v1/sessions/"+opened.SID+"?op=reopen", "",
		&struct{}{})
	assert.Equal(t, 400, code)

	code = do(t, e, http.MethodPatch,
		"/api/pbweb/v1/sessions/not-a-uuid?op=close", "", &struct{}{})
	assert.Equal(t, 400, code)
}
