// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/park-bill/internal/test/dbcontainer"
	"github.com/momeni/park-bill/pkg/adapter/config"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres"
	"github.com/momeni/park-bill/pkg/adapter/restful/gin"
	"github.com/momeni/park-bill/pkg/adapter/restful/gin/routes"
	"github.com/momeni/park-bill/pkg/core/repo"
	"github.com/stretchr/testify/suite"
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Gin  *gin.Engine
}

func TestIntegrationGinTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	sql, err := os.ReadFile("testdata/schema.sql")
	igts.Require().NoError(err, "failed to read schema.sql file")
	err = igts.Pool.Conn(
		igts.Ctx, func(ctx context.Context, c repo.Conn) error {
			_, err := c.Exec(ctx, string(sql))
			return err
		},
	)
	igts.Require().NoError(err, "failed to create schema contents")

	igts.Gin = gin.New(gin.Logger(), gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	cfg := &config.Config{}
	igts.Require().NoError(cfg.ValidateAndNormalize())
	err = routes.Register(igts.Ctx, igts.Gin, igts.Pool, cfg)
	igts.Require().NoError(err, "failed to register Gin routes")
}

func stringAddr(s string) *string {
	return &s
}

func jsonEncoded(m map[string]any) io.Reader {
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return strings.NewReader(string(b))
}

func (igts *IntegrationGinTestSuite) sendReqRecvResp(
	w *httptest.ResponseRecorder, req *http.Request, res any,
) {
	req.Header.Add("Content-Type", "application/json")
	igts.Gin.ServeHTTP(w, req)
	b := w.Body.Bytes()
	igts.NoError(json.Unmarshal(b, res), "body is not json")
}

func (igts *IntegrationGinTestSuite) assertOptContains(
	expectedPart *string, seen []string, msgAndArgs ...any,
) bool {
	if expectedPart == nil {
		return true
	}
	if !igts.Equal(1, len(seen), msgAndArgs...) {
		return false
	}
	return igts.Contains(seen[0], *expectedPart, msgAndArgs...)
}

func (igts *IntegrationGinTestSuite) TestBadRequest() {
	for _, tc := range []struct {
		name         string
		body         io.Reader
		detail       *string
		plate        *string
		vehicleClass *string
	}{
		{
			name:   "no body",
			body:   nil,
			detail: stringAddr("EOF"),
		},
		{
			name:  "empty body",
			body:  jsonEncoded(nil),
			plate: stringAddr("failed on the 'required' tag"),
		},
		{
			name: "invalid vehicle class",
			body: jsonEncoded(map[string]any{
				"plate":         "11X22",
				"vehicle-class": "truck",
			}),
			vehicleClass: stringAddr("failed on the 'oneof' tag"),
		},
		{
			name: "negative helmet count",
			body: jsonEncoded(map[string]any{
				"plate":         "11X22",
				"vehicle-class": "motorcycle",
				"helmet-count":  -1,
			}),
			vehicleClass: nil,
			detail:       nil,
			plate:        nil,
		},
	} {
		igts.Run(tc.name, func() {
			w := httptest.NewRecorder()
			req, err := http.NewRequest(
				http.MethodPost, "/api/pbweb/v1/sessions", tc.body,
			)
			igts.Require().NoError(err, "cannot create POST request")

			res := &struct {
				Detail       string
				Plate        []string
				VehicleClass []string `json:"vehicle-class"`
				HelmetCount  []string `json:"helmet-count"`
			}{}
			igts.sendReqRecvResp(w, req, res)

			igts.Equal(400, w.Code)
			if tc.detail != nil {
				igts.Contains(res.Detail, *tc.detail, "wrong detail")
			}
			igts.assertOptContains(tc.plate, res.Plate, "wrong plate")
			igts.assertOptContains(
				tc.vehicleClass, res.VehicleClass, "wrong vehicle-class",
			)
		})
	}
}

func (igts *IntegrationGinTestSuite) TestParkingFlow() {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodPost, "/api/pbweb/v1/sessions",
		jsonEncoded(map[string]any{
			"plate":         "22 X 333",
			"vehicle-class": "motorcycle",
			"helmet-count":  2,
		}),
	)
	igts.Require().NoError(err, "cannot create POST request")
	opened := &struct {
		SID string `json:"sid"`
	}{}
	igts.sendReqRecvResp(w, req, opened)
	igts.Require().Equal(201, w.Code)
	sid, err := uuid.Parse(opened.SID)
	igts.Require().NoError(err, "sid is not UUID")
	igts.NotEqual(uuid.Nil, sid)

	// the same plate, in another raw spelling, must conflict
	w = httptest.NewRecorder()
	req, err = http.NewRequest(
		http.MethodPost, "/api/pbweb/v1/sessions",
		jsonEncoded(map[string]any{
			"plate":         "22x333",
			"vehicle-class": "motorcycle",
		}),
	)
	igts.Require().NoError(err, "cannot create POST request")
	dup := &struct {
		Detail string
	}{}
	igts.sendReqRecvResp(w, req, dup)
	igts.Equal(409, w.Code)
	igts.Contains(dup.Detail, "already exists for this plate")

	// active listing exposes the live charge: one billable hour of
	// the motorcycle rate plus two stored helmets
	w = httptest.NewRecorder()
	req, err = http.NewRequest(
		http.MethodGet, "/api/pbweb/v1/sessions", nil,
	)
	igts.Require().NoError(err, "cannot create GET request")
	var active []struct {
		SID           string `json:"sid"`
		Plate         string `json:"plate"`
		Status        string `json:"status"`
		CurrentCharge *int64 `json:"current-charge"`
	}
	igts.sendReqRecvResp(w, req, &active)
	igts.Equal(200, w.Code)
	igts.Require().Len(active, 1)
	igts.Equal(opened.SID, active[0].SID)
	igts.Equal("22X333", active[0].Plate)
	igts.Equal("active", active[0].Status)
	igts.Require().NotNil(active[0].CurrentCharge)
	igts.Equal(int64(1000+2*5000), *active[0].CurrentCharge)

	// close freezes the same charge (still within the first hour)
	w = httptest.NewRecorder()
	req, err = http.NewRequest(
		http.MethodPatch,
		"/api/pbweb/v1/sessions/"+opened.SID+"?op=close", nil,
	)
	igts.Require().NoError(err, "cannot create PATCH request")
	closed := &struct {
		SID       string `json:"sid"`
		TotalCost int64  `json:"total-cost"`
	}{}
	igts.sendReqRecvResp(w, req, closed)
	igts.Equal(200, w.Code)
	igts.Equal(int64(11000), closed.TotalCost)

	// a double-submitted close observes a clean 404, not a recharge
	w = httptest.NewRecorder()
	req, err = http.NewRequest(
		http.MethodPatch,
		"/api/pbweb/v1/sessions/"+opened.SID+"?op=close", nil,
	)
	igts.Require().NoError(err, "cannot create PATCH request")
	again := &struct {
		Detail string
	}{}
	igts.sendReqRecvResp(w, req, again)
	igts.Equal(404, w.Code)
	igts.Contains(again.Detail, "no active parking session")
}

func (igts *IntegrationGinTestSuite) TestWashingFlow() {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodPost, "/api/pbweb/v1/services",
		jsonEncoded(map[string]any{
			"plate":        "77B88",
			"service-type": "premium",
		}),
	)
	igts.Require().NoError(err, "cannot create POST request")
	created := &struct {
		SID   string `json:"sid"`
		Price int64  `json:"price"`
	}{}
	igts.sendReqRecvResp(w, req, created)
	igts.Require().Equal(201, w.Code)
	igts.Equal(int64(45000), created.Price)

	// completing a Pending job is not a valid transition
	w = httptest.NewRecorder()
	req, err = http.NewRequest(
		http.MethodPatch,
		"/api/pbweb/v1/services/"+created.SID+"?op=complete", nil,
	)
	igts.Require().NoError(err, "cannot create PATCH request")
	rejected := &struct {
		Detail string
	}{}
	igts.sendReqRecvResp(w, req, rejected)
	igts.Equal(409, w.Code)
	igts.Contains(rejected.Detail, "invalid")

	// assign to the seeded washer 7 (Dana, 20%)
	w = httptest.NewRecorder()
	req, err = http.NewRequest(
		http.MethodPatch,
		"/api/pbweb/v1/services/"+created.SID+"?op=assign&washer-id=7",
		nil,
	)
	igts.Require().NoError(err, "cannot create PATCH request")
	assigned := &struct {
		SID        string `json:"sid"`
		Status     string `json:"status"`
		WasherID   *int64 `json:"washer-id"`
		WasherName string `json:"washer-name"`
	}{}
	igts.sendReqRecvResp(w, req, assigned)
	igts.Equal(200, w.Code)
	igts.Equal("in-progress", assigned.Status)
	igts.Require().NotNil(assigned.WasherID)
	igts.Equal(int64(7), *assigned.WasherID)
	igts.Equal("Dana", assigned.WasherName)

	// an unknown washer cannot be assigned
	w = httptest.NewRecorder()
	req, err = http.NewRequest(
		http.MethodPatch,
		"/api/pbweb/v1/services/"+created.SID+"?op=assign&washer-id=1000",
		nil,
	)
	igts.Require().NoError(err, "cannot create PATCH request")
	unknown := &struct {
		Detail string
	}{}
	igts.sendReqRecvResp(w, req, unknown)
	igts.Equal(409, w.Code) // already in-progress wins over lookup

	// directory-resolved commission: 20% of 45000
	w = httptest.NewRecorder()
	req, err = http.NewRequest(
		http.MethodGet,
		"/api/pbweb/v1/services/"+created.SID+"/earnings", nil,
	)
	igts.Require().NoError(err, "cannot create GET request")
	earned := &struct {
		CommissionPercent float64 `json:"commission-percent"`
		Earnings          int64   `json:"earnings"`
	}{}
	igts.sendReqRecvResp(w, req, earned)
	igts.Equal(200, w.Code)
	igts.Equal(20.0, earned.CommissionPercent)
	igts.Equal(int64(9000), earned.Earnings)

	// an explicit commission parameter overrides the directory
	w = httptest.NewRecorder()
	req, err = http.NewRequest(
		http.MethodGet,
		"/api/pbweb/v1/services/"+created.SID+"/earnings?commission=50",
		nil,
	)
	igts.Require().NoError(err, "cannot create GET request")
	igts.sendReqRecvResp(w, req, earned)
	igts.Equal(200, w.Code)
	igts.Equal(int64(22500), earned.Earnings)

	// complete and verify the terminal state sticks
	w = httptest.NewRecorder()
	req, err = http.NewRequest(
		http.MethodPatch,
		"/api/pbweb/v1/services/"+created.SID+"?op=complete", nil,
	)
	igts.Require().NoError(err, "cannot create PATCH request")
	completed := &struct {
		Status string `json:"status"`
	}{}
	igts.sendReqRecvResp(w, req, completed)
	igts.Equal(200, w.Code)
	igts.Equal("completed", completed.Status)

	w = httptest.NewRecorder()
	req, err = http.NewRequest(
		http.MethodPatch,
		"/api/pbweb/v1/services/"+created.SID+"?op=complete", nil,
	)
	igts.Require().NoError(err, "cannot create PATCH request")
	igts.sendReqRecvResp(w, req, rejected)
	igts.Equal(409, w.Code)
}

func (igts *IntegrationGinTestSuite) TestWasherDirectory() {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodGet, "/api/pbweb/v1/washers", nil,
	)
	igts.Require().NoError(err, "cannot create GET request")
	var washers []struct {
		WID               int64   `json:"wid"`
		Name              string  `json:"name"`
		CommissionPercent float64 `json:"commission-percent"`
	}
	igts.sendReqRecvResp(w, req, &washers)
	igts.Equal(200, w.Code)
	igts.Require().Len(washers, 2)
	igts.Equal("Dana", washers[0].Name)
	igts.Equal(25.0, washers[1].CommissionPercent)
}

func (igts *IntegrationGinTestSuite) TestZReports() {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodGet, "/api/pbweb/v1/reports/daily", nil,
	)
	igts.Require().NoError(err, "cannot create GET request")
	daily := &struct {
		Date                string  `json:"date"`
		TotalRevenue        int64   `json:"total-revenue"`
		AverageTicket       float64 `json:"average-ticket"`
		OccupancyPercentage float64 `json:"occupancy-percentage"`
	}{}
	igts.sendReqRecvResp(w, req, daily)
	igts.Equal(200, w.Code)
	igts.Equal(time.Now().Format("2006-01-02"), daily.Date)
	igts.GreaterOrEqual(daily.OccupancyPercentage, 0.0)
	igts.LessOrEqual(daily.OccupancyPercentage, 100.0)

	w = httptest.NewRecorder()
	req, err = http.NewRequest(
		http.MethodGet, "/api/pbweb/v1/reports/hourly", nil,
	)
	igts.Require().NoError(err, "cannot create GET request")
	hourly := &struct {
		Date    string `json:"date"`
		Buckets []struct {
			Label         string  `json:"label"`
			Revenue       int64   `json:"revenue"`
			AverageTicket float64 `json:"average-ticket"`
		} `json:"buckets"`
	}{}
	igts.sendReqRecvResp(w, req, hourly)
	igts.Equal(200, w.Code)
	igts.Require().Len(hourly.Buckets, 18, "default 06:00-24:00 window")
	igts.Equal("06:00-07:00", hourly.Buckets[0].Label)
	igts.Equal("23:00-24:00", hourly.Buckets[17].Label)

	if h := time.Now().Hour(); h >= 6 {
		// outside the operating window, entities fall in no bucket
		var total int64
		for _, b := range hourly.Buckets {
			total += b.Revenue
		}
		igts.Equal(daily.TotalRevenue, total,
			"hourly revenues must sum to the daily total")
	}
}
