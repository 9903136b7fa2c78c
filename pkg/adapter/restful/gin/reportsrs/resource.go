// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reportsrs realizes the reports resource, exposing the daily
// summary and hourly breakdown aggregations over the REST API. The
// emitted structures are final consumer views; no further derivation
// happens on the client side.
package reportsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/park-bill/pkg/core/clock"
	"github.com/momeni/park-bill/pkg/core/usecase/reportuc"
)

type resource struct {
	reports *reportuc.UseCase
	clk     clock.Clock
}

// Register instantiates a resource adapting the reporting use case
// instance with the relevant REST APIs including:
//  1. GET request to /api/pbweb/v1/reports/daily?date=2006-01-02
//     in order to read one day's summary report.
//  2. GET request to /api/pbweb/v1/reports/hourly?date=2006-01-02
//     in order to read one day's hourly breakdown rows.
//
// A missing date selects the current day. Active sessions contribute
// their live charge at the request instant, so re-reading a running
// day's report advances its revenue monotonically.
func Register(
	r *gin.RouterGroup, reports *reportuc.UseCase, clk clock.Clock,
) {
	rs := &resource{reports: reports, clk: clk}
	r.GET("reports/daily", rs.GetDailyReport)
	r.GET("reports/hourly", rs.GetHourlyReport)
}

func (rs *resource) GetDailyReport(c *gin.Context) {
	req := rs.DserReportReq(c)
	if req == nil {
		return
	}
	summary := rs.reports.Daily(req.Day, rs.clk.Now())
	c.JSON(http.StatusOK, SerDailySummary(req.Day, summary))
}

func (rs *resource) GetHourlyReport(c *gin.Context) {
	req := rs.DserReportReq(c)
	if req == nil {
		return
	}
	buckets := rs.reports.Hourly(req.Day, rs.clk.Now())
	c.JSON(http.StatusOK, SerHourlyBuckets(req.Day, buckets))
}
