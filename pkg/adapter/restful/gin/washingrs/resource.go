// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package washingrs realizes the washing services resource, allowing
// the job board REST APIs to be accepted and delegated to the washing
// use cases respectively. It also exposes the worker directory
// listing which the job board view needs for its name column.
package washingrs

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/park-bill/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/park-bill/pkg/core/cerr"
	"github.com/momeni/park-bill/pkg/core/clock"
	"github.com/momeni/park-bill/pkg/core/model"
	"github.com/momeni/park-bill/pkg/core/repo"
	"github.com/momeni/park-bill/pkg/core/usecase/washinguc"
)

// Pricebook resolves the frozen price of a washing service tier at
// job creation time.
type Pricebook func(t model.ServiceType) model.Money

type resource struct {
	board   *washinguc.UseCase
	washers repo.Washers
	prices  Pricebook
	clk     clock.Clock
}

// Register instantiates a resource adapting the service board use
// case instance with the relevant REST APIs including:
//  1. POST request to /api/pbweb/v1/services
//     in order to create a Pending job with its tier price frozen.
//  2. PATCH request to /api/pbweb/v1/services/:sid?op=assign|complete
//     in order to advance a job along its state machine.
//  3. GET request to /api/pbweb/v1/services?status=...
//     in order to view the job board with worker names.
//  4. GET request to /api/pbweb/v1/services/:sid/earnings
//     in order to derive the worker earnings of a job.
//  5. GET request to /api/pbweb/v1/washers
//     in order to list the worker directory.
func Register(
	r *gin.RouterGroup,
	board *washinguc.UseCase, washers repo.Washers,
	prices Pricebook, clk clock.Clock,
) {
	rs := &resource{
		board: board, washers: washers, prices: prices, clk: clk,
	}
	r.POST("services", rs.CreateService)
	r.PATCH("services/:sid", rs.UpdateService)
	r.GET("services", rs.ListServices)
	r.GET("services/:sid/earnings", rs.GetEarnings)
	r.GET("washers", rs.ListWashers)
}

func (rs *resource) CreateService(c *gin.Context) {
	req := rs.DserCreateServiceReq(c)
	if req == nil {
		return
	}
	price := rs.prices(req.ServiceType)
	sid, err := rs.board.Create(
		c, req.Plate, req.ServiceType, price, rs.clk.Now(),
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"sid":   sid.String(),
		"price": int64(price),
	})
}

func (rs *resource) UpdateService(c *gin.Context) {
	req := rs.DserServiceUpdateReq(c)
	if req == nil {
		return
	}
	var err error
	switch req.Op {
	case "assign":
		err = rs.board.Assign(c, req.ServiceID, req.WasherID, rs.clk.Now())
	case "complete":
		err = rs.board.Complete(c, req.ServiceID, rs.clk.Now())
	default:
		panic("unexpected op:" + req.Op)
	}
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	s, err := rs.board.Get(req.ServiceID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerService(*s, rs.washerNames(c)))
}

func (rs *resource) ListServices(c *gin.Context) {
	req := rs.DserServicesListReq(c)
	if req == nil {
		return
	}
	var jobs []model.WashingService
	if req.AllStatuses {
		jobs = rs.board.History(model.Day(rs.clk.Now()))
	} else {
		jobs = rs.board.ListByStatus(req.Status)
	}
	names := rs.washerNames(c)
	out := make([]SerWashingService, 0, len(jobs))
	for _, s := range jobs {
		out = append(out, SerService(s, names))
	}
	c.JSON(http.StatusOK, out)
}

func (rs *resource) GetEarnings(c *gin.Context) {
	req := rs.DserEarningsReq(c)
	if req == nil {
		return
	}
	s, err := rs.board.Get(req.ServiceID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	pct := req.CommissionPercent
	if pct == nil {
		if s.WasherID == nil {
			serdser.SerErr(c, cerr.Conflict(fmt.Errorf(
				"service %s has no assigned washer", req.ServiceID,
			)))
			return
		}
		w, err := rs.washers.Resolve(c, *s.WasherID)
		if err != nil {
			serdser.SerErr(c, err)
			return
		}
		pct = &w.CommissionPercent
	}
	earned, err := rs.board.EarningsFor(req.ServiceID, *pct)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	resp := gin.H{
		"sid":                req.ServiceID.String(),
		"commission-percent": *pct,
		"earnings":           int64(earned),
	}
	if s.WasherID != nil {
		resp["washer-id"] = *s.WasherID
	}
	c.JSON(http.StatusOK, resp)
}

func (rs *resource) ListWashers(c *gin.Context) {
	ws, err := rs.washers.List(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerWashers(ws))
}

// washerNames resolves the id to display-name mapping of the worker
// directory. A directory read failure only degrades the name column,
// it does not fail the board view.
func (rs *resource) washerNames(c *gin.Context) map[int64]string {
	ws, err := rs.washers.List(c)
	if err != nil {
		return nil
	}
	names := make(map[int64]string, len(ws))
	for _, w := range ws {
		names[w.ID] = w.Name
	}
	return names
}
