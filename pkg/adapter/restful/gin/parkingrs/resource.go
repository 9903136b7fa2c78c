// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package parkingrs realizes the parking sessions resource, allowing
// the parking ledger REST APIs to be accepted and delegated to the
// parking use cases respectively.
package parkingrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/park-bill/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/park-bill/pkg/core/clock"
	"github.com/momeni/park-bill/pkg/core/model"
	"github.com/momeni/park-bill/pkg/core/usecase/parkinguc"
)

type resource struct {
	parking *parkinguc.UseCase
	clk     clock.Clock
}

// Register instantiates a resource adapting the parking ledger use
// case instance with the relevant REST APIs including:
//  1. POST request to /api/pbweb/v1/sessions
//     in order to open a parking session for an entering vehicle.
//  2. PATCH request to /api/pbweb/v1/sessions/:sid?op=close
//     in order to close a session, freezing its total cost.
//  3. GET request to /api/pbweb/v1/sessions
//     in order to list the active sessions with their live charges
//     (?active=false lists the whole current day instead).
func Register(
	r *gin.RouterGroup, parking *parkinguc.UseCase, clk clock.Clock,
) {
	rs := &resource{parking: parking, clk: clk}
	r.POST("sessions", rs.OpenSession)
	r.PATCH("sessions/:sid", rs.UpdateSession)
	r.GET("sessions", rs.ListSessions)
}

func (rs *resource) OpenSession(c *gin.Context) {
	req := rs.DserOpenSessionReq(c)
	if req == nil {
		return
	}
	now := rs.clk.Now()
	sid, err := rs.parking.Open(
		c, req.Plate, req.Class, req.HelmetCount, now,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"sid":        sid.String(),
		"entry-time": now,
	})
}

func (rs *resource) UpdateSession(c *gin.Context) {
	req := rs.DserSessionUpdateReq(c)
	if req == nil {
		return
	}
	now := rs.clk.Now()
	total, err := rs.parking.Close(c, req.SessionID, now)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sid":        req.SessionID.String(),
		"exit-time":  now,
		"total-cost": int64(total),
	})
}

func (rs *resource) ListSessions(c *gin.Context) {
	req := rs.DserSessionsListReq(c)
	if req == nil {
		return
	}
	now := rs.clk.Now()
	if !req.Active {
		hist := rs.parking.History(model.Day(now))
		c.JSON(http.StatusOK, SerSessions(hist, nil))
		return
	}
	active := rs.parking.ListActive()
	charges := make(map[string]model.Money, len(active))
	for _, s := range active {
		charge, err := rs.parking.CurrentCharge(s.ID, now)
		if err != nil {
			// closed by a racing operator after the snapshot
			continue
		}
		charges[s.ID.String()] = charge
	}
	c.JSON(http.StatusOK, SerSessions(active, charges))
}
