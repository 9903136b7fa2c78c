package parkingrs

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/park-bill/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/park-bill/pkg/core/model"
)

type rawOpenSessionReq struct {
	Plate        string `json:"plate" binding:"required"`
	VehicleClass string `json:"vehicle-class" binding:"required,oneof=car motorcycle"`
	HelmetCount  int    `json:"helmet-count" binding:"omitempty,min=0"`
}

type openSessionReq struct {
	Plate       string
	Class       model.VehicleClass
	HelmetCount int
}

func (rs *resource) DserOpenSessionReq(c *gin.Context) *openSessionReq {
	req := &rawOpenSessionReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	class, err := model.ParseVehicleClass(req.VehicleClass)
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "vehicle-class", err.Error())
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return &openSessionReq{
		Plate:       req.Plate,
		Class:       class,
		HelmetCount: req.HelmetCount,
	}
}

type rawSessionUpdateReq struct {
	Op string `form:"op" binding:"required,oneof=close"`
}

type sessionUpdateReq struct {
	SessionID uuid.UUID
	Op        string
}

func (rs *resource) DserSessionUpdateReq(c *gin.Context) *sessionUpdateReq {
	req := &rawSessionUpdateReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	sid, err := uuid.Parse(c.Param("sid"))
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "sid", "Path param sid is not UUID.")
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return &sessionUpdateReq{SessionID: sid, Op: req.Op}
}

type rawSessionsListReq struct {
	Active string `form:"active" binding:"omitempty,oneof=true false"`
}

type sessionsListReq struct {
	Active bool
}

func (rs *resource) DserSessionsListReq(c *gin.Context) *sessionsListReq {
	req := &rawSessionsListReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	return &sessionsListReq{Active: req.Active != "false"}
}

// SerSession is the serialized form of a parking session, exposing
// the enums as strings and the monetary values as integer units.
type SerSession struct {
	SID           string     `json:"sid"`
	Plate         string     `json:"plate"`
	VehicleClass  string     `json:"vehicle-class"`
	EntryTime     time.Time  `json:"entry-time"`
	ExitTime      *time.Time `json:"exit-time,omitempty"`
	HelmetCount   int        `json:"helmet-count"`
	Status        string     `json:"status"`
	TotalCost     *int64     `json:"total-cost,omitempty"`
	CurrentCharge *int64     `json:"current-charge,omitempty"`
}

// SerSessions serializes the given sessions, attaching the live
// charge of each Active session when the charges map provides one.
func SerSessions(
	sessions []model.ParkingSession, charges map[string]model.Money,
) []SerSession {
	out := make([]SerSession, 0, len(sessions))
	for _, s := range sessions {
		ser := SerSession{
			SID:          s.ID.String(),
			Plate:        s.Plate,
			VehicleClass: s.VehicleClass.String(),
			EntryTime:    s.EntryTime,
			ExitTime:     s.ExitTime,
			HelmetCount:  s.HelmetCount,
			Status:       s.Status.String(),
		}
		if s.Status == model.SessionStatusCompleted {
			cost := int64(s.TotalCost)
			ser.TotalCost = &cost
		}
		if charge, ok := charges[ser.SID]; ok {
			cc := int64(charge)
			ser.CurrentCharge = &cc
		}
		out = append(out, ser)
	}
	return out
}
