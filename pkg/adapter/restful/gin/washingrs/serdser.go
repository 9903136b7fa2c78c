package washingrs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/park-bill/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/park-bill/pkg/core/model"
)

type rawCreateServiceReq struct {
	Plate       string `json:"plate" binding:"required"`
	ServiceType string `json:"service-type" binding:"required,oneof=basic premium deluxe"`
}

type createServiceReq struct {
	Plate       string
	ServiceType model.ServiceType
}

func (rs *resource) DserCreateServiceReq(c *gin.Context) *createServiceReq {
	req := &rawCreateServiceReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	st, err := model.ParseServiceType(req.ServiceType)
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "service-type", err.Error())
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return &createServiceReq{Plate: req.Plate, ServiceType: st}
}

type rawServiceUpdateReq struct {
	Op       string `form:"op" binding:"required,oneof=assign complete"`
	WasherID string `form:"washer-id" binding:"omitempty,number"`
}

type serviceUpdateReq struct {
	ServiceID uuid.UUID
	Op        string
	WasherID  int64
}

func (rs *resource) DserServiceUpdateReq(c *gin.Context) *serviceUpdateReq {
	req := &rawServiceUpdateReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	val := &serviceUpdateReq{Op: req.Op}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	sid, err := uuid.Parse(c.Param("sid"))
	if err != nil {
		serdser.AddErr(&errs, "sid", "Path param sid is not UUID.")
		return nil
	}
	val.ServiceID = sid
	switch req.Op {
	case "assign":
		if serdser.Assert(&errs, req.WasherID != "", "washer-id", "The op=assign requires washer-id.") {
			val.WasherID, err = strconv.ParseInt(req.WasherID, 10, 64)
			serdser.Assert(&errs, err == nil, "washer-id", "The washer-id is not an integer.")
		}
	case "complete":
		serdser.Assert(&errs, req.WasherID == "", "washer-id", "The op=complete does not need washer-id.")
	default:
		panic("unknown op")
	}
	if errs == nil {
		return val
	}
	return nil
}

type rawServicesListReq struct {
	Status string `form:"status" binding:"omitempty,oneof=pending in-progress completed"`
}

type servicesListReq struct {
	AllStatuses bool
	Status      model.ServiceStatus
}

func (rs *resource) DserServicesListReq(c *gin.Context) *servicesListReq {
	req := &rawServicesListReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	if req.Status == "" {
		return &servicesListReq{AllStatuses: true}
	}
	status, err := model.ParseServiceStatus(req.Status)
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "status", err.Error())
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return &servicesListReq{Status: status}
}

type rawEarningsReq struct {
	Commission string `form:"commission" binding:"omitempty,numeric"`
}

type earningsReq struct {
	ServiceID         uuid.UUID
	CommissionPercent *float64
}

func (rs *resource) DserEarningsReq(c *gin.Context) *earningsReq {
	req := &rawEarningsReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	sid, err := uuid.Parse(c.Param("sid"))
	if err != nil {
		serdser.AddErr(&errs, "sid", "Path param sid is not UUID.")
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	val := &earningsReq{ServiceID: sid}
	if req.Commission != "" {
		pct, err := strconv.ParseFloat(req.Commission, 64)
		if !serdser.Assert(
			&errs, err == nil && pct >= 0 && pct <= 100,
			"commission", "The commission must be a percentage in [0, 100].",
		) {
			c.JSON(http.StatusBadRequest, errs)
			return nil
		}
		val.CommissionPercent = &pct
	}
	return val
}

// SerWashingService is the serialized form of a washing service job,
// exposing the enums as strings, the monetary values as integer
// units, and the resolved worker display name.
type SerWashingService struct {
	SID         string     `json:"sid"`
	Plate       string     `json:"plate"`
	ServiceType string     `json:"service-type"`
	Price       int64      `json:"price"`
	Status      string     `json:"status"`
	WasherID    *int64     `json:"washer-id,omitempty"`
	WasherName  string     `json:"washer-name,omitempty"`
	CreatedAt   time.Time  `json:"created-at"`
	StartedAt   *time.Time `json:"started-at,omitempty"`
	CompletedAt *time.Time `json:"completed-at,omitempty"`
}

// SerService serializes the given job, resolving its worker name from
// the names mapping (if assigned and known).
func SerService(
	s model.WashingService, names map[int64]string,
) SerWashingService {
	ser := SerWashingService{
		SID:         s.ID.String(),
		Plate:       s.Plate,
		ServiceType: s.ServiceType.String(),
		Price:       int64(s.Price),
		Status:      s.Status.String(),
		WasherID:    s.WasherID,
		CreatedAt:   s.CreatedAt,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
	}
	if s.WasherID != nil {
		ser.WasherName = names[*s.WasherID]
	}
	return ser
}

// SerWasher is the serialized form of a worker directory record.
type SerWasher struct {
	WID               int64   `json:"wid"`
	Name              string  `json:"name"`
	CommissionPercent float64 `json:"commission-percent"`
}

// SerWashers serializes the given worker directory records.
func SerWashers(ws []model.Washer) []SerWasher {
	out := make([]SerWasher, 0, len(ws))
	for _, w := range ws {
		out = append(out, SerWasher{
			WID:               w.ID,
			Name:              w.Name,
			CommissionPercent: w.CommissionPercent,
		})
	}
	return out
}
