package reportsrs

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/park-bill/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/park-bill/pkg/core/model"
)

type rawReportReq struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

type reportReq struct {
	Day time.Time
}

func (rs *resource) DserReportReq(c *gin.Context) *reportReq {
	req := &rawReportReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	if req.Date == "" {
		return &reportReq{Day: rs.clk.Now()}
	}
	day, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "date", err.Error())
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return &reportReq{Day: day}
}

// SerDaily is the serialized form of one day's summary report.
type SerDaily struct {
	Date                string  `json:"date"`
	TotalParkings       int     `json:"total-parkings"`
	TotalWashing        int     `json:"total-washing"`
	ParkingRevenue      int64   `json:"parking-revenue"`
	WashingRevenue      int64   `json:"washing-revenue"`
	TotalRevenue        int64   `json:"total-revenue"`
	AverageTicket       float64 `json:"average-ticket"`
	OccupancyPercentage float64 `json:"occupancy-percentage"`
}

// SerDailySummary serializes the given daily summary.
func SerDailySummary(day time.Time, s model.DailySummary) SerDaily {
	return SerDaily{
		Date:                day.Format("2006-01-02"),
		TotalParkings:       s.TotalParkings,
		TotalWashing:        s.TotalWashing,
		ParkingRevenue:      int64(s.ParkingRevenue),
		WashingRevenue:      int64(s.WashingRevenue),
		TotalRevenue:        int64(s.TotalRevenue),
		AverageTicket:       s.AverageTicket,
		OccupancyPercentage: s.OccupancyPercentage,
	}
}

// SerHourly is the serialized form of one hourly breakdown row.
type SerHourly struct {
	Label         string  `json:"label"`
	ParkingCount  int     `json:"parking-count"`
	ServiceCount  int     `json:"service-count"`
	Revenue       int64   `json:"revenue"`
	AverageTicket float64 `json:"average-ticket"`
}

// SerHourlyReport wraps the hourly rows with their day, so a client
// does not need to echo the request parameters.
type SerHourlyReport struct {
	Date    string      `json:"date"`
	Buckets []SerHourly `json:"buckets"`
}

// SerHourlyBuckets serializes the given hourly breakdown rows.
func SerHourlyBuckets(
	day time.Time, buckets []model.HourlyBucket,
) SerHourlyReport {
	rows := make([]SerHourly, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, SerHourly{
			Label:         b.Label,
			ParkingCount:  b.ParkingCount,
			ServiceCount:  b.ServiceCount,
			Revenue:       int64(b.Revenue),
			AverageTicket: b.AverageTicket,
		})
	}
	return SerHourlyReport{
		Date:    day.Format("2006-01-02"),
		Buckets: rows,
	}
}
