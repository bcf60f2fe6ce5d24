package services

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/pricing"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"gorm.io/gorm"
)

type BranchRevenue struct {
	BranchID   uint    `json:"branchId"`
	BranchName string  `json:"branchName"`
	OrderCount int64   `json:"orderCount"`
	Revenue    float64 `json:"revenue"`
}

// Analytics summarises orders. Revenue excludes cancelled orders.
type Analytics struct {
	OrderCount   int64                        `json:"orderCount"`
	Revenue      float64                      `json:"revenue"`
	StatusCounts map[models.OrderStatus]int64 `json:"statusCounts"`
	Branches     []BranchRevenue              `json:"branches"`
}

type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func (s *AnalyticsService) Summary(viewer models.Viewer) (*Analytics, error) {
	q := s.db.Model(&models.Order{})
	switch {
	case viewer.SeesAllBranches():
	case viewer.Role == models.RoleBranchManager && viewer.BranchID != nil:
		q = q.Where("orders.branch_id = ?", *viewer.BranchID)
	default:
		return nil, utils.ErrNoPermission
	}
	q = q.Session(&gorm.Session{})

	out := &Analytics{StatusCounts: make(map[models.OrderStatus]int64), Branches: []BranchRevenue{}}
	for _, st := range models.OrderStatuses {
		out.StatusCounts[st] = 0
	}

	var byStatus []struct {
		Status models.OrderStatus
		Count  int64
		Total  float64
	}
	err := q.Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Group("status").Scan(&byStatus).Error
	if err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "aggregate orders")
	}
	revenue := decimal.Zero
	for _, row := range byStatus {
		out.StatusCounts[row.Status] = row.Count
		out.OrderCount += row.Count
		if row.Status != models.OrderCancelled {
			revenue = revenue.Add(decimal.NewFromFloat(row.Total))
		}
	}
	out.Revenue = pricing.Float(revenue)

	err = q.Select("branches.id AS branch_id, branches.name AS branch_name, COUNT(orders.id) AS order_count, COALESCE(SUM(orders.total), 0) AS revenue").
		Joins("JOIN branches ON branches.id = orders.branch_id").
		Where("orders.status <> ?", models.OrderCancelled).
		Group("branches.id, branches.name").
		Order("branches.id").
		Scan(&out.Branches).Error
	if err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "aggregate branch revenue")
	}
	for i := range out.Branches {
		out.Branches[i].Revenue = pricing.Float(decimal.NewFromFloat(out.Branches[i].Revenue))
	}
	return out, nil
}

// WriteRevenueChart renders per-branch revenue as a PNG bar chart.
func WriteRevenueChart(w io.Writer, a *Analytics) error {
	bars := make([]chart.Value, 0, len(a.Branches))
	top := 0.0
	for _, b := range a.Branches {
		bars = append(bars, chart.Value{Value: b.Revenue, Label: b.BranchName})
		if b.Revenue > top {
			top = b.Revenue
		}
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{Value: 0, Label: "No orders"})
	}
	if top == 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:      "Revenue by branch",
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      800,
		Height:     480,
		BarWidth:   60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return utils.FormatEuro(f)
				}
				return fmt.Sprint(v)
			},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render revenue chart: %w", err)
	}
	return nil
}
