package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodybuddy/payments/internal/models"
	"github.com/foodybuddy/payments/pkg/types"
)

// Service answers admin reporting queries over persisted payments. It reads
// the payment table directly; the lifecycle engine is not involved.
type Service struct {
	log *zap.SugaredLogger
	db  *gorm.DB
}

func NewService(log *zap.SugaredLogger, db *gorm.DB) *Service {
	return &Service{log: log, db: db}
}

type statusAggregate struct {
	Status      types.PaymentStatus `gorm:"column:status"`
	Count       int64               `gorm:"column:count"`
	VolumeCents int64               `gorm:"column:volume_cents"`
}

type Summary struct {
	CountsByStatus       map[types.PaymentStatus]int64 `json:"counts_by_status"`
	TotalCount           int64                         `json:"total_count"`
	CompletedVolumeCents int64                         `json:"completed_volume_cents"`
	RefundedVolumeCents  int64                         `json:"refunded_volume_cents"`
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var rows []statusAggregate
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount_cents), 0) AS volume_cents").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payments: %w", err)
	}

	res := &Summary{
		CountsByStatus: lo.SliceToMap(rows, func(r statusAggregate) (types.PaymentStatus, int64) {
			return r.Status, r.Count
		}),
		TotalCount: lo.SumBy(rows, func(r statusAggregate) int64 { return r.Count }),
	}
	for _, r := range rows {
		switch r.Status {
		case types.PaymentStatusCompleted:
			res.CompletedVolumeCents = r.VolumeCents
		case types.PaymentStatusRefunded:
			res.RefundedVolumeCents = r.VolumeCents
		}
	}
	return res, nil
}

type DailyVolume struct {
	Day         string `gorm:"column:day" json:"day"`
	Count       int64  `gorm:"column:count" json:"count"`
	VolumeCents int64  `gorm:"column:volume_cents" json:"volume_cents"`
}

// DailyCompletedVolume returns completed-payment volume per day for the last
// `days` days, oldest first.
func (s *Service) DailyCompletedVolume(ctx context.Context, days int) ([]DailyVolume, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	var rows []DailyVolume
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("DATE(created_at) AS day, COUNT(*) AS count, COALESCE(SUM(amount_cents), 0) AS volume_cents").
		Where("status = ? AND created_at >= ?", types.PaymentStatusCompleted, since).
		Group("DATE(created_at)").
		Order("day asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily volume: %w", err)
	}
	return rows, nil
}

type ScanPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanPaymentsResponse struct {
	Items []*models.Payment `json:"items"`
	Total int64             `json:"total"`
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// ScanPayments implements paginated admin listing with filters.
func (s *Service) ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Payment{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	var rows []*models.Payment
	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return &ScanPaymentsResponse{Items: rows, Total: total}, nil
}
