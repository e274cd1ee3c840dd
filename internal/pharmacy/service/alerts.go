package service

import (
	"context"
	"time"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/repository"
	"github.com/pharmstock/pharmstock-backend/pkg/errors"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

// ExpiryAlert is one lot flagged by the expiry lookahead.
type ExpiryAlert struct {
	LotID         int64  `json:"lot_id"`
	MedicineName  string `json:"medicine_name"`
	Quantity      int    `json:"quantity"`
	ExpiryDate    string `json:"expiry_date"`
	DaysRemaining int    `json:"days_remaining"`
}

// AlertService derives expiry alerts from ledger state as of query time.
type AlertService struct {
	lots *repository.LotRepository

	// includeZeroStock keeps sold-out lots in the listing. Off by default:
	// a lot that cannot be sold is not worth an expiry alert.
	includeZeroStock bool
	logger           *logger.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(lots *repository.LotRepository, includeZeroStock bool, log *logger.Logger) *AlertService {
	return &AlertService{
		lots:             lots,
		includeZeroStock: includeZeroStock,
		logger:           log,
	}
}

// ExpiringWithin lists lots whose expiry date falls between today and
// today+days, both ends inclusive: a lot expiring in exactly `days` days is
// included. Ordered soonest-expiring first.
func (s *AlertService) ExpiringWithin(ctx context.Context, days int) ([]*ExpiryAlert, error) {
	if days < 0 {
		return nil, errors.InvalidInput("days must not be negative")
	}

	start := today()
	from := start.Format(DateLayout)
	until := start.AddDate(0, 0, days).Format(DateLayout)

	lots, err := s.lots.ListExpiringBetween(ctx, from, until, s.includeZeroStock)
	if err != nil {
		return nil, err
	}

	alerts := make([]*ExpiryAlert, len(lots))
	for i, lot := range lots {
		expiry, err := time.Parse(DateLayout, lot.ExpiryDate)
		if err != nil {
			return nil, errors.StorageUnavailable(err)
		}
		alerts[i] = &ExpiryAlert{
			LotID:         lot.LotID,
			MedicineName:  lot.MedicineName,
			Quantity:      lot.Quantity,
			ExpiryDate:    lot.ExpiryDate,
			DaysRemaining: daysBetween(start, expiry),
		}
	}
	return alerts, nil
}
