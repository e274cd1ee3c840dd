package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmstock/pharmstock-backend/pkg/errors"
)

func TestAlertService_ExpiringWithin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	medID := e.addMedicine(t, "Amoxicillin")

	e.addLot(t, medID, 10, dateIn(0), 2.0, 5.0)
	e.addLot(t, medID, 10, dateIn(30), 2.0, 5.0)
	e.addLot(t, medID, 10, dateIn(31), 2.0, 5.0)
	e.addLot(t, medID, 10, dateIn(90), 2.0, 5.0)

	alerts, err := e.alerts.ExpiringWithin(ctx, 30)
	require.NoError(t, err)
	require.Len(t, alerts, 2, "30-day bound is inclusive, 31 days is out")

	t.Run("soonest first with day counts", func(t *testing.T) {
		assert.Equal(t, 0, alerts[0].DaysRemaining)
		assert.Equal(t, dateIn(0), alerts[0].ExpiryDate)
		assert.Equal(t, 30, alerts[1].DaysRemaining)
		assert.Equal(t, "Amoxicillin", alerts[0].MedicineName)
	})

	t.Run("wider window picks up later lots", func(t *testing.T) {
		wide, err := e.alerts.ExpiringWithin(ctx, 90)
		require.NoError(t, err)
		assert.Len(t, wide, 4)
	})

	t.Run("already-expired lots fall outside the window", func(t *testing.T) {
		e.addLot(t, medID, 10, dateIn(-1), 2.0, 5.0)
		alerts, err := e.alerts.ExpiringWithin(ctx, 30)
		require.NoError(t, err)
		assert.Len(t, alerts, 2)
	})

	t.Run("negative days rejected", func(t *testing.T) {
		_, err := e.alerts.ExpiringWithin(ctx, -1)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})
}

func TestAlertService_ExpiringWithin_ZeroStockLots(t *testing.T) {
	ctx := context.Background()

	t.Run("excluded by default", func(t *testing.T) {
		e := newEnv(t)
		medID := e.addMedicine(t, "Napa")
		e.addLot(t, medID, 10, dateIn(5), 2.0, 5.0)
		e.addLot(t, medID, 0, dateIn(5), 2.0, 5.0)

		alerts, err := e.alerts.ExpiringWithin(ctx, 30)
		require.NoError(t, err)
		assert.Len(t, alerts, 1)
	})

	t.Run("included when configured", func(t *testing.T) {
		e := newEnvWithOptions(t, true)
		medID := e.addMedicine(t, "Napa")
		e.addLot(t, medID, 10, dateIn(5), 2.0, 5.0)
		e.addLot(t, medID, 0, dateIn(5), 2.0, 5.0)

		alerts, err := e.alerts.ExpiringWithin(ctx, 30)
		require.NoError(t, err)
		assert.Len(t, alerts, 2)
	})
}
