package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/opsdesk/salesdesk/internal/call/domain"
	"github.com/opsdesk/salesdesk/internal/call/repository"
	"github.com/opsdesk/salesdesk/internal/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var callTestNow = time.Date(2026, 4, 15, 16, 45, 0, 0, time.UTC)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Call{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(callTestNow),
		Repo:  repository.Provide(),
	})
	return svc, conn
}

func TestCreateValidatesLeadAndDates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCallRequest{
		BookDate: callTestNow, CallDate: callTestNow,
	})
	require.ErrorIs(t, err, domain.ErrInvalidLead)

	_, err = svc.Create(ctx, domain.CreateCallRequest{LeadID: 1})
	require.ErrorIs(t, err, domain.ErrInvalidDates)
}

func TestUpdateStampsUpdateTimeFromClock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCallRequest{
		LeadID:   1,
		BookDate: time.Date(2026, 4, 10, 11, 0, 0, 0, time.UTC),
		CallDate: time.Date(2026, 4, 16, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	pickedUp := domain.TriYes
	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateCallRequest{
		PickedUp: &pickedUp,
	})
	require.NoError(t, err)
	require.Equal(t, domain.TriYes, updated.PickedUp)
	require.True(t, updated.UpdatedAt.Equal(callTestNow))
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "123456789", domain.UpdateCallRequest{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
