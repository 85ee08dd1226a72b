package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/opsdesk/salesdesk/internal/clock"
	"github.com/opsdesk/salesdesk/internal/shift/domain"
	"github.com/opsdesk/salesdesk/internal/shift/repository"
	teamdomain "github.com/opsdesk/salesdesk/internal/team/domain"
	teamrepository "github.com/opsdesk/salesdesk/internal/team/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupShiftTest(t *testing.T, now time.Time) (*gorm.DB, domain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&teamdomain.Setter{},
		&domain.ShiftOverride{},
		&domain.WeeklyShift{},
		&domain.ShiftToggle{},
	))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	svc, err := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFakeClock(now),
		Repo:     repository.Provide(),
		TeamRepo: teamrepository.Provide(),
	})
	require.NoError(t, err)
	return db, svc, node
}

func seedShiftSetter(t *testing.T, db *gorm.DB, node *snowflake.Node, name string) *teamdomain.Setter {
	t.Helper()
	setter := &teamdomain.Setter{ID: node.Generate(), Name: name, Active: true}
	require.NoError(t, db.Create(setter).Error)
	return setter
}

// madridTime builds a UTC instant whose Madrid-local reading matches
// the given clock values.
func madridTime(t *testing.T, year int, month time.Month, day, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, minute, 0, 0, loc).UTC()
}

func TestCurrentSetter_OverrideBeatsWeekly(t *testing.T) {
	// 2026-05-20 is a Wednesday.
	now := madridTime(t, 2026, 5, 20, 15, 0)
	db, svc, node := setupShiftTest(t, now)

	weekly := seedShiftSetter(t, db, node, "Weekly")
	override := seedShiftSetter(t, db, node, "Override")

	_, err := svc.CreateWeeklyShift(context.Background(), domain.CreateWeeklyShiftRequest{
		SetterID: weekly.ID, DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)
	_, err = svc.CreateOverride(context.Background(), domain.CreateOverrideRequest{
		SetterID: override.ID, Date: "2026-05-20", StartTime: "14:00", EndTime: "18:00",
	})
	require.NoError(t, err)

	res, err := svc.CurrentSetter(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Setter)
	assert.Equal(t, "Override", res.Setter.Name)
	assert.Equal(t, "override:today", res.Debug.MatchedBy)
	assert.Equal(t, "Europe/Madrid", res.Debug.Timezone)
	assert.Equal(t, "2026-05-20", res.Debug.Date)
}

func TestCurrentSetter_WeeklyFallback(t *testing.T) {
	now := madridTime(t, 2026, 5, 20, 10, 30)
	db, svc, node := setupShiftTest(t, now)

	setter := seedShiftSetter(t, db, node, "Ana")
	_, err := svc.CreateWeeklyShift(context.Background(), domain.CreateWeeklyShiftRequest{
		SetterID: setter.ID, DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	res, err := svc.CurrentSetter(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Setter)
	assert.Equal(t, "Ana", res.Setter.Name)
	assert.Equal(t, "weekly:today", res.Debug.MatchedBy)
}

func TestCurrentSetter_OvernightOverrideEvening(t *testing.T) {
	// 23:00 Wednesday; the overnight override is recorded under
	// Thursday, the date the shift ends.
	now := madridTime(t, 2026, 5, 20, 23, 0)
	db, svc, node := setupShiftTest(t, now)

	setter := seedShiftSetter(t, db, node, "Night")
	_, err := svc.CreateOverride(context.Background(), domain.CreateOverrideRequest{
		SetterID: setter.ID, Date: "2026-05-21", StartTime: "22:00", EndTime: "06:00",
	})
	require.NoError(t, err)

	res, err := svc.CurrentSetter(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Setter)
	assert.Equal(t, "Night", res.Setter.Name)
	assert.Equal(t, "override:overnight", res.Debug.MatchedBy)
}

func TestCurrentSetter_OvernightOverrideMorning(t *testing.T) {
	now := madridTime(t, 2026, 5, 21, 4, 0)
	db, svc, node := setupShiftTest(t, now)

	setter := seedShiftSetter(t, db, node, "Night")
	_, err := svc.CreateOverride(context.Background(), domain.CreateOverrideRequest{
		SetterID: setter.ID, Date: "2026-05-21", StartTime: "22:00", EndTime: "06:00",
	})
	require.NoError(t, err)

	res, err := svc.CurrentSetter(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Setter)
	assert.Equal(t, "Night", res.Setter.Name)
	assert.Equal(t, "override:today", res.Debug.MatchedBy)
}

func TestCurrentSetter_OvernightWeeklyMorning(t *testing.T) {
	// 03:00 Thursday; the weekly shift started Wednesday evening.
	now := madridTime(t, 2026, 5, 21, 3, 0)
	db, svc, node := setupShiftTest(t, now)

	setter := seedShiftSetter(t, db, node, "Night")
	_, err := svc.CreateWeeklyShift(context.Background(), domain.CreateWeeklyShiftRequest{
		SetterID: setter.ID, DayOfWeek: 3, StartTime: "22:00", EndTime: "06:00",
	})
	require.NoError(t, err)

	res, err := svc.CurrentSetter(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Setter)
	assert.Equal(t, "Night", res.Setter.Name)
	assert.Equal(t, "weekly:overnight", res.Debug.MatchedBy)
}

func TestCurrentSetter_NobodyOnShift(t *testing.T) {
	now := madridTime(t, 2026, 5, 20, 3, 0)
	_, svc, _ := setupShiftTest(t, now)

	res, err := svc.CurrentSetter(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res.Setter)
	assert.Equal(t, "03:00", res.Debug.Time)
}

func TestCurrentSetter_ToggleRemovesSetter(t *testing.T) {
	now := madridTime(t, 2026, 5, 20, 10, 0)
	db, svc, node := setupShiftTest(t, now)

	setter := seedShiftSetter(t, db, node, "Ruben")
	_, err := svc.CreateWeeklyShift(context.Background(), domain.CreateWeeklyShiftRequest{
		SetterID: setter.ID, DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	toggle, err := svc.ToggleShift(context.Background(), "Ruben", nil)
	require.NoError(t, err)
	assert.False(t, toggle.Active)

	res, err := svc.CurrentSetter(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res.Setter)

	toggle, err = svc.ToggleShift(context.Background(), "Ruben", nil)
	require.NoError(t, err)
	assert.True(t, toggle.Active)

	res, err = svc.CurrentSetter(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Setter)
	assert.Equal(t, "Ruben", res.Setter.Name)
}

func TestToggleShift_OffStatePersists(t *testing.T) {
	now := madridTime(t, 2026, 5, 20, 10, 0)
	db, svc, node := setupShiftTest(t, now)

	setter := seedShiftSetter(t, db, node, "Ruben")

	toggle, err := svc.ToggleShift(context.Background(), "Ruben", nil)
	require.NoError(t, err)
	require.False(t, toggle.Active)

	var stored domain.ShiftToggle
	require.NoError(t, db.First(&stored, "setter_id = ?", setter.ID).Error)
	assert.False(t, stored.Active)

	off := false
	toggle, err = svc.ToggleShift(context.Background(), "Ruben", &off)
	require.NoError(t, err)
	require.False(t, toggle.Active)

	require.NoError(t, db.First(&stored, "setter_id = ?", setter.ID).Error)
	assert.False(t, stored.Active)
}

func TestToggleShift_UnknownSetter(t *testing.T) {
	now := madridTime(t, 2026, 5, 20, 10, 0)
	_, svc, _ := setupShiftTest(t, now)

	_, err := svc.ToggleShift(context.Background(), "Nobody", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOverride_Validation(t *testing.T) {
	now := madridTime(t, 2026, 5, 20, 10, 0)
	db, svc, node := setupShiftTest(t, now)
	setter := seedShiftSetter(t, db, node, "Ana")

	_, err := svc.CreateOverride(context.Background(), domain.CreateOverrideRequest{
		SetterID: setter.ID, Date: "20-05-2026", StartTime: "09:00", EndTime: "17:00",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = svc.CreateOverride(context.Background(), domain.CreateOverrideRequest{
		SetterID: setter.ID, Date: "2026-05-20", StartTime: "9am", EndTime: "17:00",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTime)

	_, err = svc.CreateWeeklyShift(context.Background(), domain.CreateWeeklyShiftRequest{
		SetterID: setter.ID, DayOfWeek: 7, StartTime: "09:00", EndTime: "17:00",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDay)
}
