package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/clock"
	"github.com/opsdesk/salesdesk/internal/shift/domain"
	teamdomain "github.com/opsdesk/salesdesk/internal/team/domain"
	"github.com/opsdesk/salesdesk/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The rotation runs on the office clock regardless of where the server
// or the caller is.
const shiftTimezone = "Europe/Madrid"

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	TeamRepo teamdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	teamRepo teamdomain.Repository
	location *time.Location
}

func New(p Params) (domain.Service, error) {
	loc, err := time.LoadLocation(shiftTimezone)
	if err != nil {
		return nil, fmt.Errorf("load shift timezone: %w", err)
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("shift.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		teamRepo: p.TeamRepo,
		location: loc,
	}, nil
}

func (s *Service) CurrentSetter(ctx context.Context) (domain.Resolution, error) {
	now := s.clock.Now()
	local := now.In(s.location)

	today := local.Format("2006-01-02")
	tomorrow := local.AddDate(0, 0, 1).Format("2006-01-02")
	hhmm := local.Format("15:04")
	dayOfWeek := int(local.Weekday())
	yesterdayDow := int(local.AddDate(0, 0, -1).Weekday())

	resolution := domain.Resolution{
		Debug: domain.ResolutionDebug{
			Timezone:   shiftTimezone,
			Date:       today,
			Time:       hhmm,
			DayOfWeek:  dayOfWeek,
			ServerTime: now.Format(time.RFC3339),
		},
	}

	setterID, matchedBy, err := s.resolve(ctx, today, tomorrow, hhmm, dayOfWeek, yesterdayDow)
	if err != nil {
		return domain.Resolution{}, err
	}
	if setterID == 0 {
		return resolution, nil
	}

	active, err := s.setterActive(ctx, setterID)
	if err != nil {
		return domain.Resolution{}, err
	}
	if !active {
		resolution.Debug.MatchedBy = matchedBy + " (toggled off)"
		return resolution, nil
	}

	setter, err := s.teamRepo.FindSetterByID(ctx, s.db, setterID)
	if err != nil {
		return domain.Resolution{}, err
	}
	resolution.Setter = setter
	resolution.Debug.MatchedBy = matchedBy
	return resolution, nil
}

// resolve walks the priority chain. Overrides are recorded under the
// date the shift ends, weekly shifts under the day they start, which is
// why the overnight checks look at tomorrow's override but yesterday's
// weekly shift.
func (s *Service) resolve(ctx context.Context, today, tomorrow, hhmm string, dayOfWeek, yesterdayDow int) (snowflake.ID, string, error) {
	todayOverrides, err := s.repo.ListOverridesByDate(ctx, s.db, today)
	if err != nil {
		return 0, "", err
	}
	for _, row := range todayOverrides {
		if overnight(row.StartTime, row.EndTime) {
			if hhmm < row.EndTime {
				return row.SetterID, "override:today", nil
			}
			continue
		}
		if row.StartTime <= hhmm && hhmm < row.EndTime {
			return row.SetterID, "override:today", nil
		}
	}

	tomorrowOverrides, err := s.repo.ListOverridesByDate(ctx, s.db, tomorrow)
	if err != nil {
		return 0, "", err
	}
	for _, row := range tomorrowOverrides {
		if overnight(row.StartTime, row.EndTime) && hhmm >= row.StartTime {
			return row.SetterID, "override:overnight", nil
		}
	}

	todayShifts, err := s.repo.ListWeeklyShiftsByDay(ctx, s.db, dayOfWeek)
	if err != nil {
		return 0, "", err
	}
	for _, row := range todayShifts {
		if overnight(row.StartTime, row.EndTime) {
			if hhmm >= row.StartTime {
				return row.SetterID, "weekly:today", nil
			}
			continue
		}
		if row.StartTime <= hhmm && hhmm < row.EndTime {
			return row.SetterID, "weekly:today", nil
		}
	}

	yesterdayShifts, err := s.repo.ListWeeklyShiftsByDay(ctx, s.db, yesterdayDow)
	if err != nil {
		return 0, "", err
	}
	for _, row := range yesterdayShifts {
		if overnight(row.StartTime, row.EndTime) && hhmm < row.EndTime {
			return row.SetterID, "weekly:overnight", nil
		}
	}

	return 0, "", nil
}

func (s *Service) setterActive(ctx context.Context, setterID snowflake.ID) (bool, error) {
	toggle, err := s.repo.FindToggle(ctx, s.db, setterID)
	if err != nil {
		return false, err
	}
	return toggle == nil || toggle.Active, nil
}

func (s *Service) ToggleShift(ctx context.Context, setterName string, active *bool) (domain.ShiftToggle, error) {
	setterName = strings.TrimSpace(setterName)
	if setterName == "" {
		return domain.ShiftToggle{}, domain.ErrInvalidSetter
	}
	setter, err := s.teamRepo.FindSetterByName(ctx, s.db, setterName)
	if err != nil {
		return domain.ShiftToggle{}, err
	}
	if setter == nil {
		return domain.ShiftToggle{}, domain.ErrNotFound
	}

	toggle, err := s.repo.FindToggle(ctx, s.db, setter.ID)
	if err != nil {
		return domain.ShiftToggle{}, err
	}
	if toggle == nil {
		toggle = &domain.ShiftToggle{SetterID: setter.ID, Active: true}
	}

	if active != nil {
		toggle.Active = *active
	} else {
		toggle.Active = !toggle.Active
	}
	toggle.UpdatedAt = s.clock.Now()

	if err := s.repo.SaveToggle(ctx, s.db, toggle); err != nil {
		// Two first-time toggles for the same setter can race on the
		// primary key; the retry lands on the now-existing row.
		if !db.IsDuplicateKeyErr(err) {
			return domain.ShiftToggle{}, err
		}
		if err := s.repo.SaveToggle(ctx, s.db, toggle); err != nil {
			return domain.ShiftToggle{}, err
		}
	}
	return *toggle, nil
}

func (s *Service) CreateOverride(ctx context.Context, req domain.CreateOverrideRequest) (domain.ShiftOverride, error) {
	if req.SetterID == 0 {
		return domain.ShiftOverride{}, domain.ErrInvalidSetter
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return domain.ShiftOverride{}, domain.ErrInvalidDate
	}
	if !validHHMM(req.StartTime) || !validHHMM(req.EndTime) {
		return domain.ShiftOverride{}, domain.ErrInvalidTime
	}

	now := s.clock.Now()
	row := domain.ShiftOverride{
		ID:        s.genID.Generate(),
		SetterID:  req.SetterID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertOverride(ctx, s.db, &row); err != nil {
		return domain.ShiftOverride{}, err
	}
	return row, nil
}

func (s *Service) ListOverrides(ctx context.Context) ([]domain.ShiftOverride, error) {
	rows, err := s.repo.ListOverrides(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ShiftOverride, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}

func (s *Service) DeleteOverride(ctx context.Context, id string) error {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.ErrInvalidID
	}
	return s.repo.DeleteOverride(ctx, s.db, parsed)
}

func (s *Service) CreateWeeklyShift(ctx context.Context, req domain.CreateWeeklyShiftRequest) (domain.WeeklyShift, error) {
	if req.SetterID == 0 {
		return domain.WeeklyShift{}, domain.ErrInvalidSetter
	}
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return domain.WeeklyShift{}, domain.ErrInvalidDay
	}
	if !validHHMM(req.StartTime) || !validHHMM(req.EndTime) {
		return domain.WeeklyShift{}, domain.ErrInvalidTime
	}

	now := s.clock.Now()
	row := domain.WeeklyShift{
		ID:        s.genID.Generate(),
		SetterID:  req.SetterID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertWeeklyShift(ctx, s.db, &row); err != nil {
		return domain.WeeklyShift{}, err
	}
	return row, nil
}

func (s *Service) ListWeeklyShifts(ctx context.Context) ([]domain.WeeklyShift, error) {
	rows, err := s.repo.ListWeeklyShifts(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]domain.WeeklyShift, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}

func (s *Service) DeleteWeeklyShift(ctx context.Context, id string) error {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.ErrInvalidID
	}
	return s.repo.DeleteWeeklyShift(ctx, s.db, parsed)
}

func overnight(start, end string) bool {
	return end <= start
}

func validHHMM(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil && len(value) == 5
}
