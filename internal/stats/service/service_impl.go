package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	calldomain "github.com/opsdesk/salesdesk/internal/call/domain"
	"github.com/opsdesk/salesdesk/internal/clock"
	"github.com/opsdesk/salesdesk/internal/config"
	leaddomain "github.com/opsdesk/salesdesk/internal/lead/domain"
	outcomedomain "github.com/opsdesk/salesdesk/internal/outcome/domain"
	"github.com/opsdesk/salesdesk/internal/stats/domain"
	teamdomain "github.com/opsdesk/salesdesk/internal/team/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	SalesConfig *config.SalesConfigHolder
	CallRepo    calldomain.Repository
	OutcomeRepo outcomedomain.Repository
	LeadRepo    leaddomain.Repository
	TeamRepo    teamdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	salesConfig *config.SalesConfigHolder
	callRepo    calldomain.Repository
	outcomeRepo outcomedomain.Repository
	leadRepo    leaddomain.Repository
	teamRepo    teamdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("stats.service"),
		clock:       p.Clock,
		salesConfig: p.SalesConfig,
		callRepo:    p.CallRepo,
		outcomeRepo: p.OutcomeRepo,
		leadRepo:    p.LeadRepo,
		teamRepo:    p.TeamRepo,
	}
}

func (s *Service) Overview(ctx context.Context, req domain.OverviewRequest) (domain.Overview, error) {
	cfg := s.salesConfig.Get()

	tzName := req.Timezone
	if tzName == "" {
		tzName = cfg.ReportTimezone
	}
	tz := config.SalesConfig{ReportTimezone: tzName}.Location()

	from, to, err := s.resolveWindow(req, tz)
	if err != nil {
		return domain.Overview{}, err
	}

	bookings, err := s.callRepo.ListByBookDate(ctx, s.db, from, to)
	if err != nil {
		return domain.Overview{}, err
	}
	calls, err := s.callRepo.ListByCallDate(ctx, s.db, from, to)
	if err != nil {
		return domain.Overview{}, err
	}
	outcomes, err := s.outcomeRepo.ListByPurchaseDate(ctx, s.db, from, to)
	if err != nil {
		return domain.Overview{}, err
	}

	sales := make([]*outcomedomain.OutcomeLog, 0, len(outcomes))
	for _, row := range outcomedomain.DedupeByCall(outcomes) {
		if row.CountsAsSale() {
			sales = append(sales, row)
		}
	}

	callIndex, err := s.indexCalls(ctx, calls, sales)
	if err != nil {
		return domain.Overview{}, err
	}
	leadIndex, err := s.indexLeads(ctx, bookings, calls, callIndex)
	if err != nil {
		return domain.Overview{}, err
	}
	setterNames, closerNames, err := s.teamNames(ctx)
	if err != nil {
		return domain.Overview{}, err
	}

	dims := dimensions{
		prefixes:    cfg.CountryCodes,
		calls:       callIndex,
		leads:       leadIndex,
		setterNames: setterNames,
		closerNames: closerNames,
	}

	agg := newAggregator()
	for _, call := range bookings {
		agg.addBooking(call, dims)
	}
	for _, call := range calls {
		agg.addCall(call, dims)
	}
	for _, sale := range sales {
		agg.addSale(sale, dims)
	}

	overview := agg.overview()
	overview.Window = domain.Window{From: from, To: to, Timezone: tz.String()}
	return overview, nil
}

func (s *Service) resolveWindow(req domain.OverviewRequest, tz *time.Location) (time.Time, time.Time, error) {
	if req.Preset != "" {
		return domain.DateWindowFor(req.Preset, tz, s.clock.Now())
	}
	if req.From == nil || req.To == nil || !req.To.After(*req.From) {
		return time.Time{}, time.Time{}, domain.ErrInvalidWindow
	}
	return req.From.UTC(), req.To.UTC(), nil
}

// indexCalls maps call id to call for every row the report touches,
// fetching the calls behind sale rows that fall outside the call-date
// window (a purchase can post weeks after the call happened).
func (s *Service) indexCalls(ctx context.Context, calls []*calldomain.Call, sales []*outcomedomain.OutcomeLog) (map[snowflake.ID]*calldomain.Call, error) {
	index := make(map[snowflake.ID]*calldomain.Call, len(calls))
	for _, call := range calls {
		index[call.ID] = call
	}

	var missing []snowflake.ID
	for _, sale := range sales {
		if _, ok := index[sale.CallID]; !ok {
			missing = append(missing, sale.CallID)
		}
	}
	if len(missing) > 0 {
		fetched, err := s.callRepo.FindByIDs(ctx, s.db, missing)
		if err != nil {
			return nil, err
		}
		for _, call := range fetched {
			index[call.ID] = call
		}
	}
	return index, nil
}

func (s *Service) indexLeads(ctx context.Context, bookings, calls []*calldomain.Call, callIndex map[snowflake.ID]*calldomain.Call) (map[snowflake.ID]*leaddomain.Lead, error) {
	seen := make(map[snowflake.ID]struct{})
	var ids []snowflake.ID
	collect := func(call *calldomain.Call) {
		if call.LeadID == 0 {
			return
		}
		if _, ok := seen[call.LeadID]; ok {
			return
		}
		seen[call.LeadID] = struct{}{}
		ids = append(ids, call.LeadID)
	}
	for _, call := range bookings {
		collect(call)
	}
	for _, call := range calls {
		collect(call)
	}
	for _, call := range callIndex {
		collect(call)
	}

	leads, err := s.leadRepo.FindByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	index := make(map[snowflake.ID]*leaddomain.Lead, len(leads))
	for _, lead := range leads {
		index[lead.ID] = lead
	}
	return index, nil
}

func (s *Service) teamNames(ctx context.Context) (map[snowflake.ID]string, map[snowflake.ID]string, error) {
	setters, err := s.teamRepo.ListSetters(ctx, s.db)
	if err != nil {
		return nil, nil, err
	}
	closers, err := s.teamRepo.ListClosers(ctx, s.db)
	if err != nil {
		return nil, nil, err
	}
	setterNames := make(map[snowflake.ID]string, len(setters))
	for _, setter := range setters {
		setterNames[setter.ID] = setter.Name
	}
	closerNames := make(map[snowflake.ID]string, len(closers))
	for _, closer := range closers {
		closerNames[closer.ID] = closer.Name
	}
	return setterNames, closerNames, nil
}

// dimensions carries the lookup tables segment keys are derived from.
type dimensions struct {
	prefixes    map[string]string
	calls       map[snowflake.ID]*calldomain.Call
	leads       map[snowflake.ID]*leaddomain.Lead
	setterNames map[snowflake.ID]string
	closerNames map[snowflake.ID]string
}

const unassigned = "Unassigned"

func (d dimensions) closerKey(call *calldomain.Call, saleCloser *snowflake.ID) string {
	id := saleCloser
	if id == nil && call != nil {
		id = call.CloserID
	}
	if id == nil {
		return unassigned
	}
	if name, ok := d.closerNames[*id]; ok {
		return name
	}
	return id.String()
}

func (d dimensions) setterKey(call *calldomain.Call) string {
	if call == nil || call.SetterID == nil {
		return unassigned
	}
	if name, ok := d.setterNames[*call.SetterID]; ok {
		return name
	}
	return call.SetterID.String()
}

func (d dimensions) countryKey(call *calldomain.Call) string {
	if call == nil {
		return domain.UnknownCountry
	}
	lead, ok := d.leads[call.LeadID]
	if !ok {
		return domain.UnknownCountry
	}
	return domain.CountryFromPhone(lead.Phone, d.prefixes)
}

func (d dimensions) sourceKey(call *calldomain.Call) string {
	if call == nil || !call.IsAds() {
		return domain.SourceOrganic
	}
	return domain.SourceAds
}

func (d dimensions) mediumKey(call *calldomain.Call) string {
	if call == nil {
		return domain.MediumOther
	}
	return domain.ClassifyMedium(call.Medium)
}

type aggregator struct {
	total     domain.Totals
	byCloser  map[string]*domain.Totals
	bySetter  map[string]*domain.Totals
	byCountry map[string]*domain.Totals
	bySource  map[string]*domain.Totals
	byMedium  map[string]*domain.Totals
}

func newAggregator() *aggregator {
	return &aggregator{
		byCloser:  make(map[string]*domain.Totals),
		bySetter:  make(map[string]*domain.Totals),
		byCountry: make(map[string]*domain.Totals),
		bySource:  make(map[string]*domain.Totals),
		byMedium:  make(map[string]*domain.Totals),
	}
}

func (a *aggregator) each(call *calldomain.Call, saleCloser *snowflake.ID, dims dimensions, apply func(*domain.Totals)) {
	apply(&a.total)
	apply(bucket(a.byCloser, dims.closerKey(call, saleCloser)))
	apply(bucket(a.bySetter, dims.setterKey(call)))
	apply(bucket(a.byCountry, dims.countryKey(call)))
	apply(bucket(a.bySource, dims.sourceKey(call)))
	apply(bucket(a.byMedium, dims.mediumKey(call)))
}

func bucket(m map[string]*domain.Totals, key string) *domain.Totals {
	t, ok := m[key]
	if !ok {
		t = &domain.Totals{}
		m[key] = t
	}
	return t
}

func (a *aggregator) addBooking(call *calldomain.Call, dims dimensions) {
	pickedUp := call.PickedUp.IsYes()
	a.each(call, nil, dims, func(t *domain.Totals) {
		t.BookingsMade++
		if pickedUp {
			t.PickedUpFromBookings++
		}
	})
}

func (a *aggregator) addCall(call *calldomain.Call, dims dimensions) {
	a.each(call, nil, dims, func(t *domain.Totals) {
		t.TotalBooked++
		if call.PickedUp.IsYes() {
			t.TotalPickedUp++
		}
		if call.Confirmed.IsYes() {
			t.TotalConfirmed++
		}
		if call.ShowedUp.IsYes() {
			t.TotalShowedUp++
		}
	})
}

func (a *aggregator) addSale(sale *outcomedomain.OutcomeLog, dims dimensions) {
	call := dims.calls[sale.CallID]
	a.each(call, sale.CloserID, dims, func(t *domain.Totals) {
		t.TotalPurchased++
	})
}

func (a *aggregator) overview() domain.Overview {
	return domain.Overview{
		Totals:    a.total,
		Rates:     domain.ComputeRates(a.total),
		ByCloser:  segments(a.byCloser),
		BySetter:  segments(a.bySetter),
		ByCountry: segments(a.byCountry),
		BySource:  segments(a.bySource),
		ByMedium:  segments(a.byMedium),
	}
}

func segments(m map[string]*domain.Totals) []domain.Segment {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]domain.Segment, 0, len(keys))
	for _, key := range keys {
		out = append(out, domain.Segment{
			Key:    key,
			Totals: *m[key],
			Rates:  domain.ComputeRates(*m[key]),
		})
	}
	return out
}
