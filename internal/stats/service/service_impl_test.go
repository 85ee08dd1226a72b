package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	calldomain "github.com/opsdesk/salesdesk/internal/call/domain"
	callrepository "github.com/opsdesk/salesdesk/internal/call/repository"
	"github.com/opsdesk/salesdesk/internal/clock"
	"github.com/opsdesk/salesdesk/internal/config"
	leaddomain "github.com/opsdesk/salesdesk/internal/lead/domain"
	leadrepository "github.com/opsdesk/salesdesk/internal/lead/repository"
	outcomedomain "github.com/opsdesk/salesdesk/internal/outcome/domain"
	outcomerepository "github.com/opsdesk/salesdesk/internal/outcome/repository"
	"github.com/opsdesk/salesdesk/internal/stats/domain"
	teamdomain "github.com/opsdesk/salesdesk/internal/team/domain"
	teamrepository "github.com/opsdesk/salesdesk/internal/team/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupStatsTest(t *testing.T) (*gorm.DB, domain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&leaddomain.Lead{},
		&calldomain.Call{},
		&outcomedomain.OutcomeLog{},
		&teamdomain.Setter{},
		&teamdomain.Closer{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Clock:       clock.NewFakeClock(time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)),
		SalesConfig: config.NewStaticSalesConfigHolder(config.DefaultSalesConfig()),
		CallRepo:    callrepository.Provide(),
		OutcomeRepo: outcomerepository.Provide(),
		LeadRepo:    leadrepository.Provide(),
		TeamRepo:    teamrepository.Provide(),
	})
	return db, svc, node
}

type callSeed struct {
	lead      *leaddomain.Lead
	setter    *teamdomain.Setter
	closer    *teamdomain.Closer
	bookDate  time.Time
	callDate  time.Time
	pickedUp  calldomain.TriState
	confirmed calldomain.TriState
	showedUp  calldomain.TriState
	source    string
	medium    string
}

func seedStatsCall(t *testing.T, db *gorm.DB, node *snowflake.Node, seed callSeed) *calldomain.Call {
	t.Helper()
	call := &calldomain.Call{
		ID:         node.Generate(),
		LeadID:     seed.lead.ID,
		BookDate:   seed.bookDate,
		CallDate:   seed.callDate,
		PickedUp:   seed.pickedUp,
		Confirmed:  seed.confirmed,
		ShowedUp:   seed.showedUp,
		Purchased:  calldomain.TriTBD,
		SourceType: seed.source,
		Medium:     seed.medium,
	}
	if seed.setter != nil {
		call.SetterID = &seed.setter.ID
	}
	if seed.closer != nil {
		call.CloserID = &seed.closer.ID
	}
	require.NoError(t, db.Create(call).Error)
	return call
}

func seedStatsLead(t *testing.T, db *gorm.DB, node *snowflake.Node, phone string) *leaddomain.Lead {
	t.Helper()
	lead := &leaddomain.Lead{
		ID:    node.Generate(),
		Name:  "Lead",
		Phone: phone,
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

func TestOverview_RatesAndBreakdowns(t *testing.T) {
	db, svc, node := setupStatsTest(t)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	inWindow := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

	setter := &teamdomain.Setter{ID: node.Generate(), Name: "Ana", Active: true}
	require.NoError(t, db.Create(setter).Error)
	closer := &teamdomain.Closer{ID: node.Generate(), Name: "Bruno", Active: true}
	require.NoError(t, db.Create(closer).Error)

	spanish := seedStatsLead(t, db, node, "+34600123456")
	american := seedStatsLead(t, db, node, "+15550001111")

	sold := seedStatsCall(t, db, node, callSeed{
		lead: spanish, setter: setter, closer: closer,
		bookDate: inWindow, callDate: inWindow,
		pickedUp: calldomain.TriYes, confirmed: calldomain.TriYes, showedUp: calldomain.TriYes,
		source: "fb ad", medium: "instagram",
	})
	seedStatsCall(t, db, node, callSeed{
		lead: american, setter: setter,
		bookDate: inWindow, callDate: inWindow,
		pickedUp: calldomain.TriYes, confirmed: calldomain.TriNo, showedUp: calldomain.TriNo,
		source: "referral",
	})

	// Outside the window on both axes; must not count anywhere.
	outside := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	seedStatsCall(t, db, node, callSeed{
		lead: american, bookDate: outside, callDate: outside,
		pickedUp: calldomain.TriYes, confirmed: calldomain.TriYes, showedUp: calldomain.TriYes,
	})

	purchase := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&outcomedomain.OutcomeLog{
		ID: node.Generate(), CallID: sold.ID, CloserID: &closer.ID,
		Outcome: outcomedomain.OutcomeYes, PurchaseDate: &purchase,
	}).Error)

	overview, err := svc.Overview(context.Background(), domain.OverviewRequest{From: &from, To: &to})
	require.NoError(t, err)

	assert.Equal(t, 2, overview.BookingsMade)
	assert.Equal(t, 2, overview.PickedUpFromBookings)
	assert.Equal(t, 2, overview.TotalBooked)
	assert.Equal(t, 1, overview.TotalConfirmed)
	assert.Equal(t, 1, overview.TotalShowedUp)
	assert.Equal(t, 1, overview.TotalPurchased)

	assert.InDelta(t, 100.0, overview.PickUpRate, 0.0001)
	assert.InDelta(t, 50.0, overview.ConfirmationRate, 0.0001)
	assert.InDelta(t, 100.0, overview.ConversionRateShowedUp, 0.0001)
	assert.InDelta(t, 50.0, overview.ConversionRateBooked, 0.0001)
	assert.InDelta(t, 50.0, overview.DQRate, 0.0001)

	countries := segmentMap(overview.ByCountry)
	require.Contains(t, countries, "ES")
	require.Contains(t, countries, "US")
	assert.Equal(t, 1, countries["ES"].TotalPurchased)
	assert.Equal(t, 0, countries["US"].TotalPurchased)

	sources := segmentMap(overview.BySource)
	require.Contains(t, sources, domain.SourceAds)
	require.Contains(t, sources, domain.SourceOrganic)
	assert.Equal(t, 1, sources[domain.SourceAds].TotalPurchased)

	closers := segmentMap(overview.ByCloser)
	require.Contains(t, closers, "Bruno")
	assert.Equal(t, 1, closers["Bruno"].TotalPurchased)

	setters := segmentMap(overview.BySetter)
	require.Contains(t, setters, "Ana")
	assert.Equal(t, 2, setters["Ana"].TotalBooked)
}

func TestOverview_PurchasedCountedByPurchaseDate(t *testing.T) {
	db, svc, node := setupStatsTest(t)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	lead := seedStatsLead(t, db, node, "+34600123456")

	// Call happened in April; the purchase posted in May. It counts
	// toward May's sales even though the call is outside the window.
	april := time.Date(2026, 4, 20, 10, 0, 0, 0, time.UTC)
	call := seedStatsCall(t, db, node, callSeed{
		lead: lead, bookDate: april, callDate: april,
		pickedUp: calldomain.TriYes, confirmed: calldomain.TriYes, showedUp: calldomain.TriYes,
	})

	purchase := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&outcomedomain.OutcomeLog{
		ID: node.Generate(), CallID: call.ID,
		Outcome: outcomedomain.OutcomeYes, PurchaseDate: &purchase,
	}).Error)

	overview, err := svc.Overview(context.Background(), domain.OverviewRequest{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, 0, overview.TotalBooked)
	assert.Equal(t, 1, overview.TotalPurchased)
}

func TestOverview_RefundCountsOnlyWithPartialClawback(t *testing.T) {
	db, svc, node := setupStatsTest(t)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	inWindow := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	lead := seedStatsLead(t, db, node, "+34600123456")
	fullClawback := 100.0
	partialClawback := 40.0

	refunded := seedStatsCall(t, db, node, callSeed{lead: lead, bookDate: inWindow, callDate: inWindow})
	require.NoError(t, db.Create(&outcomedomain.OutcomeLog{
		ID: node.Generate(), CallID: refunded.ID,
		Outcome: outcomedomain.OutcomeRefund, PurchaseDate: &inWindow, Clawback: &fullClawback,
	}).Error)

	kept := seedStatsCall(t, db, node, callSeed{lead: lead, bookDate: inWindow, callDate: inWindow})
	require.NoError(t, db.Create(&outcomedomain.OutcomeLog{
		ID: node.Generate(), CallID: kept.ID,
		Outcome: outcomedomain.OutcomeRefund, PurchaseDate: &inWindow, Clawback: &partialClawback,
	}).Error)

	overview, err := svc.Overview(context.Background(), domain.OverviewRequest{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, 1, overview.TotalPurchased)
}

func TestOverview_DuplicateOutcomeRowsCountOnce(t *testing.T) {
	db, svc, node := setupStatsTest(t)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	inWindow := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	lead := seedStatsLead(t, db, node, "+34600123456")
	call := seedStatsCall(t, db, node, callSeed{lead: lead, bookDate: inWindow, callDate: inWindow})

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&outcomedomain.OutcomeLog{
			ID: node.Generate(), CallID: call.ID,
			Outcome: outcomedomain.OutcomeYes, PurchaseDate: &inWindow,
		}).Error)
	}

	overview, err := svc.Overview(context.Background(), domain.OverviewRequest{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, 1, overview.TotalPurchased)
}

func TestOverview_InvalidWindow(t *testing.T) {
	_, svc, _ := setupStatsTest(t)

	_, err := svc.Overview(context.Background(), domain.OverviewRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	_, err = svc.Overview(context.Background(), domain.OverviewRequest{Preset: "fortnight"})
	assert.ErrorIs(t, err, domain.ErrInvalidPreset)
}

func segmentMap(segments []domain.Segment) map[string]domain.Segment {
	out := make(map[string]domain.Segment, len(segments))
	for _, s := range segments {
		out[s.Key] = s
	}
	return out
}
