package migration

import (
	"strings"

	calldomain "github.com/opsdesk/salesdesk/internal/call/domain"
	"github.com/opsdesk/salesdesk/internal/config"
	"github.com/opsdesk/salesdesk/internal/funcerror"
	leaddomain "github.com/opsdesk/salesdesk/internal/lead/domain"
	offerdomain "github.com/opsdesk/salesdesk/internal/offer/domain"
	outcomedomain "github.com/opsdesk/salesdesk/internal/outcome/domain"
	shiftdomain "github.com/opsdesk/salesdesk/internal/shift/domain"
	teamdomain "github.com/opsdesk/salesdesk/internal/team/domain"
	trackingdomain "github.com/opsdesk/salesdesk/internal/tracking/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if strings.EqualFold(cfg.DBType, "postgres") {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// sqlite and mysql installs (dev, single-box) rely on gorm's
		// schema sync instead of versioned SQL.
		return conn.AutoMigrate(
			&leaddomain.Lead{},
			&teamdomain.Setter{},
			&teamdomain.Closer{},
			&offerdomain.Offer{},
			&calldomain.Call{},
			&outcomedomain.OutcomeLog{},
			&shiftdomain.ShiftOverride{},
			&shiftdomain.WeeklyShift{},
			&shiftdomain.ShiftToggle{},
			&trackingdomain.ClickTracking{},
			&trackingdomain.WebhookEvent{},
			&funcerror.FunctionError{},
		)
	}),
)
