package funcerror

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FunctionError is the dead-letter row for failed handler work. The
// table exists so ops can see what went wrong after the fact; it is
// never read on a request path.
type FunctionError struct {
	ID           snowflake.ID   `gorm:"primaryKey" json:"id"`
	FunctionName string         `gorm:"not null;index" json:"function_name"`
	Message      string         `gorm:"type:text" json:"message"`
	Payload      datatypes.JSON `json:"payload,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
}

type Recorder struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewRecorder(p Params) *Recorder {
	return &Recorder{
		db:    p.DB,
		log:   p.Log.Named("funcerror"),
		genID: p.GenID,
	}
}

// Record writes a best-effort error row. A failed write is logged and
// swallowed so the sink can never mask the original failure.
func (r *Recorder) Record(ctx context.Context, functionName string, cause error, payload []byte) {
	row := FunctionError{
		ID:           r.genID.Generate(),
		FunctionName: functionName,
		CreatedAt:    time.Now().UTC(),
	}
	if cause != nil {
		row.Message = cause.Error()
	}
	if len(payload) > 0 {
		row.Payload = datatypes.JSON(payload)
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.log.Warn("function error write failed",
			zap.String("function", functionName),
			zap.Error(err),
		)
	}
}

var Module = fx.Module("funcerror",
	fx.Provide(NewRecorder),
)
