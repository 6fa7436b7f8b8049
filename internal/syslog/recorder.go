package syslog

import (
	"context"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
)

// Recorder is the fire-and-forget surface workflow services use. A failed
// append never propagates to the caller: the business operation already
// succeeded by the time its audit entry is written.
type Recorder interface {
	Record(ctx context.Context, input AppendInput)
}

type recorder struct {
	service Service
	logg    *logger.Logger
}

// NewRecorder wraps the chain service in the swallow-errors contract.
func NewRecorder(service Service, logg *logger.Logger) Recorder {
	return &recorder{service: service, logg: logg}
}

func (r *recorder) Record(ctx context.Context, input AppendInput) {
	if r == nil || r.service == nil {
		return
	}
	if _, err := r.service.Append(ctx, input); err != nil {
		if r.logg != nil {
			r.logg.Error(ctx, "audit append failed", err)
		}
	}
}
