package service

import (
	"context"
	"time"

	"hospital-admissions/pkg/logger"
)

// OverstayRecorder receives the number of overstaying admissions after each scan
type OverstayRecorder interface {
	SetOverstaying(count int)
}

type WorkerService struct {
	admissionService *AdmissionService
	recorder         OverstayRecorder
	interval         time.Duration
	log              *logger.Logger
	now              func() time.Time

	// admission IDs already reported; only touched from the worker goroutine
	flagged map[string]struct{}
}

func NewWorkerService(admissionService *AdmissionService, recorder OverstayRecorder, interval time.Duration, log *logger.Logger) *WorkerService {
	return &WorkerService{
		admissionService: admissionService,
		recorder:         recorder,
		interval:         interval,
		log:              log,
		now:              time.Now,
		flagged:          make(map[string]struct{}),
	}
}

// Start scans for overstaying admissions until ctx is cancelled
func (w *WorkerService) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("overstay monitor started", "interval", w.interval.String())
	w.checkOverstays(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("overstay monitor stopped")
			return
		case <-ticker.C:
			w.checkOverstays(ctx)
		}
	}
}

// checkOverstays warns once per overstaying admission and returns how many there are
func (w *WorkerService) checkOverstays(ctx context.Context) int {
	now := w.now()
	overstaying, err := w.admissionService.FindOverstaying(ctx, now)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error("overstay scan failed", "error", err)
		}
		return 0
	}

	current := make(map[string]struct{}, len(overstaying))
	for _, admission := range overstaying {
		current[admission.ID] = struct{}{}
		if _, seen := w.flagged[admission.ID]; seen {
			continue
		}
		w.log.Warn("admission past expected discharge",
			"admission_id", admission.ID,
			"patient_id", admission.PatientID,
			"room_id", admission.RoomID,
			"expected_discharge", admission.ExpectedDischarge().Format(time.RFC3339),
			"overdue", now.Sub(admission.ExpectedDischarge()).Round(time.Minute).String(),
		)
	}
	w.flagged = current

	if w.recorder != nil {
		w.recorder.SetOverstaying(len(overstaying))
	}
	return len(overstaying)
}
