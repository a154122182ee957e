// Package treatment holds the treatment state machine and the improvement
// arithmetic used at verification.
package treatment

import (
	"time"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
)

type Action string

const (
	Start    Action = "start"
	Complete Action = "complete"
	Verify   Action = "verify"
)

var transitions = map[entities.TreatmentStatus]map[Action]entities.TreatmentStatus{
	entities.TreatmentScheduled:  {Start: entities.TreatmentInProgress},
	entities.TreatmentInProgress: {Complete: entities.TreatmentCompleted},
	entities.TreatmentCompleted:  {Verify: entities.TreatmentVerified},
}

// Next returns the status reached from t by a. Closed treatments accept
// nothing.
func Next(t *entities.Treatment, a Action) (entities.TreatmentStatus, error) {
	if t.IsClosed() {
		return "", apperr.InvalidTransition("treatment %d is closed", t.ID)
	}
	if to, ok := transitions[t.Status][a]; ok {
		return to, nil
	}
	return "", apperr.InvalidTransition("cannot %s a %s treatment", a, t.Status)
}

// CanFarmerConfirm reports whether the owning farmer may confirm t now.
func CanFarmerConfirm(t *entities.Treatment) error {
	switch {
	case t.FarmerConfirmed:
		return apperr.InvalidTransition("treatment %d already confirmed by the farmer", t.ID)
	case t.Status != entities.TreatmentVerified || !t.AgronomistConfirmed:
		return apperr.InvalidTransition("treatment %d is not verified yet", t.ID)
	}
	return nil
}

// NewScheduled is the treatment spawned by accepting req.
func NewScheduled(req *entities.Request, now time.Time) *entities.Treatment {
	return &entities.Treatment{
		RequestID:     req.ID,
		FieldID:       req.FieldID,
		AgronomistID:  req.AgronomistID,
		FarmerID:      req.FarmerID,
		Status:        entities.TreatmentScheduled,
		BeforeNDVI:    req.BeforeNDVI,
		ScheduledDate: &now,
	}
}

// Improvement is the relative change from before to after in percent. It
// is undefined, and nil, when before is zero.
func Improvement(before, after float64) *float64 {
	if before == 0 {
		return nil
	}
	pct := (after - before) / before * 100
	return &pct
}
