// Package request holds the treatment-request state machine.
package request

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
)

type Action string

const (
	Accept Action = "accept"
	Reject Action = "reject"
)

var transitions = map[entities.RequestStatus]map[Action]entities.RequestStatus{
	entities.RequestPending: {
		Accept: entities.RequestAccepted,
		Reject: entities.RequestRejected,
	},
}

func Next(from entities.RequestStatus, a Action) (entities.RequestStatus, error) {
	if to, ok := transitions[from][a]; ok {
		return to, nil
	}
	return "", apperr.InvalidTransition("cannot %s a %s request", a, from)
}

// DefaultBeforeNDVI is the snapshot used when a field has no reading yet.
const DefaultBeforeNDVI = 0.5

type CreateInput struct {
	FieldID     uint            `json:"field_id"`
	Message     string          `json:"message"`
	Price       decimal.Decimal `json:"proposed_price"`
	HealthIssue string          `json:"health_issue_description"`
}

func (in *CreateInput) Validate() error {
	in.Message = strings.TrimSpace(in.Message)
	in.HealthIssue = strings.TrimSpace(in.HealthIssue)
	if in.FieldID == 0 {
		return apperr.Validation("field_id is required")
	}
	if in.Message == "" {
		return apperr.Validation("message is required")
	}
	if !in.Price.IsPositive() {
		return apperr.Validation("proposed_price must be positive")
	}
	return nil
}
