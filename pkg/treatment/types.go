package treatment

import (
	"strings"

	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
)

type CompleteInput struct {
	TreatmentType string `json:"treatment_type"`
	Notes         string `json:"notes"`
}

func (in *CompleteInput) Validate() error {
	in.TreatmentType = strings.TrimSpace(in.TreatmentType)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.TreatmentType == "" {
		return apperr.Validation("treatment_type is required")
	}
	if in.Notes == "" {
		return apperr.Validation("notes are required")
	}
	return nil
}

// VerifyInput carries the post-treatment reading. When AfterNDVI is nil
// the field's latest reading observed after completion is used.
type VerifyInput struct {
	AfterNDVI *float64 `json:"after_ndvi_value"`
}
