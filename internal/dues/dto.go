package dues

import (
	"time"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/core/common/validation"
)

type CreateCycleDTO struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Amount    int64     `json:"amount"`
}

func (d CreateCycleDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("startDate", d.StartDate).Required()
	v.Field("endDate", d.EndDate).Required().Custom(func(interface{}) *internal.AppError {
		if !d.StartDate.IsZero() && !d.EndDate.IsZero() && !d.EndDate.After(d.StartDate) {
			return internal.NewValidationFieldError("endDate", "endDate must be after startDate", internal.ErrCodeInvalidDate)
		}
		return nil
	})
	v.Field("amount", d.Amount).MinInt(1, internal.ErrCodeInvalidAmount)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// AutomationRequest is the body of POST /dues/automation.
type AutomationRequest struct {
	Action Action `json:"action"`
}
