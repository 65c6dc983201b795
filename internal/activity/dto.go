package activity

import (
	"time"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/core/common/validation"
)

type CreateActivityDTO struct {
	Name          string     `json:"name"`
	Type          Type       `json:"type"`
	CustomType    *string    `json:"customType,omitempty"`
	Date          time.Time  `json:"date"`
	Location      *string    `json:"location,omitempty"`
	Description   *string    `json:"description,omitempty"`
	LinkedEventID *string    `json:"linkedEventId,omitempty"`
	LineItems     []LineItem `json:"lineItems"`
}

func typeNames() []string {
	out := make([]string, len(Types))
	for i, t := range Types {
		out[i] = string(t)
	}
	return out
}

func (d CreateActivityDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("type", string(d.Type)).Required().OneOf(typeNames()...)
	v.Field("customType", d.CustomType).RequiredWhen(d.Type == TypeOther, internal.ErrCodeCustomTypeRequired)
	v.Field("date", d.Date).Required()
	if d.Description != nil {
		v.Field("description", *d.Description).MaxLength(2000)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateBudgetDTO struct {
	LineItems []LineItem `json:"lineItems"`
}

type ListQuery struct {
	Status Status
}

type ActivitiesResponse struct {
	Activities []*View `json:"activities"`
}
