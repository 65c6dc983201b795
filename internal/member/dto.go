package member

import (
	"github.com/frahmantamala/club-finance/internal/core/common/validation"
)

type OnboardingDTO struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     *string `json:"phone,omitempty"`
}

func (d OnboardingDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).Required().MaxLength(100)
	v.Field("lastName", d.LastName).Required().MaxLength(100)
	if d.Phone != nil {
		v.Field("phone", *d.Phone).MaxLength(32)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
