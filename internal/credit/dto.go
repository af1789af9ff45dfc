package credit

import (
	"strings"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type RechargeDTO struct {
	Credits       int64           `json:"credits"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	CompanyID     string          `json:"companyId"`
	TransactionID *string         `json:"transactionId,omitempty"`
	PaymentMethod string          `json:"paymentMethod"`
}

func (d *RechargeDTO) Validate() error {
	d.PaymentMethod = strings.TrimSpace(d.PaymentMethod)
	if d.Credits == 0 || d.AmountPaid.IsZero() || d.CompanyID == "" || d.PaymentMethod == "" {
		return errors.NewValidationError("Credits, amount paid, company ID, and payment method are required", errors.ErrCodeValidationFailed)
	}

	v := validation.NewValidator()
	v.Field("credits", d.Credits).Positive()
	v.Field("amountPaid", d.AmountPaid).Positive()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	if d.TransactionID != nil {
		trimmed := strings.TrimSpace(*d.TransactionID)
		if trimmed == "" {
			d.TransactionID = nil
		} else {
			d.TransactionID = &trimmed
		}
	}
	return nil
}

type UsageDTO struct {
	CreditsUsed      int64   `json:"creditsUsed"`
	CompanyID        string  `json:"companyId"`
	ServiceID        *string `json:"serviceId,omitempty"`
	NumberOfDaysUsed *int    `json:"numberOfDaysUsed,omitempty"`
	Description      *string `json:"description,omitempty"`
}

func (d *UsageDTO) Validate() error {
	if d.CreditsUsed == 0 || d.CompanyID == "" {
		return errors.NewValidationError("Credits used and company ID are required", errors.ErrCodeValidationFailed)
	}

	v := validation.NewValidator()
	v.Field("creditsUsed", d.CreditsUsed).Positive()
	v.Field("numberOfDaysUsed", d.NumberOfDaysUsed).NonNegative()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	if d.ServiceID != nil && *d.ServiceID == "" {
		d.ServiceID = nil
	}
	return nil
}
