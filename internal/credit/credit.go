package credit

import (
	"time"

	creditDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/credit"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type Recharge struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"companyId"`
	Credits       int64           `json:"credits"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	TransactionID *string         `json:"transactionId,omitempty"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	PurchasedByID string          `json:"purchasedById"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type Usage struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"companyId"`
	ServiceID        *string   `json:"serviceId,omitempty"`
	CreditsUsed      int64     `json:"creditsUsed"`
	NumberOfDaysUsed *int      `json:"numberOfDaysUsed,omitempty"`
	Description      *string   `json:"description,omitempty"`
	EnabledByID      string    `json:"enabledById"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Balance is the company's counters. TotalCredits is what remains.
type Balance struct {
	CompanyID    string `json:"companyId"`
	TotalCredits int64  `json:"totalCredits"`
	UsedCredits  int64  `json:"usedCredits"`
}

type RechargeResult struct {
	Recharge *Recharge `json:"recharge"`
	Balance  *Balance  `json:"balance"`
}

type UsageResult struct {
	Usage   *Usage   `json:"usage"`
	Balance *Balance `json:"balance"`
}

type Summary struct {
	TotalCredits     int64           `json:"totalCredits"`
	UsedCredits      int64           `json:"usedCredits"`
	RechargedCredits int64           `json:"rechargedCredits"`
	AmountPaid       decimal.Decimal `json:"amountPaid"`
	RechargeCount    int             `json:"rechargeCount"`
	UsageCount       int             `json:"usageCount"`
}

// Ledger is a company's full credit history, newest entries first.
type Ledger struct {
	CompanyID   string      `json:"companyId"`
	CompanyName string      `json:"companyName"`
	Recharges   []*Recharge `json:"recharges"`
	Usages      []*Usage    `json:"usages"`
	Summary     Summary     `json:"summary"`
}

func NewLedger(companyID, companyName string, balance *Balance, recharges []*Recharge, usages []*Usage) *Ledger {
	l := &Ledger{
		CompanyID:   companyID,
		CompanyName: companyName,
		Recharges:   recharges,
		Usages:      usages,
		Summary: Summary{
			TotalCredits:  balance.TotalCredits,
			UsedCredits:   balance.UsedCredits,
			AmountPaid:    decimal.Zero,
			RechargeCount: len(recharges),
			UsageCount:    len(usages),
		},
	}
	for _, r := range recharges {
		l.Summary.RechargedCredits += r.Credits
		l.Summary.AmountPaid = l.Summary.AmountPaid.Add(r.AmountPaid)
	}
	return l
}

func RechargeFromDataModel(r *creditDatamodel.CreditsRecharge) *Recharge {
	return &Recharge{
		ID:            r.ID,
		CompanyID:     r.CompanyID,
		Credits:       r.Credits,
		AmountPaid:    r.AmountPaid,
		TransactionID: r.TransactionID,
		PaymentMethod: r.PaymentMethod,
		PaymentStatus: PaymentStatus(r.PaymentStatus),
		PurchasedByID: r.PurchasedByID,
		CreatedAt:     r.CreatedAt,
	}
}

func UsageFromDataModel(u *creditDatamodel.TransactionHistory) *Usage {
	return &Usage{
		ID:               u.ID,
		CompanyID:        u.CompanyID,
		ServiceID:        u.ServiceID,
		CreditsUsed:      u.CreditsUsed,
		NumberOfDaysUsed: u.NumberOfDaysUsed,
		Description:      u.Description,
		EnabledByID:      u.EnabledByID,
		CreatedAt:        u.CreatedAt,
	}
}
