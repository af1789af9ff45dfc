package credit_test

import (
	"bytes"
	"time"

	"github.com/frahmantamala/company-management/internal/credit"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("WriteWorkbook", func() {
	It("writes one sheet per section", func() {
		txn := "txn-1"
		desc := "monthly hosting"
		now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

		ledger := credit.NewLedger("company-1", "Acme",
			&credit.Balance{CompanyID: "company-1", TotalCredits: 80, UsedCredits: 20},
			[]*credit.Recharge{{
				ID:            "recharge-1",
				Credits:       100,
				AmountPaid:    decimal.RequireFromString("12.5"),
				TransactionID: &txn,
				PaymentMethod: "card",
				PaymentStatus: credit.PaymentPending,
				PurchasedByID: "user-1",
				CreatedAt:     now,
			}},
			[]*credit.Usage{{
				ID:          "usage-1",
				CreditsUsed: 20,
				Description: &desc,
				EnabledByID: "user-1",
				CreatedAt:   now,
			}},
		)

		var buf bytes.Buffer
		Expect(credit.WriteWorkbook(&buf, ledger)).To(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		Expect(f.GetSheetList()).To(Equal([]string{"Recharges", "Usage", "Summary"}))

		recharges, err := f.GetRows("Recharges")
		Expect(err).NotTo(HaveOccurred())
		Expect(recharges).To(HaveLen(2))
		Expect(recharges[1][0]).To(Equal("recharge-1"))
		Expect(recharges[1][3]).To(Equal("12.50"))
		Expect(recharges[1][4]).To(Equal("txn-1"))

		usage, err := f.GetRows("Usage")
		Expect(err).NotTo(HaveOccurred())
		Expect(usage).To(HaveLen(2))
		Expect(usage[1][5]).To(Equal("monthly hosting"))

		summary, err := f.GetRows("Summary")
		Expect(err).NotTo(HaveOccurred())
		Expect(summary).To(ContainElement([]string{"Remaining Credits", "80"}))
		Expect(summary).To(ContainElement([]string{"Recharged Credits", "100"}))
		Expect(summary).To(ContainElement([]string{"Amount Paid", "12.50"}))
	})
})
