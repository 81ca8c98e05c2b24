package documents

import (
	"time"

	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/variables"
)

// FeeReceipt builds the data of a fee receipt. The receipt is dated on the
// payment date, or now when the fee has none. Amounts in words are spelled
// from the paid amount.
func FeeReceipt(fee *domain.Fee, now time.Time) (variables.Data, error) {
	if err := check("documents.FeeReceipt", fee); err != nil {
		return nil, err
	}

	date := fee.PaidDate
	if date == nil {
		date = &now
	}

	student := studentData(&fee.Student)

	return variables.Data{
		"school": schoolData(&fee.School),
		"receipt": map[string]any{
			"number":       fee.ReceiptNumber,
			"date":         formatDate(date),
			"academicYear": fee.AcademicYear,
			"paymentMode":  fee.PaymentMode,
		},
		"student": student,
		"fee": map[string]any{
			"type":          fee.FeeType,
			"month":         fee.Month,
			"amount":        FormatINR(fee.Amount),
			"paidAmount":    FormatINR(fee.PaidAmount),
			"discount":      FormatINR(fee.Discount),
			"fine":          FormatINR(fee.Fine),
			"balance":       FormatINR(fee.Balance()),
			"status":        string(fee.Status),
			"dueDate":       formatDate(fee.DueDate),
			"amountInWords": AmountInWords(fee.PaidAmount),
		},
		"date": formatDate(&now),
	}, nil
}
