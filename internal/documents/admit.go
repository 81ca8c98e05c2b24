package documents

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/variables"
)

// PendingFeesError blocks an admit card while the student owes fees.
type PendingFeesError struct {
	Amount decimal.Decimal
}

func (e *PendingFeesError) Error() string {
	return "pending fees of " + FormatINR(e.Amount) + " must be cleared before the admit card is issued"
}

func (e *PendingFeesError) Unwrap() error {
	return domain.ErrForbidden
}

// PendingBalance sums amount - paidAmount over the fees that still expect
// payment.
func PendingBalance(fees []*domain.Fee) decimal.Decimal {
	total := decimal.Zero
	for _, f := range fees {
		if f.Status.Outstanding() {
			total = total.Add(f.Balance())
		}
	}
	return total
}

// AdmitCardNumber is ADM-<exam code>-<roll number>-<base36 unix millis>.
func AdmitCardNumber(examCode, rollNumber string, now time.Time) string {
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "ADM-" + strings.ToUpper(strings.TrimSpace(examCode)) + "-" + strings.TrimSpace(rollNumber) + "-" + stamp
}

// AdmitCard builds an admit card. It fails with *PendingFeesError when the
// student's outstanding fees do not sum to zero, and with ErrForbidden when
// the examination is not held for the student's class and section.
func AdmitCard(student *domain.Student, exam *domain.Examination, school *domain.School, fees []*domain.Fee, now time.Time) (variables.Data, error) {
	if err := checkAll("documents.AdmitCard",
		named{"student", student}, named{"examination", exam}, named{"school", school},
	); err != nil {
		return nil, err
	}

	if pending := PendingBalance(fees); pending.IsPositive() {
		return nil, fmt.Errorf("documents.AdmitCard: %w", &PendingFeesError{Amount: pending})
	}
	if !exam.Includes(student.Class, student.Section) {
		return nil, fmt.Errorf("documents.AdmitCard: examination %s is not held for class %s-%s: %w",
			exam.Code, student.Class, student.Section, domain.ErrForbidden)
	}

	var rows strings.Builder
	for _, s := range exam.Subjects {
		rows.WriteString(row(s.Name, formatDate(s.Date), s.StartTime, s.EndTime))
	}

	return variables.Data{
		"student":         studentData(student),
		"examination":     examinationData(exam),
		"school":          schoolData(school),
		"generatedAt":     formatDate(&now),
		"admitCardNumber": AdmitCardNumber(exam.Code, student.RollNumber, now),
		"subjectRows":     rows.String(),
	}, nil
}

func examinationData(e *domain.Examination) map[string]any {
	return map[string]any{
		"name":         e.Name,
		"code":         e.Code,
		"examType":     e.ExamType,
		"academicYear": e.AcademicYear,
		"startDate":    formatDate(e.StartDate),
		"endDate":      formatDate(e.EndDate),
		"totalMarks":   e.TotalMarks.String(),
		"passingMarks": e.PassingMarks.String(),
	}
}
