package documents

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/variables"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
)

var hundred = decimal.NewFromInt(100) //nolint:gochecknoglobals // constant

// Grade maps a percentage to a letter grade.
func Grade(pct float64) string {
	switch {
	case pct >= 90:
		return "A+"
	case pct >= 80:
		return "A"
	case pct >= 70:
		return "B+"
	case pct >= 60:
		return "B"
	case pct >= 50:
		return "C"
	case pct >= 40:
		return "D"
	default:
		return "F"
	}
}

// percentage is obtained/max*100 rounded to two places; zero when max is zero.
func percentage(obtained, maxMarks decimal.Decimal) decimal.Decimal {
	if !maxMarks.IsPositive() {
		return decimal.Zero
	}
	return obtained.Mul(hundred).Div(maxMarks).Round(2)
}

// ResultCard builds a result card. The result passes only when every subject
// is passed and the total reaches the examination's aggregate passing marks.
// Subject rows are pre-rendered into subjectRows.
func ResultCard(result *domain.Result, student *domain.Student, exam *domain.Examination, school *domain.School) (variables.Data, error) {
	if err := checkAll("documents.ResultCard",
		named{"result", result}, named{"student", student}, named{"examination", exam}, named{"school", school},
	); err != nil {
		return nil, err
	}
	if result.StudentID != student.ID {
		return nil, fmt.Errorf("documents.ResultCard: result belongs to another student: %w", domain.ErrBadRequest)
	}
	if result.ExaminationID != exam.ID {
		return nil, fmt.Errorf("documents.ResultCard: result belongs to another examination: %w", domain.ErrBadRequest)
	}

	var (
		rows        strings.Builder
		totalMax    = decimal.Zero
		totalMarks  = decimal.Zero
		allSubjects = true
	)
	for _, s := range result.Subjects {
		passed := s.ObtainedMarks.GreaterThanOrEqual(s.PassingMarks)
		allSubjects = allSubjects && passed

		status := statusFail
		if passed {
			status = statusPass
		}
		pct := percentage(s.ObtainedMarks, s.MaxMarks)
		rows.WriteString(row(
			s.Name, s.MaxMarks.String(), s.PassingMarks.String(), s.ObtainedMarks.String(),
			Grade(pct.InexactFloat64()), status,
		))

		totalMax = totalMax.Add(s.MaxMarks)
		totalMarks = totalMarks.Add(s.ObtainedMarks)
	}

	pct := percentage(totalMarks, totalMax)
	grade := Grade(pct.InexactFloat64())
	overall := statusFail
	if allSubjects && totalMarks.GreaterThanOrEqual(exam.PassingMarks) {
		overall = statusPass
	}

	return variables.Data{
		"school":      schoolData(school),
		"student":     studentData(student),
		"examination": examinationData(exam),
		"result": map[string]any{
			"totalMarks":    totalMax.String(),
			"obtainedMarks": totalMarks.String(),
			"percentage":    pct.StringFixed(2),
			"grade":         grade,
			"status":        overall,
			"remarks":       result.Remarks,
			"publishedAt":   formatDate(result.PublishedAt),
		},
		"subjectRows":   rows.String(),
		"studentName":   student.User.Name,
		"rollNumber":    student.RollNumber,
		"className":     student.Class,
		"section":       student.Section,
		"examName":      exam.Name,
		"totalMarks":    totalMax.String(),
		"obtainedMarks": totalMarks.String(),
		"percentage":    pct.StringFixed(2),
		"grade":         grade,
		"resultStatus":  overall,
	}, nil
}
