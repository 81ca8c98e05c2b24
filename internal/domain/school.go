package domain

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The aggregates below are owned by the rest of the school SaaS. This service
// only reads them to assemble documents.

type School struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenantId"`
	Name          string    `json:"name" validate:"required"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	LogoURL       string    `json:"logoUrl"`
	PrincipalName string    `json:"principalName"`
}

type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name" validate:"required"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
}

type Student struct {
	ID              uuid.UUID  `json:"id"`
	TenantID        uuid.UUID  `json:"tenantId"`
	SchoolID        uuid.UUID  `json:"schoolId"`
	User            User       `json:"user"`
	Class           string     `json:"class" validate:"required"`
	Section         string     `json:"section"`
	RollNumber      string     `json:"rollNumber" validate:"required"`
	AdmissionNumber string     `json:"admissionNumber"`
	FatherName      string     `json:"fatherName"`
	MotherName      string     `json:"motherName"`
	DateOfBirth     *time.Time `json:"dateOfBirth,omitempty"`
}

type FeeStatus string

const (
	FeeStatusPending FeeStatus = "pending"
	FeeStatusPartial FeeStatus = "partial"
	FeeStatusOverdue FeeStatus = "overdue"
	FeeStatusPaid    FeeStatus = "paid"
	FeeStatusWaived  FeeStatus = "waived"
)

// Outstanding reports whether the status still expects money from the student.
func (s FeeStatus) Outstanding() bool {
	return s == FeeStatusPending || s == FeeStatusPartial || s == FeeStatusOverdue
}

type Fee struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenantId"`
	Student       Student         `json:"student"`
	School        School          `json:"school"`
	ReceiptNumber string          `json:"receiptNumber" validate:"required"`
	FeeType       string          `json:"feeType"`
	AcademicYear  string          `json:"academicYear"`
	Month         string          `json:"month"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Discount      decimal.Decimal `json:"discount"`
	Fine          decimal.Decimal `json:"fine"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	PaidDate      *time.Time      `json:"paidDate,omitempty"`
	PaymentMode   string          `json:"paymentMode"`
	Status        FeeStatus       `json:"status"`
}

// Balance is the unpaid part of the fee.
func (f *Fee) Balance() decimal.Decimal {
	return f.Amount.Sub(f.PaidAmount)
}

type ClassSection struct {
	Class   string `json:"class" validate:"required"`
	Section string `json:"section"` // empty matches every section of Class
}

type ExamSubject struct {
	Name         string          `json:"name" validate:"required"`
	Code         string          `json:"code"`
	Date         *time.Time      `json:"date,omitempty"`
	StartTime    string          `json:"startTime"`
	EndTime      string          `json:"endTime"`
	MaxMarks     decimal.Decimal `json:"maxMarks"`
	PassingMarks decimal.Decimal `json:"passingMarks"`
}

type Examination struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenantId"`
	Name         string          `json:"name" validate:"required"`
	Code         string          `json:"code" validate:"required"`
	ExamType     string          `json:"examType"`
	AcademicYear string          `json:"academicYear"`
	Classes      []ClassSection  `json:"classes" validate:"dive"`
	StartDate    *time.Time      `json:"startDate,omitempty"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
	Subjects     []ExamSubject   `json:"subjects" validate:"dive"`
	TotalMarks   decimal.Decimal `json:"totalMarks"`
	PassingMarks decimal.Decimal `json:"passingMarks"` // aggregate, across all subjects
}

// Includes reports whether the examination is held for the student's class and section.
func (e *Examination) Includes(class, section string) bool {
	return slices.ContainsFunc(e.Classes, func(cs ClassSection) bool {
		return cs.Class == class && (cs.Section == "" || cs.Section == section)
	})
}

type SubjectResult struct {
	Name          string          `json:"name" validate:"required"`
	Code          string          `json:"code"`
	MaxMarks      decimal.Decimal `json:"maxMarks"`
	PassingMarks  decimal.Decimal `json:"passingMarks"`
	ObtainedMarks decimal.Decimal `json:"obtainedMarks"`
	Remarks       string          `json:"remarks"`
}

type Result struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenantId"`
	StudentID     uuid.UUID       `json:"studentId"`
	ExaminationID uuid.UUID       `json:"examinationId"`
	Subjects      []SubjectResult `json:"subjects" validate:"min=1,dive"`
	Remarks       string          `json:"remarks"`
	PublishedAt   *time.Time      `json:"publishedAt,omitempty"`
}

type SchoolRepository interface {
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*School, error)
}

type StudentRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Student, error)
}

// FeeRepository returns fees with Student and School populated.
type FeeRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Fee, error)
	ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]*Fee, error)
}

type ExaminationRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Examination, error)
}

type ResultRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Result, error)
}
