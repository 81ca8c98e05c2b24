package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/schooldocs/internal/domain"
)

// The repositories in this file read tables owned by the rest of the school
// platform. They never write.

type SchoolRepo struct {
	pool *pgxpool.Pool
}

func NewSchoolRepo(pool *pgxpool.Pool) *SchoolRepo {
	return &SchoolRepo{pool: pool}
}

func (r *SchoolRepo) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.School, error) {
	var s domain.School

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, address, phone, email, logo_url, principal_name
		 FROM schools WHERE tenant_id = $1
		 ORDER BY created_at
		 LIMIT 1`,
		tenantID,
	).Scan(&s.ID, &s.TenantID, &s.Name, &s.Address, &s.Phone, &s.Email, &s.LogoURL, &s.PrincipalName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("schoolRepo.GetByTenant: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("schoolRepo.GetByTenant: %w", err)
	}

	return &s, nil
}

const studentColumns = `st.id, st.tenant_id, st.school_id, u.id, u.name, u.email, u.phone,
		        st.class, st.section, st.roll_number, st.admission_number,
		        st.father_name, st.mother_name, st.date_of_birth`

type StudentRepo struct {
	pool *pgxpool.Pool
}

func NewStudentRepo(pool *pgxpool.Pool) *StudentRepo {
	return &StudentRepo{pool: pool}
}

func (r *StudentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Student, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+`
		 FROM students st JOIN users u ON u.id = st.user_id
		 WHERE st.tenant_id = $1 AND st.id = $2`,
		tenantID, id,
	)

	var st domain.Student
	err := row.Scan(studentDest(&st)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("studentRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("studentRepo.GetByID: %w", err)
	}

	return &st, nil
}

func studentDest(st *domain.Student) []any {
	return []any{
		&st.ID, &st.TenantID, &st.SchoolID, &st.User.ID, &st.User.Name, &st.User.Email, &st.User.Phone,
		&st.Class, &st.Section, &st.RollNumber, &st.AdmissionNumber,
		&st.FatherName, &st.MotherName, &st.DateOfBirth,
	}
}

type FeeRepo struct {
	pool *pgxpool.Pool
}

func NewFeeRepo(pool *pgxpool.Pool) *FeeRepo {
	return &FeeRepo{pool: pool}
}

const feeQuery = `SELECT f.id, f.tenant_id, f.receipt_number, f.fee_type, f.academic_year, f.month,
		        f.amount, f.paid_amount, f.discount, f.fine, f.due_date, f.paid_date,
		        f.payment_mode, f.status,
		        ` + studentColumns + `,
		        sc.id, sc.tenant_id, sc.name, sc.address, sc.phone, sc.email, sc.logo_url, sc.principal_name
		 FROM fees f
		 JOIN students st ON st.id = f.student_id
		 JOIN users u ON u.id = st.user_id
		 JOIN schools sc ON sc.id = st.school_id`

func (r *FeeRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Fee, error) {
	row := r.pool.QueryRow(ctx, feeQuery+` WHERE f.tenant_id = $1 AND f.id = $2`, tenantID, id)

	f, err := scanFee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("feeRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("feeRepo.GetByID: %w", err)
	}

	return f, nil
}

func (r *FeeRepo) ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]*domain.Fee, error) {
	rows, err := r.pool.Query(ctx,
		feeQuery+` WHERE f.tenant_id = $1 AND f.student_id = $2 ORDER BY f.due_date NULLS LAST, f.receipt_number`,
		tenantID, studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("feeRepo.ListByStudent: %w", err)
	}
	defer rows.Close()

	var fees []*domain.Fee
	for rows.Next() {
		f, scanErr := scanFee(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("feeRepo.ListByStudent: scan: %w", scanErr)
		}
		fees = append(fees, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feeRepo.ListByStudent: rows: %w", err)
	}

	return fees, nil
}

func scanFee(row pgx.Row) (*domain.Fee, error) {
	var f domain.Fee

	dest := []any{
		&f.ID, &f.TenantID, &f.ReceiptNumber, &f.FeeType, &f.AcademicYear, &f.Month,
		&f.Amount, &f.PaidAmount, &f.Discount, &f.Fine, &f.DueDate, &f.PaidDate,
		&f.PaymentMode, &f.Status,
	}
	dest = append(dest, studentDest(&f.Student)...)
	dest = append(dest,
		&f.School.ID, &f.School.TenantID, &f.School.Name, &f.School.Address,
		&f.School.Phone, &f.School.Email, &f.School.LogoURL, &f.School.PrincipalName,
	)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	return &f, nil
}

type ExaminationRepo struct {
	pool *pgxpool.Pool
}

func NewExaminationRepo(pool *pgxpool.Pool) *ExaminationRepo {
	return &ExaminationRepo{pool: pool}
}

func (r *ExaminationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Examination, error) {
	var (
		e                 domain.Examination
		classes, subjects []byte
	)

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, code, exam_type, academic_year, classes,
		        start_date, end_date, subjects, total_marks, passing_marks
		 FROM examinations WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(
		&e.ID, &e.TenantID, &e.Name, &e.Code, &e.ExamType, &e.AcademicYear, &classes,
		&e.StartDate, &e.EndDate, &subjects, &e.TotalMarks, &e.PassingMarks,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("examinationRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("examinationRepo.GetByID: %w", err)
	}

	if err := unmarshalJSONB(classes, &e.Classes); err != nil {
		return nil, fmt.Errorf("examinationRepo.GetByID: classes: %w", err)
	}
	if err := unmarshalJSONB(subjects, &e.Subjects); err != nil {
		return nil, fmt.Errorf("examinationRepo.GetByID: subjects: %w", err)
	}

	return &e, nil
}

type ResultRepo struct {
	pool *pgxpool.Pool
}

func NewResultRepo(pool *pgxpool.Pool) *ResultRepo {
	return &ResultRepo{pool: pool}
}

func (r *ResultRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Result, error) {
	var (
		res      domain.Result
		subjects []byte
	)

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, student_id, examination_id, subjects, remarks, published_at
		 FROM results WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&res.ID, &res.TenantID, &res.StudentID, &res.ExaminationID, &subjects, &res.Remarks, &res.PublishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("resultRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resultRepo.GetByID: %w", err)
	}

	if err := unmarshalJSONB(subjects, &res.Subjects); err != nil {
		return nil, fmt.Errorf("resultRepo.GetByID: subjects: %w", err)
	}

	return &res, nil
}

// unmarshalJSONB decodes a JSONB column; NULL leaves v untouched.
func unmarshalJSONB(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
