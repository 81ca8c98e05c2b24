package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/schooldocs/internal/documents"
	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/variables"
)

// PrintOptions selects the template of a print request. Without a template
// ID the tenant's default for the document type is used.
type PrintOptions struct {
	TemplateID *uuid.UUID `json:"templateId,omitempty" doc:"Template to use instead of the tenant default"`
}

type PrintFeeInput struct {
	ID   uuid.UUID    `path:"id" doc:"Fee ID"`
	Body PrintOptions `required:"false"`
}

type PrintAdmitCardInput struct {
	ExamID    uuid.UUID    `path:"id" doc:"Examination ID"`
	StudentID uuid.UUID    `path:"studentID" doc:"Student ID"`
	Body      PrintOptions `required:"false"`
}

type PrintResultInput struct {
	ID   uuid.UUID    `path:"id" doc:"Result ID"`
	Body PrintOptions `required:"false"`
}

type PrintNoticeInput struct {
	Body struct {
		PrintOptions
		documents.NoticeInput
	}
}

type PrintCertificateInput struct {
	StudentID uuid.UUID `path:"id" doc:"Student ID"`
	Body      struct {
		PrintOptions
		documents.CertificateInput
	}
}

// printer picks the template for an assembled document and renders it.
type printer struct {
	svc      TemplateService
	renderer Renderer
	now      func() time.Time
}

func (p *printer) print(ctx context.Context, c caller, opts PrintOptions, docType domain.DocumentType, data variables.Data) (*DocumentOutput, error) {
	var (
		t   *domain.Template
		err error
	)
	if opts.TemplateID != nil {
		t, err = p.svc.Get(ctx, c.TenantID, *opts.TemplateID)
		if err == nil && t.DocumentType != docType {
			err = fmt.Errorf("template %s is a %s template, not %s: %w", t.ID, t.DocumentType, docType, domain.ErrBadRequest)
		}
	} else {
		t, err = p.svc.GetDefault(ctx, c.TenantID, docType)
	}
	if err != nil {
		return nil, httpError(err, string(docType)+" template")
	}

	doc, err := p.renderer.RenderTemplate(ctx, t, data)
	if err != nil {
		return nil, httpError(err, "document")
	}

	log.Info().
		Str("tenant_id", c.TenantID.String()).
		Str("template_id", t.ID.String()).
		Str("document_type", string(docType)).
		Int("unresolved", len(doc.Unresolved)).
		Msg("print: document rendered")

	return &DocumentOutput{Body: doc}, nil
}

func RegisterPrintRoutes(api huma.API, store DataStore, svc TemplateService, renderer Renderer, now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	p := &printer{svc: svc, renderer: renderer, now: now}

	huma.Register(api, huma.Operation{
		OperationID: "print-fee-receipt",
		Method:      http.MethodPost,
		Path:        "/fees/{id}/print",
		Summary:     "Print a fee receipt",
		Tags:        []string{"Printing"},
	}, func(ctx context.Context, input *PrintFeeInput) (*DocumentOutput, error) {
		c, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}

		fee, err := store.Fees().GetByID(ctx, c.TenantID, input.ID)
		if err != nil {
			return nil, httpError(err, "fee")
		}

		data, err := documents.FeeReceipt(fee, p.now())
		if err != nil {
			return nil, httpError(err, "fee")
		}

		return p.print(ctx, c, input.Body, domain.DocumentTypeFeeReceipt, data)
	})

	huma.Register(api, huma.Operation{
		OperationID: "print-admit-card",
		Method:      http.MethodPost,
		Path:        "/examinations/{id}/admit-cards/{studentID}/print",
		Summary:     "Print a student's admit card",
		Description: "Refused with 403 while the student has pending fees or the examination is not held for the student's class.",
		Tags:        []string{"Printing"},
	}, func(ctx context.Context, input *PrintAdmitCardInput) (*DocumentOutput, error) {
		c, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}

		student, err := store.Students().GetByID(ctx, c.TenantID, input.StudentID)
		if err != nil {
			return nil, httpError(err, "student")
		}
		exam, err := store.Examinations().GetByID(ctx, c.TenantID, input.ExamID)
		if err != nil {
			return nil, httpError(err, "examination")
		}
		school, err := store.Schools().GetByTenant(ctx, c.TenantID)
		if err != nil {
			return nil, httpError(err, "school")
		}
		fees, err := store.Fees().ListByStudent(ctx, c.TenantID, student.ID)
		if err != nil {
			return nil, httpError(err, "fees")
		}

		data, err := documents.AdmitCard(student, exam, school, fees, p.now())
		if err != nil {
			return nil, httpError(err, "admit card")
		}

		return p.print(ctx, c, input.Body, domain.DocumentTypeAdmitCard, data)
	})

	huma.Register(api, huma.Operation{
		OperationID: "print-result-card",
		Method:      http.MethodPost,
		Path:        "/examinations/results/{id}/print",
		Summary:     "Print a result card",
		Tags:        []string{"Printing"},
	}, func(ctx context.Context, input *PrintResultInput) (*DocumentOutput, error) {
		c, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}

		result, err := store.Results().GetByID(ctx, c.TenantID, input.ID)
		if err != nil {
			return nil, httpError(err, "result")
		}
		student, err := store.Students().GetByID(ctx, c.TenantID, result.StudentID)
		if err != nil {
			return nil, httpError(err, "student")
		}
		exam, err := store.Examinations().GetByID(ctx, c.TenantID, result.ExaminationID)
		if err != nil {
			return nil, httpError(err, "examination")
		}
		school, err := store.Schools().GetByTenant(ctx, c.TenantID)
		if err != nil {
			return nil, httpError(err, "school")
		}

		data, err := documents.ResultCard(result, student, exam, school)
		if err != nil {
			return nil, httpError(err, "result")
		}

		return p.print(ctx, c, input.Body, domain.DocumentTypeResultCard, data)
	})

	huma.Register(api, huma.Operation{
		OperationID: "print-notice",
		Method:      http.MethodPost,
		Path:        "/notices/print",
		Summary:     "Print a notice with a Markdown body",
		Tags:        []string{"Printing"},
	}, func(ctx context.Context, input *PrintNoticeInput) (*DocumentOutput, error) {
		c, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}

		school, err := store.Schools().GetByTenant(ctx, c.TenantID)
		if err != nil {
			return nil, httpError(err, "school")
		}

		data, err := documents.Notice(school, input.Body.NoticeInput, p.now())
		if err != nil {
			return nil, httpError(err, "notice")
		}

		return p.print(ctx, c, input.Body.PrintOptions, domain.DocumentTypeNotice, data)
	})

	huma.Register(api, huma.Operation{
		OperationID: "print-certificate",
		Method:      http.MethodPost,
		Path:        "/students/{id}/certificates/print",
		Summary:     "Print a certificate for a student",
		Tags:        []string{"Printing"},
	}, func(ctx context.Context, input *PrintCertificateInput) (*DocumentOutput, error) {
		c, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}

		student, err := store.Students().GetByID(ctx, c.TenantID, input.StudentID)
		if err != nil {
			return nil, httpError(err, "student")
		}
		school, err := store.Schools().GetByTenant(ctx, c.TenantID)
		if err != nil {
			return nil, httpError(err, "school")
		}

		data, err := documents.Certificate(school, student, input.Body.CertificateInput, p.now())
		if err != nil {
			return nil, httpError(err, "certificate")
		}

		return p.print(ctx, c, input.Body.PrintOptions, domain.DocumentTypeCertificate, data)
	})
}
