package documents

import (
	"time"

	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/variables"
)

type CertificateInput struct {
	Title        string     `json:"title" validate:"required"`
	Purpose      string     `json:"purpose,omitempty"`
	IssuedOn     *time.Time `json:"issuedOn,omitempty"`
	SerialNumber string     `json:"serialNumber,omitempty"`
}

func Certificate(school *domain.School, student *domain.Student, in CertificateInput, now time.Time) (variables.Data, error) {
	if err := checkAll("documents.Certificate",
		named{"certificate", in}, named{"school", school}, named{"student", student},
	); err != nil {
		return nil, err
	}

	issued := in.IssuedOn
	if issued == nil {
		issued = &now
	}

	return variables.Data{
		"school":  schoolData(school),
		"student": studentData(student),
		"certificate": map[string]any{
			"title":        in.Title,
			"purpose":      in.Purpose,
			"issuedOn":     formatDate(issued),
			"serialNumber": in.SerialNumber,
		},
		"date": formatDate(issued),
	}, nil
}
