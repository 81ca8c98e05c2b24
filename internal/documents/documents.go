// Package documents assembles the data object of each printable document from
// school records. Assemblers are pure: they read their inputs and never touch
// storage.
package documents

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gosuda/schooldocs/internal/domain"
)

// DisplayDate is the layout of every date printed on a document.
const DisplayDate = "02 Jan 2006"

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // validator caches struct metadata

// check validates v's struct tags and reports failures as a bad request that
// names each field.
func check(what string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%s: %w: %v", what, domain.ErrBadRequest, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace()+" "+fe.Tag())
	}
	return fmt.Errorf("%s: invalid %s: %w", what, strings.Join(fields, ", "), domain.ErrBadRequest)
}

// named pairs an assembler input with the name used in validation errors.
type named struct {
	name  string
	value any
}

func checkAll(op string, inputs ...named) error {
	for _, in := range inputs {
		if err := check(op+": "+in.name, in.value); err != nil {
			return err
		}
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DisplayDate)
}

func schoolData(s *domain.School) map[string]any {
	return map[string]any{
		"name":          s.Name,
		"address":       s.Address,
		"phone":         s.Phone,
		"email":         s.Email,
		"logoUrl":       s.LogoURL,
		"principalName": s.PrincipalName,
	}
}

func studentData(st *domain.Student) map[string]any {
	return map[string]any{
		"name":            st.User.Name,
		"class":           st.Class,
		"section":         st.Section,
		"rollNumber":      st.RollNumber,
		"admissionNumber": st.AdmissionNumber,
		"fatherName":      st.FatherName,
		"motherName":      st.MotherName,
		"dateOfBirth":     formatDate(st.DateOfBirth),
	}
}

// row renders one table row, escaping every cell.
func row(cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		b.WriteString("<td>")
		b.WriteString(html.EscapeString(c))
		b.WriteString("</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}
