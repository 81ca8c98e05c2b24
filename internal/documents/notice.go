package documents

import (
	"bytes"
	"fmt"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/gosuda/schooldocs/internal/domain"
	"github.com/gosuda/schooldocs/internal/variables"
)

// Raw HTML in notice bodies is dropped by the renderer.
var markdown = goldmark.New( //nolint:gochecknoglobals // goldmark.Markdown is safe for concurrent use
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

type NoticeInput struct {
	Title    string     `json:"title" validate:"required"`
	Body     string     `json:"body" validate:"required"` // Markdown
	Date     *time.Time `json:"date,omitempty"`
	IssuedBy string     `json:"issuedBy,omitempty"`
}

// Notice builds a school notice. The Markdown body is exposed as
// notice.bodyHtml; a missing date defaults to now.
func Notice(school *domain.School, in NoticeInput, now time.Time) (variables.Data, error) {
	if err := checkAll("documents.Notice", named{"notice", in}, named{"school", school}); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(in.Body), &body); err != nil {
		return nil, fmt.Errorf("documents.Notice: markdown: %w", domain.ErrBadRequest)
	}

	date := in.Date
	if date == nil {
		date = &now
	}

	return variables.Data{
		"school": schoolData(school),
		"notice": map[string]any{
			"title":    in.Title,
			"date":     formatDate(date),
			"issuedBy": in.IssuedBy,
			"body":     in.Body,
			"bodyHtml": body.String(),
		},
		"date": formatDate(date),
	}, nil
}
