package render

import (
	"regexp"
	"strings"
)

// printStyles is applied before the template's own CSS so templates can
// override everything except the page box.
const printStyles = `@page { size: A4; margin: 10mm; }
* { box-sizing: border-box; }
html, body { margin: 0; padding: 0; }
body { font-family: "Noto Sans", "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #111; }
table { border-collapse: collapse; width: 100%; }
img { max-width: 100%; }
@media print { .no-print { display: none !important; } }`

// styleClose matches an end tag opener for style in any letter case, which
// HTML parsers treat alike.
var styleClose = regexp.MustCompile(`(?i)</style`)

// Compose wraps an HTML body and its CSS in a standalone print document.
// The body is inserted as is.
func Compose(body, css string) string {
	var b strings.Builder
	b.Grow(len(body) + len(css) + len(printStyles) + 256)

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	b.WriteString("<style>\n")
	b.WriteString(printStyles)
	b.WriteString("\n</style>\n")
	if strings.TrimSpace(css) != "" {
		b.WriteString("<style>\n")
		// A literal "</style" in user CSS would end the element early.
		b.WriteString(styleClose.ReplaceAllLiteralString(css, `<\/style`))
		b.WriteString("\n</style>\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")

	return b.String()
}
