// Package variables extracts and resolves {{path.to.value}} placeholders in
// template HTML.
//
// A placeholder is "{{", optional whitespace, one or more identifier segments
// joined by ".", optional whitespace and "}}". Anything else, including an
// unterminated "{{", is ordinary text and is never touched.
package variables

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Data is the nested key-value tree placeholders resolve against. Nested
// nodes may be Data or map[string]any.
type Data = map[string]any

var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\s*\}\}`)

// Extract returns every distinct placeholder path in html, in first-seen order.
func Extract(html string) []string {
	matches := tokenPattern.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(matches))
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		p := m[1]
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	return paths
}

// Resolve substitutes every resolvable placeholder in html with the string form
// of its value. Unresolvable placeholders are left exactly as written.
func Resolve(html string, data Data) string {
	out, _ := Compile(html, data)
	return out
}

// Compile is Resolve that also reports the distinct unresolved paths in
// first-seen order.
func Compile(html string, data Data) (string, []string) {
	unresolved := []string{}
	seen := map[string]struct{}{}

	out := tokenPattern.ReplaceAllStringFunc(html, func(token string) string {
		path := tokenPattern.FindStringSubmatch(token)[1]

		v, ok := Lookup(data, path)
		if ok {
			if s, scalar := Stringify(v); scalar {
				return s
			}
		}

		if _, dup := seen[path]; !dup {
			seen[path] = struct{}{}
			unresolved = append(unresolved, path)
		}
		return token
	})

	return out, unresolved
}

// Lookup walks data along the dotted path. It fails as soon as a segment is
// missing or the current value is not a map.
func Lookup(data Data, path string) (any, bool) {
	var cur any = data
	for seg := range strings.SplitSeq(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok || m == nil {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Stringify renders a scalar without locale formatting. The second result is
// false for maps, slices and other non-scalar values.
func Stringify(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case decimal.Decimal:
		return x.String(), true
	case time.Time:
		return x.Format(time.DateOnly), true
	case *time.Time:
		if x == nil {
			return "", true
		}
		return x.Format(time.DateOnly), true
	case fmt.Stringer:
		// A nil pointer renders empty, like nil.
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", true
		}
		return x.String(), true
	default:
		return "", false
	}
}
