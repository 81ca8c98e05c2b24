// Command docrender renders one HTML template to an A4 PDF on the local
// machine, without the database. It is meant for template authors.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/gosuda/schooldocs/internal/render"
	"github.com/gosuda/schooldocs/internal/variables"
)

// Version is set at build time via ldflags.
var Version = "dev"

var errUsage = errors.New("usage")

func main() {
	// maxprocs.Set only fails on an invalid GOMAXPROCS; runtime defaults apply then.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, chromeFactory)
	if err != nil && !errors.Is(err, errHelp) {
		fmt.Fprintln(os.Stderr, "docrender:", err)
	}
	os.Exit(exitCodeFor(err))
}

// rasterizerFactory builds the PDF backend from the parsed flags.
type rasterizerFactory func(f *cliFlags) render.Rasterizer

func chromeFactory(f *cliFlags) render.Rasterizer {
	return render.NewChromeRasterizer(render.ChromeOptions{
		BrowserBin:    f.browserBin,
		NoSandbox:     f.noSandbox,
		Timeout:       f.timeout,
		MaxConcurrent: 1,
	})
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, newRasterizer rasterizerFactory) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if f.version {
		fmt.Fprintln(stdout, "docrender", Version)
		return nil
	}

	html, err := os.ReadFile(f.htmlPath)
	if err != nil {
		return fmt.Errorf("reading html: %w", err)
	}

	var css []byte
	if f.cssPath != "" {
		css, err = os.ReadFile(f.cssPath)
		if err != nil {
			return fmt.Errorf("reading css: %w", err)
		}
	}

	data, err := loadData(f.dataPath)
	if err != nil {
		return err
	}

	if f.preview {
		page := render.Compose(variables.Resolve(string(html), data), string(css))
		return writeOutput(f.outPath, stdout, []byte(page))
	}

	engine := render.NewEngine(nil, newRasterizer(f))
	doc, err := engine.Render(ctx, render.Request{HTML: string(html), CSS: string(css), Data: data})
	if err != nil {
		return err
	}
	if len(doc.Unresolved) > 0 {
		fmt.Fprintln(stderr, "docrender: unresolved variables:", strings.Join(doc.Unresolved, ", "))
	}

	pdf, err := base64.StdEncoding.DecodeString(doc.PDFBase64)
	if err != nil {
		return fmt.Errorf("decoding pdf: %w", err)
	}
	return writeOutput(f.outPath, stdout, pdf)
}

// loadData reads a JSON object from path. Without a path the built-in sample
// data is used.
func loadData(path string) (variables.Data, error) {
	if path == "" {
		return render.SampleData(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}

	var data variables.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s is not a JSON object: %v", errUsage, path, err)
	}
	if data == nil {
		data = variables.Data{}
	}
	return data, nil
}

// writeOutput writes to path, or to stdout when path is "-".
func writeOutput(path string, stdout io.Writer, b []byte) error {
	if path == "-" {
		_, err := stdout.Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil { //nolint:gosec // output is a user document
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
