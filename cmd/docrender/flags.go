package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

var errHelp = flag.ErrHelp

type cliFlags struct {
	htmlPath   string
	cssPath    string
	dataPath   string
	outPath    string
	preview    bool
	timeout    time.Duration
	browserBin string
	noSandbox  bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	fs := flag.NewFlagSet("docrender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &cliFlags{}

	fs.StringVar(&f.htmlPath, "html", "", "template HTML file (required)")
	fs.StringVar(&f.cssPath, "css", "", "template CSS file")
	fs.StringVarP(&f.dataPath, "data", "d", "", "JSON data file (default: built-in sample data)")
	fs.StringVarP(&f.outPath, "out", "o", "", `output file, "-" for stdout (default: document.pdf, or document.html with --preview)`)
	fs.BoolVar(&f.preview, "preview", false, "write the composed HTML instead of a PDF")
	fs.DurationVarP(&f.timeout, "timeout", "t", 30*time.Second, "PDF generation timeout")
	fs.StringVar(&f.browserBin, "browser-bin", "", "Chrome or Chromium binary (default: auto-detect)")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable Chrome's sandbox (containers)")
	fs.BoolVarP(&f.version, "version", "v", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if f.version {
		return f, nil
	}

	if f.htmlPath == "" {
		return nil, fmt.Errorf("%w: --html is required", errUsage)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	if f.timeout <= 0 {
		return nil, fmt.Errorf("%w: --timeout must be positive, got %s", errUsage, f.timeout)
	}
	if f.outPath == "" {
		f.outPath = "document.pdf"
		if f.preview {
			f.outPath = "document.html"
		}
	}

	return f, nil
}
