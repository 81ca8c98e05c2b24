package main

import (
	"errors"
	"os"

	"github.com/gosuda/schooldocs/internal/domain"
)

// Exit codes follow Unix conventions: 0=success, 1=general, 2=usage.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2 // invalid flags or data file
	ExitIO      = 3 // file not found, permission denied
	ExitBrowser = 4 // Chrome could not be started or failed to print
)

func exitCodeFor(err error) int {
	switch {
	case err == nil, errors.Is(err, errHelp):
		return ExitSuccess
	case errors.Is(err, domain.ErrRender):
		return ExitBrowser
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return ExitIO
	case errors.Is(err, errUsage), errors.Is(err, domain.ErrBadRequest):
		return ExitUsage
	default:
		return ExitGeneral
	}
}
