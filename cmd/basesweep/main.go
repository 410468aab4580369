// Package main is the entry point for basesweep.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/basesweep/cmd/basesweep/commands"
	"go.trai.ch/basesweep/internal/app"
	"go.trai.ch/basesweep/internal/core/domain"
	_ "go.trai.ch/basesweep/internal/wiring"
)

// Exit codes.
const (
	exitOK = iota
	exitFailure
	exitConfig
	exitFilesystem
	exitInspection
	exitUnresolved
	exitDigestMismatch
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return exitFailure
	}
	defer cleanup()

	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		code := exitCode(err)
		if code != exitUnresolved {
			// Unresolved backing files were already reported one by one.
			components.Logger.Error(err)
		}
		return code
	}
	return exitOK
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrConfigReadFailed),
		errors.Is(err, domain.ErrConfigParseFailed),
		errors.Is(err, domain.ErrInvalidSettings),
		errors.Is(err, domain.ErrInvalidProtectPattern):
		return exitConfig
	case errors.Is(err, domain.ErrCacheScanFailed),
		errors.Is(err, domain.ErrInstanceScanFailed),
		errors.Is(err, domain.ErrCacheDirNotInInstances),
		errors.Is(err, domain.ErrRemoveFailed):
		return exitFilesystem
	case errors.Is(err, domain.ErrDiskInspectionFailed),
		errors.Is(err, domain.ErrUnexpectedInspectionOutput),
		errors.Is(err, domain.ErrCommandFailed):
		return exitInspection
	case errors.Is(err, domain.ErrPlanDigestMismatch):
		return exitDigestMismatch
	case errors.Is(err, domain.ErrUnresolvedBackingFile):
		return exitUnresolved
	default:
		return exitFailure
	}
}
