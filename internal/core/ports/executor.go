package ports

import "context"

// CommandRunner defines the interface for running external commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type CommandRunner interface {
	// Run executes name with args and returns its standard output.
	//
	// It returns an error if the command cannot be started or exits non-zero.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
