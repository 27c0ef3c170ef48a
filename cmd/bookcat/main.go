// Command bookcat is a terminal client for a GraphQL book catalog.
package main

import (
	"errors"
	"os"

	"github.com/rshade/bookcat/internal/book"
	"github.com/rshade/bookcat/internal/cli"
	"github.com/rshade/bookcat/internal/graphql"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev" //nolint:gochecknoglobals // Set by the linker.

// Exit codes beyond the generic failure.
const (
	exitFailure    = 1
	exitValidation = 2
	exitNetwork    = 3
)

func run() error {
	return cli.NewRootCmd(version).Execute()
}

// exitCode maps an error returned by the command tree to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var verr *book.ValidationError
	if errors.As(err, &verr) {
		return exitValidation
	}
	if graphql.IsNetwork(err) {
		return exitNetwork
	}
	return exitFailure
}

func main() {
	if err := run(); err != nil {
		os.Exit(exitCode(err))
	}
}
