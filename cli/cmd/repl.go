package cmd

import (
	"context"

	"github.com/ardnew/wml/cli/cmd/repl"
	"github.com/ardnew/wml/log"
)

// Repl starts an interactive session.
type Repl struct{}

// Run executes the repl command. Host constants defined on the command line
// are visible to the session.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, interpreterFrom(ctx), cacheDir, log.Default())
}
