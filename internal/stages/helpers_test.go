package stages_test

import (
	"context"

	"github.com/askiada/go-provision/internal/command"
)

type call struct {
	name string
	args []string
}

// fakeRunner records every invocation and answers with a scripted response.
type fakeRunner struct {
	calls   []call
	respond func(name string, args ...string) (command.Result, error)
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (command.Result, error) {
	r.calls = append(r.calls, call{name: name, args: args})

	if r.respond == nil {
		return command.Result{}, nil
	}

	return r.respond(name, args...)
}

var _ command.Runner = (*fakeRunner)(nil)
