package executil

import (
	"context"
	"io"
	"sync"
)

// RecordingExecutor captures commands for testing. Outputs and Errors are keyed
// by Command.String().
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []Command

	Outputs map[string][]byte
	Errors  map[string]error
}

// Run records c and writes the configured output to stdout.
func (e *RecordingExecutor) Run(_ context.Context, c Command, stdout, _ io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, c)

	key := c.String()
	if out := e.Outputs[key]; stdout != nil && len(out) > 0 {
		_, _ = stdout.Write(out)
	}
	return e.Errors[key]
}

// Scripts returns the sh -c scripts recorded so far.
func (e *RecordingExecutor) Scripts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var scripts []string
	for _, c := range e.Commands {
		if c.Name == "sh" && len(c.Args) == 2 && c.Args[0] == "-c" {
			scripts = append(scripts, c.Args[1])
		}
	}
	return scripts
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
