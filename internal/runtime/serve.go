package runtime

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handle owns a background runtime process for the duration of one stage.
// The process is reaped exactly once, whichever exit path the stage takes.
type Handle struct {
	cmd      *exec.Cmd
	grp      *errgroup.Group
	stopOnce sync.Once
	stopErr  error
}

// Serve spawns the runtime binary in the background and pumps its output
// into the logger until the process exits.
func Serve(ctx context.Context, bin string, log *zap.Logger, args ...string) (*Handle, error) {
	if len(args) == 0 {
		args = []string{"serve"}
	}

	cmd := exec.CommandContext(ctx, bin, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "unable to open stdout pipe")
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(err, "unable to open stderr pipe")
	}

	err = cmd.Start()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to start %s", bin)
	}

	log.Info("runtime started", zap.String("bin", bin), zap.Int("pid", cmd.Process.Pid))

	grp := &errgroup.Group{}
	grp.Go(func() error {
		pump(stdout, log)

		return nil
	})
	grp.Go(func() error {
		pump(stderr, log)

		return nil
	})

	return &Handle{cmd: cmd, grp: grp}, nil
}

// Pid returns the process id of the background runtime.
func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}

// Stop terminates the background process and waits for its exit. It is safe
// to call more than once; only the first call does the work.
func (h *Handle) Stop() error {
	h.stopOnce.Do(func() {
		err := h.cmd.Process.Signal(syscall.SIGTERM)
		if err != nil {
			_ = h.cmd.Process.Kill()
		}

		// The output pumps drain the pipes before Wait closes them.
		_ = h.grp.Wait()

		err = h.cmd.Wait()
		if err != nil {
			// The process dying from our own signal is the expected
			// outcome, not a failure.
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				h.stopErr = errors.Wrap(err, "unable to reap runtime process")
			}
		}
	})

	return h.stopErr
}

func pump(r io.Reader, log *zap.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Debug("runtime output", zap.String("line", scanner.Text()))
	}
}
