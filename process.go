package mandel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/marben/irpc"
)

// pipeConn joins the two halves of a process pipe pair into the
// io.ReadWriteCloser an irpc endpoint runs on.
type pipeConn struct {
	r io.ReadCloser
	w io.WriteCloser
}

func (c pipeConn) Read(p []byte) (int, error)  { return c.r.Read(p) }
func (c pipeConn) Write(p []byte) (int, error) { return c.w.Write(p) }

func (c pipeConn) Close() error {
	return errors.Join(c.w.Close(), c.r.Close())
}

// reporterFunc serves FrameReporter by handing every frame to a done callback.
type reporterFunc func(index int)

func (f reporterFunc) FrameDone(index int) error {
	f(index)
	return nil
}

// ProcessLauncher runs each frame range in a separate OS process. The child
// is started as Path with Args(r). Its stdin and stdout carry an irpc
// connection on which the parent serves FrameReporter; the child calls
// FrameDone once per stored frame, then exits with status 0.
type ProcessLauncher struct {
	Path string
	Args func(r FrameRange) []string
	// Env is appended to the parent's environment.
	Env []string
	// Stderr receives the child's stderr; nil discards it.
	Stderr io.Writer
}

// Launch starts the child and waits for it. A non-zero exit status, a
// signal, or a broken report connection is returned as an error; frames
// reported before that are still passed to done.
func (p *ProcessLauncher) Launch(ctx context.Context, r FrameRange, done func(index int)) error {
	cmd := exec.CommandContext(ctx, p.Path, p.Args(r)...)
	if len(p.Env) > 0 {
		cmd.Env = append(cmd.Environ(), p.Env...)
	}
	cmd.Stderr = p.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start worker process: %w", err)
	}
	Logger().Debug("worker process started", "pid", cmd.Process.Pid, "range", r.String())

	ep := irpc.NewEndpoint(pipeConn{r: stdout, w: stdin},
		irpc.WithEndpointServices(NewFrameReporterIrpcService(reporterFunc(done))))

	// The connection ends when the child exits or sends something that is
	// not a report.
	<-ep.Context().Done()
	cause := context.Cause(ep.Context())
	waitErr := cmd.Wait()

	if !errors.Is(cause, irpc.ErrEndpointClosedByCounterpart) {
		return fmt.Errorf("frame reports: %w", cause)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return fmt.Errorf("worker process %d: %s", exitErr.Pid(), exitErr.ProcessState)
		}
		return fmt.Errorf("wait worker process: %w", waitErr)
	}
	return nil
}

var _ Launcher = (*ProcessLauncher)(nil)

// ReportClient is the child side of ProcessLauncher. It forwards stored
// frames to the parent's FrameReporter.
type ReportClient struct {
	ep     *irpc.Endpoint
	client *FrameReporterIrpcClient
}

// NewReportClient connects to the parent over r (the child's stdin) and
// w (the child's stdout).
func NewReportClient(r io.ReadCloser, w io.WriteCloser) (*ReportClient, error) {
	ep := irpc.NewEndpoint(pipeConn{r: r, w: w})
	client, err := NewFrameReporterIrpcClient(ep)
	if err != nil {
		_ = ep.Close()
		return nil, err
	}
	return &ReportClient{ep: ep, client: client}, nil
}

// Done reports one stored frame and has the signature of a Launcher done
// callback. A failed report is logged; Context tells the worker to stop.
func (c *ReportClient) Done(index int) {
	if err := c.client.FrameDone(index); err != nil {
		Logger().Warn("frame report not delivered", "frame", index, "err", err)
	}
}

// Context is canceled once the connection to the parent is gone.
func (c *ReportClient) Context() context.Context {
	return c.ep.Context()
}

// Close hangs up on the parent.
func (c *ReportClient) Close() error {
	if err := c.ep.Close(); err != nil && !errors.Is(err, irpc.ErrEndpointClosedByCounterpart) {
		return err
	}
	return nil
}
