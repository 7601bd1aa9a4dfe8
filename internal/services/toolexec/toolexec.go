package toolexec

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Command describes one external tool invocation.
type Command struct {
	Binary string
	Args   []string
	// Dir, when set, becomes the working directory of the child process.
	Dir string
	// OnOutput receives each line of combined stdout/stderr as it arrives.
	OnOutput func(string)
}

// Runner abstracts command execution for testability.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ProcessRunner executes commands as real child processes.
type ProcessRunner struct{}

// Run spawns the command and streams its output line by line. A non-zero
// exit status surfaces as the returned error.
func (ProcessRunner) Run(ctx context.Context, command Command) error {
	if strings.TrimSpace(command.Binary) == "" {
		return fmt.Errorf("tool binary required")
	}

	cmd := exec.CommandContext(ctx, command.Binary, command.Args...) //nolint:gosec
	cmd.Dir = command.Dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	forward := func(line string) {
		if command.OnOutput != nil {
			command.OnOutput(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	wg.Add(2)
	go scan(stdout, forward)
	go scan(stderr, forward)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

// Tail retains the most recent lines of tool output for error reports.
type Tail struct {
	mu    sync.Mutex
	limit int
	lines []string
}

// NewTail constructs a tail buffer holding at most limit lines.
func NewTail(limit int) *Tail {
	if limit <= 0 {
		limit = 10
	}
	return &Tail{limit: limit}
}

// Append records one output line, discarding the oldest when full.
func (t *Tail) Append(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

// String joins the retained lines for inclusion in an error message.
func (t *Tail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "; ")
}
