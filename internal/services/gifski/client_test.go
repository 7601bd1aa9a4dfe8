package gifski

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"meshpreview/internal/services/toolexec"
)

type fakeRunner struct {
	commands []toolexec.Command
	run      func(toolexec.Command) error
}

func (f *fakeRunner) Run(ctx context.Context, cmd toolexec.Command) error {
	f.commands = append(f.commands, cmd)
	if f.run != nil {
		return f.run(cmd)
	}
	return nil
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestEncodeValidatesRequest(t *testing.T) {
	client, _ := New("gifski", WithRunner(&fakeRunner{}))
	cases := []EncodeRequest{
		{FramePaths: nil, FrameRate: 12, OutputPath: "out.gif"},
		{FramePaths: []string{"a-00.png"}, FrameRate: 12, OutputPath: ""},
		{FramePaths: []string{"a-00.png"}, FrameRate: 0, OutputPath: "out.gif"},
	}
	for i, req := range cases {
		if err := client.Encode(context.Background(), req); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestEncodeBuildsArguments(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "anim.gif")
	runner := &fakeRunner{run: func(cmd toolexec.Command) error {
		return os.WriteFile(out, []byte("GIF89a"), 0o644)
	}}
	client, _ := New("/usr/bin/gifski", WithRunner(runner))

	err := client.Encode(context.Background(), EncodeRequest{
		WorkDir: dir,
		FramePaths: []string{
			filepath.Join(dir, "a-00.png"),
			filepath.Join(dir, "a-01.png"),
			filepath.Join(dir, "a-02.png"),
		},
		FrameRate:  12.5,
		OutputPath: out,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if len(runner.commands) != 1 {
		t.Fatalf("expected one invocation, got %d", len(runner.commands))
	}
	cmd := runner.commands[0]
	if cmd.Dir != dir {
		t.Errorf("work dir = %q, want %q", cmd.Dir, dir)
	}
	want := []string{"-o", out, "--fps", "12.5", "a-00.png", "a-01.png", "a-02.png"}
	if !reflect.DeepEqual(cmd.Args, want) {
		t.Errorf("args = %v, want %v", cmd.Args, want)
	}
}

func TestEncodeReportsEncoderFailure(t *testing.T) {
	runner := &fakeRunner{run: func(cmd toolexec.Command) error {
		if cmd.OnOutput != nil {
			cmd.OnOutput("error: frame decode")
		}
		return errors.New("exit status 1")
	}}
	client, _ := New("gifski", WithRunner(runner))

	err := client.Encode(context.Background(), EncodeRequest{
		WorkDir:    t.TempDir(),
		FramePaths: []string{"a-00.png"},
		FrameRate:  12,
		OutputPath: "anim.gif",
	})
	if !errors.Is(err, ErrEncodeFailed) {
		t.Fatalf("err = %v, want ErrEncodeFailed", err)
	}
}

func TestEncodeDetectsEmptyOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "anim.gif")
	runner := &fakeRunner{run: func(cmd toolexec.Command) error {
		return os.WriteFile(out, nil, 0o644)
	}}
	client, _ := New("gifski", WithRunner(runner))

	err := client.Encode(context.Background(), EncodeRequest{
		WorkDir:    dir,
		FramePaths: []string{filepath.Join(dir, "a-00.png")},
		FrameRate:  12,
		OutputPath: out,
	})
	if !errors.Is(err, ErrEmptyOutput) {
		t.Fatalf("err = %v, want ErrEmptyOutput", err)
	}
}
