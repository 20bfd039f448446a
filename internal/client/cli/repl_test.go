package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	err   error
}

func (f *fakeExec) record(c string) error {
	f.calls = append(f.calls, c)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool                   { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error { return f.record("register") }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Whoami(ctx context.Context) error { return f.record("whoami") }
func (f *fakeExec) Encrypt(ctx context.Context, path string) error {
	return f.record("encrypt " + path)
}
func (f *fakeExec) Decrypt(ctx context.Context, path string) error {
	return f.record("decrypt " + path)
}
func (f *fakeExec) Fingerprint(ctx context.Context, path string) error {
	return f.record("fp " + path)
}
func (f *fakeExec) List(ctx context.Context, remote bool) error {
	return f.record(fmt.Sprintf("ls remote=%v", remote))
}
func (f *fakeExec) Sync(ctx context.Context) error  { return f.record("sync") }
func (f *fakeExec) Users(ctx context.Context) error { return f.record("users") }
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var out []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &out
}

func TestRunREPL_Dispatch(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"",
		"encrypt /tmp/report.pdf",
		"decrypt /tmp/report.pdf",
		"fp /tmp/x",
		"ls",
		"ls -r",
		"whoami",
		"sync",
		"users",
		"foobar",
		"logout",
		"register",
		"exit",
		"login",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	assert.Equal(t, []string{
		"login",
		"encrypt /tmp/report.pdf",
		"decrypt /tmp/report.pdf",
		"fp /tmp/x",
		"ls remote=false",
		"ls remote=true",
		"whoami",
		"sync",
		"users",
		"logout",
		"register",
	}, exec.calls)

	joined := strings.Join(*out, "")
	assert.Contains(t, joined, "Unknown command: foobar")
	assert.Contains(t, joined, "Bye!")
	assert.Contains(t, joined, "fk status> ")
}

func TestRunREPL_UsageAndEOF(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader("encrypt\ndecrypt a b\n")
	exec := &fakeExec{loggedIn: true}

	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(input))

	require.Empty(t, exec.calls)
	joined := strings.Join(*out, "")
	assert.Contains(t, joined, "Usage: encrypt <path>")
	assert.Contains(t, joined, "Usage: decrypt <path>")
}

func TestRunREPL_ErrorsArePrinted(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("sync\nquit\n")))

	assert.Equal(t, []string{"sync"}, exec.calls)
	assert.Contains(t, strings.Join(*out, ""), "Error: boom")
}
