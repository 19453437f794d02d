package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) rec(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) SignUp(_ context.Context, a []string) error { return f.rec("signup", a) }
func (f *fakeExec) Login(_ context.Context, a []string) error {
	f.loggedIn = true
	return f.rec("login", a)
}
func (f *fakeExec) Logout(_ context.Context, a []string) error {
	f.loggedIn = false
	return f.rec("logout", a)
}
func (f *fakeExec) ForgotPassword(_ context.Context, a []string) error { return f.rec("forgot", a) }
func (f *fakeExec) OpenLink(_ context.Context, a []string) error       { return f.rec("link", a) }
func (f *fakeExec) ChangePassword(_ context.Context, a []string) error { return f.rec("password", a) }
func (f *fakeExec) Categories(_ context.Context, a []string) error     { return f.rec("categories", a) }
func (f *fakeExec) Browse(_ context.Context, a []string) error         { return f.rec("quotes", a) }
func (f *fakeExec) Search(_ context.Context, a []string) error         { return f.rec("search", a) }
func (f *fakeExec) Random(_ context.Context, a []string) error         { return f.rec("random", a) }
func (f *fakeExec) Like(_ context.Context, a []string) error           { return f.rec("like", a) }
func (f *fakeExec) Favorites(_ context.Context, a []string) error      { return f.rec("favorites", a) }
func (f *fakeExec) Unfavorite(_ context.Context, a []string) error     { return f.rec("unfav", a) }
func (f *fakeExec) Sync(_ context.Context, a []string) error           { return f.rec("sync", a) }
func (f *fakeExec) Collections(_ context.Context, a []string) error    { return f.rec("collections", a) }
func (f *fakeExec) NewCollection(_ context.Context, a []string) error  { return f.rec("newcol", a) }
func (f *fakeExec) DeleteCollection(_ context.Context, a []string) error {
	return f.rec("delcol", a)
}
func (f *fakeExec) ShowCollection(_ context.Context, a []string) error { return f.rec("showcol", a) }
func (f *fakeExec) AddToCollection(_ context.Context, a []string) error {
	return f.rec("addto", a)
}
func (f *fakeExec) RemoveFromCollection(_ context.Context, a []string) error {
	return f.rec("rmitem", a)
}
func (f *fakeExec) Profile(_ context.Context, a []string) error { return f.rec("profile", a) }
func (f *fakeExec) Rename(_ context.Context, a []string) error  { return f.rec("name", a) }
func (f *fakeExec) Avatar(_ context.Context, a []string) error  { return f.rec("avatar", a) }
func (f *fakeExec) Prefs(_ context.Context, a []string) error   { return f.rec("prefs", a) }
func (f *fakeExec) SetPref(_ context.Context, a []string) error { return f.rec("set", a) }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommandsWithArgs(t *testing.T) {
	captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"quotes wisdom",
		"search to be or",
		"  ",
		"like 2",
		"fav",
		"addto 1 3",
		"set theme dark",
		"link https://app.example.com/#type=recovery&token=t",
		"exit",
		"profile",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	require.Equal(t, []string{"quotes", "search", "like", "favorites", "addto", "set", "link"}, exec.calls)
	assert.Equal(t, []string{"wisdom"}, exec.args[0])
	assert.Equal(t, []string{"to", "be", "or"}, exec.args[1])
	assert.Equal(t, []string{"2"}, exec.args[2])
	assert.Empty(t, exec.args[3])
	assert.Equal(t, []string{"1", "3"}, exec.args[4])
	assert.Equal(t, []string{"theme", "dark"}, exec.args[5])
}

func TestRunREPL_HelpDependsOnSignIn(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader("help\nlogin\nhelp\nlogout\nquit\n")
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(online)" }, bufio.NewScanner(input))

	require.Equal(t, []string{"login", "logout"}, exec.calls)
	assert.Contains(t, *out, helpSignedOut)
	assert.Contains(t, *out, helpSignedIn)
	assert.Contains(t, *out, "dq (online)> ")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_UnknownCommandAndEOF(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader("frobnicate 1\n")
	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(input))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Unknown command:frobnicate")
}

func TestRunREPL_Aliases(t *testing.T) {
	captureOutput(t)

	input := strings.NewReader("q\nunlike 1\ncols\nregister\n")
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"quotes", "like", "collections", "signup"}, exec.calls)
}
