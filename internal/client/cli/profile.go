package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/dailyquote/internal/client/viewstate"
	"github.com/dmitrijs2005/dailyquote/internal/filex"
	"github.com/dustin/go-humanize"
)

// maxAvatarSize bounds what is read from disk; the server enforces its own
// limit on top.
const maxAvatarSize = 5 << 20

// Profile prints the account card with its counters.
func (a *App) Profile(ctx context.Context, _ []string) error {
	a.profile.Open(ctx)
	a.say("%s", renderProfile(a.style(), a.profile.State()))
	return nil
}

// Rename sets the display name.
func (a *App) Rename(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("name <full name>")
	}
	u, err := a.auth.UpdateFullName(ctx, strings.Join(args, " "))
	if err != nil {
		return a.fail(ctx, "Rename", err)
	}
	a.say("Name changed to %q.", u.FullName)
	return nil
}

// Avatar uploads an image file as the profile picture.
func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("avatar <path to image>")
	}
	path, err := filex.ExpandHome(args[0])
	if err != nil {
		return a.fail(ctx, "Avatar", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return a.fail(ctx, "Avatar", err)
	}
	if info.Size() > maxAvatarSize {
		return a.fail(ctx, "Avatar", fmt.Errorf("%s is %s, the limit is %s",
			path, humanize.IBytes(uint64(info.Size())), humanize.IBytes(maxAvatarSize)))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return a.fail(ctx, "Avatar", err)
	}

	err = a.profile.UploadAvatar(ctx, data)
	s := a.profile.State()
	st := a.style()
	switch s.Status {
	case viewstate.ProfileSuccess:
		a.say("%s", st.okMsg.Render(s.Message))
	case viewstate.ProfileError:
		a.say("%s", st.errMsg.Render(describe(err)))
	}
	a.profile.ResetStatus()
	return err
}
