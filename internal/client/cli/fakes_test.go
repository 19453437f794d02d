package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/client/client"
	"github.com/dmitrijs2005/dailyquote/internal/client/config"
	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/prefs"
	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
	"github.com/stretchr/testify/require"
)

type fakeUser struct {
	user     models.User
	password string
}

// fakeRemote is an in-memory server: accounts, generic tables and avatar
// storage behind the client.Client interface.
type fakeRemote struct {
	mu        sync.Mutex
	session   *models.Session
	listeners []func(*models.Session)
	users     map[string]*fakeUser
	tables    map[string][]wire.Row
	nextID    int64
	cloudPref models.CloudPreferences
	resetFor  []string
	pingErr   error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{users: map[string]*fakeUser{}, tables: map[string][]wire.Row{}}
}

func (f *fakeRemote) addUser(email, password string) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u := models.User{ID: "u-" + strconv.FormatInt(f.nextID, 10), Email: email}
	f.users[email] = &fakeUser{user: u, password: password}
	return u
}

func (f *fakeRemote) seed(table string, rows ...wire.Row) {
	_, _ = f.Insert(context.Background(), table, rows...)
}

func (f *fakeRemote) rows(table string) []wire.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]wire.Row(nil), f.tables[table]...)
}

func (f *fakeRemote) setSession(s *models.Session) {
	f.mu.Lock()
	f.session = s
	ls := append([]func(*models.Session){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range ls {
		fn(s)
	}
}

func (f *fakeRemote) signInAs(u models.User) *models.Session {
	s := &models.Session{AccessToken: "a-" + u.ID, RefreshToken: "r-" + u.ID, User: u}
	f.setSession(s)
	return s
}

func (f *fakeRemote) SignUp(_ context.Context, email, password, fullName string) (*models.Session, error) {
	f.mu.Lock()
	if _, ok := f.users[email]; ok {
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: email taken", client.ErrAlreadyExists)
	}
	f.mu.Unlock()
	u := f.addUser(email, password)
	u.FullName = fullName
	f.mu.Lock()
	f.users[email].user = u
	f.mu.Unlock()
	return f.signInAs(u), nil
}

func (f *fakeRemote) SignIn(_ context.Context, email, password string) (*models.Session, error) {
	f.mu.Lock()
	rec, ok := f.users[email]
	f.mu.Unlock()
	if !ok || rec.password != password {
		return nil, common.ErrInvalidCredentials
	}
	return f.signInAs(rec.user), nil
}

func (f *fakeRemote) SignOut(context.Context) error {
	f.setSession(nil)
	return nil
}

func (f *fakeRemote) GetUser(context.Context) (*models.User, error) {
	s := f.Session()
	if s == nil {
		return nil, client.ErrNotSignedIn
	}
	return &s.User, nil
}

func (f *fakeRemote) UpdateUser(_ context.Context, upd models.UserUpdate) (*models.User, error) {
	s := f.Session()
	if s == nil {
		return nil, client.ErrNotSignedIn
	}
	f.mu.Lock()
	rec := f.users[s.User.Email]
	if upd.FullName != nil {
		rec.user.FullName = *upd.FullName
	}
	if upd.AvatarURL != nil {
		rec.user.AvatarURL = *upd.AvatarURL
	}
	if upd.Password != nil {
		rec.password = *upd.Password
	}
	u := rec.user
	f.mu.Unlock()

	s.User = u
	f.setSession(s)
	return &u, nil
}

func (f *fakeRemote) RecoverPassword(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetFor = append(f.resetFor, email)
	return nil
}

// VerifyRecovery accepts "tok-<email>".
func (f *fakeRemote) VerifyRecovery(_ context.Context, token string) (*models.Session, error) {
	f.mu.Lock()
	rec, ok := f.users[strings.TrimPrefix(token, "tok-")]
	f.mu.Unlock()
	if !ok {
		return nil, client.ErrUnauthorized
	}
	return f.signInAs(rec.user), nil
}

func (f *fakeRemote) GetPreferences(context.Context) (*models.CloudPreferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.cloudPref
	return &p, nil
}

func (f *fakeRemote) UpdatePreferences(_ context.Context, p models.CloudPreferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cloudPref = p
	return nil
}

func (f *fakeRemote) Session() *models.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil
	}
	cp := *f.session
	return &cp
}

func (f *fakeRemote) SetSession(s *models.Session) { f.setSession(s) }

func (f *fakeRemote) OnSessionChange(fn func(*models.Session)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

func likePattern(p string) string {
	p = strings.TrimSuffix(strings.TrimPrefix(p, "%"), "%")
	r := strings.NewReplacer(`\\`, `\`, `\%`, `%`, `\_`, `_`)
	return strings.ToLower(r.Replace(p))
}

func matches(r wire.Row, flt wire.Filter) bool {
	switch flt.Op {
	case wire.OpILike:
		s, _ := r[flt.Column].(string)
		pat, _ := flt.Value.(string)
		return strings.Contains(strings.ToLower(s), likePattern(pat))
	default:
		return fmt.Sprint(r[flt.Column]) == fmt.Sprint(flt.Value)
	}
}

func (f *fakeRemote) Select(_ context.Context, q wire.Query) ([]wire.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []wire.Row{}
	for _, r := range f.tables[q.Table] {
		ok := true
		for _, flt := range q.Filters {
			ok = ok && matches(r, flt)
		}
		if ok && len(q.AnyOf) > 0 {
			hit := false
			for _, flt := range q.AnyOf {
				hit = hit || matches(r, flt)
			}
			ok = hit
		}
		if ok {
			out = append(out, r)
		}
	}
	if q.Order != nil {
		col, desc := q.Order.Column, q.Order.Descending
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := out[i][col].(int64)
			b, _ := out[j][col].(int64)
			if desc {
				return a > b
			}
			return a < b
		})
	}
	if q.Count {
		return []wire.Row{{"count": float64(len(out))}}, nil
	}
	out = out[min(q.Offset, len(out)):]
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeRemote) Insert(_ context.Context, table string, rows ...wire.Row) ([]wire.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]wire.Row, 0, len(rows))
	for _, r := range rows {
		f.nextID++
		cp := wire.Row{"id": f.nextID}
		for k, v := range r {
			cp[k] = v
		}
		f.tables[table] = append(f.tables[table], cp)
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeRemote) Delete(_ context.Context, table string, filters ...wire.Filter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	kept := f.tables[table][:0]
	for _, r := range f.tables[table] {
		ok := true
		for _, flt := range filters {
			ok = ok && matches(r, flt)
		}
		if ok {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.tables[table] = kept
	return n, nil
}

func (f *fakeRemote) UploadAvatar(_ context.Context, contentType string, _ []byte) (string, error) {
	s := f.Session()
	if s == nil {
		return "", client.ErrNotSignedIn
	}
	ext := strings.TrimPrefix(contentType, "image/")
	return "https://cdn.example.com/avatars/" + s.User.ID + "." + ext, nil
}

func (f *fakeRemote) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeRemote) Close() error { return nil }

type testApp struct {
	*App
	remote *fakeRemote
	out    *bytes.Buffer
}

func (t testApp) output() string {
	s := t.out.String()
	t.out.Reset()
	return s
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	ctx := context.Background()
	remote := newFakeRemote()

	db, err := client.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)

	logger := logging.Discard()
	store, err := prefs.Open(ctx, filepath.Join(t.TempDir(), "prefs.toml"), logger)
	require.NoError(t, err)

	cfg := &config.Config{SearchDebounce: 20 * time.Millisecond}
	out := &bytes.Buffer{}
	app, err := newApp(ctx, cfg, remote, db, store, logger, strings.NewReader(""), out)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	return testApp{App: app, remote: remote, out: out}
}

// stubInputs feeds the interactive prompts from fixed answers, in order.
func stubInputs(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Scanner, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		s := texts[0]
		texts = texts[1:]
		return s, nil
	}
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		p := passwords[0]
		passwords = passwords[1:]
		return []byte(p), nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func quoteRow(text, author, category string) wire.Row {
	return wire.Row{"text": text, "author": author, "category": category}
}
