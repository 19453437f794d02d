package grpc

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/server/auth"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const testSecret = "secret"

func newTestServer() *GRPCServer {
	return NewGRPCServer("", nopLogger{}, &fakeUserService{}, &fakeTableService{}, fakeStorageService{}, testSecret)
}

func withToken(token string) context.Context {
	md := metadata.New(map[string]string{common.AccessTokenHeaderName: token})
	return metadata.NewIncomingContext(context.Background(), md)
}

func token(t *testing.T, userID string, ttl time.Duration) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, []byte(testSecret), ttl)
	require.NoError(t, err)
	return tok
}

func TestAccessTokenInterceptor(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		ctx      context.Context
		wantUser string
		wantCode codes.Code
		wantMsg  string
	}{
		{name: "public method", method: wire.AuthSignIn, ctx: context.Background()},
		{name: "optional auth, anonymous", method: wire.TablesSelect, ctx: context.Background()},
		{name: "optional auth, signed in", method: wire.TablesSelect, ctx: withToken(token(t, "u7", time.Minute)), wantUser: "u7"},
		{name: "valid token", method: wire.AuthGetUser, ctx: withToken(token(t, "user-42", time.Minute)), wantUser: "user-42"},
		{name: "missing token", method: wire.TablesInsert, ctx: context.Background(),
			wantCode: codes.Unauthenticated, wantMsg: "missing token"},
		{name: "garbage token", method: wire.TablesSelect, ctx: withToken("not-a-jwt"),
			wantCode: codes.Unauthenticated, wantMsg: "invalid token"},
		{name: "expired token", method: wire.AuthGetUser, ctx: withToken(token(t, "u1", -time.Minute)),
			wantCode: codes.Unauthenticated, wantMsg: "token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			var gotUser string
			resp, err := newTestServer().accessTokenInterceptor(tt.ctx, nil, &grpc.UnaryServerInfo{FullMethod: tt.method},
				func(ctx context.Context, _ any) (any, error) {
					called = true
					gotUser, _ = UserIDFromContext(ctx)
					return "ok", nil
				})

			if tt.wantCode != codes.OK {
				assert.False(t, called)
				st := status.Convert(err)
				assert.Equal(t, tt.wantCode, st.Code())
				assert.Equal(t, tt.wantMsg, st.Message())
				return
			}
			require.NoError(t, err)
			assert.True(t, called)
			assert.Equal(t, "ok", resp)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}

func TestAccessTokenInterceptor_TagsLogs(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	ctx := withToken(token(t, "user-42", time.Minute))
	_, err := newTestServer().accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: wire.TablesDelete},
		func(ctx context.Context, _ any) (any, error) {
			log.Info(ctx, "deleted")
			return nil, nil
		})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "method="+wire.TablesDelete)
	assert.Contains(t, out, "user_id=user-42")
}
