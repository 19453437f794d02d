package wire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	AuthServiceName    = "dailyquote.v1.Auth"
	TablesServiceName  = "dailyquote.v1.Tables"
	StorageServiceName = "dailyquote.v1.Storage"
	HealthServiceName  = "dailyquote.v1.Health"
)

// Full method names, as seen by interceptors.
const (
	AuthSignUp            = "/" + AuthServiceName + "/SignUp"
	AuthSignIn            = "/" + AuthServiceName + "/SignIn"
	AuthRefresh           = "/" + AuthServiceName + "/Refresh"
	AuthSignOut           = "/" + AuthServiceName + "/SignOut"
	AuthGetUser           = "/" + AuthServiceName + "/GetUser"
	AuthUpdateUser        = "/" + AuthServiceName + "/UpdateUser"
	AuthRecoverPassword   = "/" + AuthServiceName + "/RecoverPassword"
	AuthVerifyRecovery    = "/" + AuthServiceName + "/VerifyRecovery"
	AuthGetPreferences    = "/" + AuthServiceName + "/GetPreferences"
	AuthUpdatePreferences = "/" + AuthServiceName + "/UpdatePreferences"

	TablesSelect = "/" + TablesServiceName + "/Select"
	TablesInsert = "/" + TablesServiceName + "/Insert"
	TablesDelete = "/" + TablesServiceName + "/Delete"

	StorageCreateUpload = "/" + StorageServiceName + "/CreateUpload"

	HealthPing = "/" + HealthServiceName + "/Ping"
)

// PublicMethods need no access token.
var PublicMethods = map[string]bool{
	AuthSignUp:          true,
	AuthSignIn:          true,
	AuthRefresh:         true,
	AuthSignOut:         true,
	AuthRecoverPassword: true,
	AuthVerifyRecovery:  true,
	HealthPing:          true,
}

// OptionalAuthMethods accept a missing token; a present one must be valid.
var OptionalAuthMethods = map[string]bool{
	TablesSelect: true,
}

// AuthServer is implemented by the server side of the auth service.
type AuthServer interface {
	SignUp(context.Context, *Credentials) (*Session, error)
	SignIn(context.Context, *Credentials) (*Session, error)
	Refresh(context.Context, *RefreshRequest) (*Session, error)
	SignOut(context.Context, *RefreshRequest) (*Empty, error)
	GetUser(context.Context, *Empty) (*User, error)
	UpdateUser(context.Context, *UserUpdate) (*User, error)
	RecoverPassword(context.Context, *RecoveryRequest) (*Empty, error)
	VerifyRecovery(context.Context, *RecoveryToken) (*Session, error)
	GetPreferences(context.Context, *Empty) (*Preferences, error)
	UpdatePreferences(context.Context, *Preferences) (*Preferences, error)
}

// TablesServer is implemented by the server side of the tables service.
type TablesServer interface {
	Select(context.Context, *Query) (*Rows, error)
	Insert(context.Context, *InsertRequest) (*Rows, error)
	Delete(context.Context, *DeleteRequest) (*DeleteResult, error)
}

// StorageServer is implemented by the server side of the storage service.
type StorageServer interface {
	CreateUpload(context.Context, *UploadRequest) (*UploadTicket, error)
}

// HealthServer is implemented by the server side of the health service.
type HealthServer interface {
	Ping(context.Context, *Empty) (*Status, error)
}

// unary adapts a typed method to grpc's untyped handler signature. The
// interceptor chain sees the raw *structpb.Struct request.
func unary[S, Req, Resp any](fullMethod string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed := new(Req)
			if err := Decode(req.(*structpb.Struct), typed); err != nil {
				return nil, invalidArgument(err)
			}
			resp, err := call(srv.(S), ctx, typed)
			if err != nil {
				return nil, err
			}
			return Encode(resp)
		}

		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthServiceDesc describes the auth service.
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignUp", Handler: unary(AuthSignUp, AuthServer.SignUp)},
		{MethodName: "SignIn", Handler: unary(AuthSignIn, AuthServer.SignIn)},
		{MethodName: "Refresh", Handler: unary(AuthRefresh, AuthServer.Refresh)},
		{MethodName: "SignOut", Handler: unary(AuthSignOut, AuthServer.SignOut)},
		{MethodName: "GetUser", Handler: unary(AuthGetUser, AuthServer.GetUser)},
		{MethodName: "UpdateUser", Handler: unary(AuthUpdateUser, AuthServer.UpdateUser)},
		{MethodName: "RecoverPassword", Handler: unary(AuthRecoverPassword, AuthServer.RecoverPassword)},
		{MethodName: "VerifyRecovery", Handler: unary(AuthVerifyRecovery, AuthServer.VerifyRecovery)},
		{MethodName: "GetPreferences", Handler: unary(AuthGetPreferences, AuthServer.GetPreferences)},
		{MethodName: "UpdatePreferences", Handler: unary(AuthUpdatePreferences, AuthServer.UpdatePreferences)},
	},
	Metadata: "dailyquote/v1/auth",
}

// TablesServiceDesc describes the tables service.
var TablesServiceDesc = grpc.ServiceDesc{
	ServiceName: TablesServiceName,
	HandlerType: (*TablesServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Select", Handler: unary(TablesSelect, TablesServer.Select)},
		{MethodName: "Insert", Handler: unary(TablesInsert, TablesServer.Insert)},
		{MethodName: "Delete", Handler: unary(TablesDelete, TablesServer.Delete)},
	},
	Metadata: "dailyquote/v1/tables",
}

// StorageServiceDesc describes the storage service.
var StorageServiceDesc = grpc.ServiceDesc{
	ServiceName: StorageServiceName,
	HandlerType: (*StorageServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateUpload", Handler: unary(StorageCreateUpload, StorageServer.CreateUpload)},
	},
	Metadata: "dailyquote/v1/storage",
}

// HealthServiceDesc describes the health service.
var HealthServiceDesc = grpc.ServiceDesc{
	ServiceName: HealthServiceName,
	HandlerType: (*HealthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(HealthPing, HealthServer.Ping)},
	},
	Metadata: "dailyquote/v1/health",
}

// RegisterAuthServer registers srv with s.
func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}

// RegisterTablesServer registers srv with s.
func RegisterTablesServer(s grpc.ServiceRegistrar, srv TablesServer) {
	s.RegisterService(&TablesServiceDesc, srv)
}

// RegisterStorageServer registers srv with s.
func RegisterStorageServer(s grpc.ServiceRegistrar, srv StorageServer) {
	s.RegisterService(&StorageServiceDesc, srv)
}

// RegisterHealthServer registers srv with s.
func RegisterHealthServer(s grpc.ServiceRegistrar, srv HealthServer) {
	s.RegisterService(&HealthServiceDesc, srv)
}
