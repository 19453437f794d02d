package wire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req *Req, opts ...grpc.CallOption) (*Resp, error) {
	in, err := Encode(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	resp := new(Resp)
	if err := Decode(out, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func invalidArgument(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

// AuthClient is the client stub of the Auth service.
type AuthClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthClient returns a client of the auth service.
func NewAuthClient(cc grpc.ClientConnInterface) *AuthClient {
	return &AuthClient{cc: cc}
}

func (c *AuthClient) SignUp(ctx context.Context, in *Credentials, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Credentials, Session](ctx, c.cc, AuthSignUp, in, opts...)
}

func (c *AuthClient) SignIn(ctx context.Context, in *Credentials, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Credentials, Session](ctx, c.cc, AuthSignIn, in, opts...)
}

func (c *AuthClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*Session, error) {
	return invoke[RefreshRequest, Session](ctx, c.cc, AuthRefresh, in, opts...)
}

func (c *AuthClient) SignOut(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[RefreshRequest, Empty](ctx, c.cc, AuthSignOut, in, opts...)
}

func (c *AuthClient) GetUser(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*User, error) {
	return invoke[Empty, User](ctx, c.cc, AuthGetUser, in, opts...)
}

func (c *AuthClient) UpdateUser(ctx context.Context, in *UserUpdate, opts ...grpc.CallOption) (*User, error) {
	return invoke[UserUpdate, User](ctx, c.cc, AuthUpdateUser, in, opts...)
}

func (c *AuthClient) RecoverPassword(ctx context.Context, in *RecoveryRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[RecoveryRequest, Empty](ctx, c.cc, AuthRecoverPassword, in, opts...)
}

func (c *AuthClient) VerifyRecovery(ctx context.Context, in *RecoveryToken, opts ...grpc.CallOption) (*Session, error) {
	return invoke[RecoveryToken, Session](ctx, c.cc, AuthVerifyRecovery, in, opts...)
}

func (c *AuthClient) GetPreferences(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Preferences, error) {
	return invoke[Empty, Preferences](ctx, c.cc, AuthGetPreferences, in, opts...)
}

func (c *AuthClient) UpdatePreferences(ctx context.Context, in *Preferences, opts ...grpc.CallOption) (*Preferences, error) {
	return invoke[Preferences, Preferences](ctx, c.cc, AuthUpdatePreferences, in, opts...)
}

// TablesClient is the client stub of the Tables service.
type TablesClient struct {
	cc grpc.ClientConnInterface
}

// NewTablesClient returns a client of the tables service.
func NewTablesClient(cc grpc.ClientConnInterface) *TablesClient {
	return &TablesClient{cc: cc}
}

func (c *TablesClient) Select(ctx context.Context, in *Query, opts ...grpc.CallOption) (*Rows, error) {
	return invoke[Query, Rows](ctx, c.cc, TablesSelect, in, opts...)
}

func (c *TablesClient) Insert(ctx context.Context, in *InsertRequest, opts ...grpc.CallOption) (*Rows, error) {
	return invoke[InsertRequest, Rows](ctx, c.cc, TablesInsert, in, opts...)
}

func (c *TablesClient) Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResult, error) {
	return invoke[DeleteRequest, DeleteResult](ctx, c.cc, TablesDelete, in, opts...)
}

// StorageClient is the client stub of the Storage service.
type StorageClient struct {
	cc grpc.ClientConnInterface
}

// NewStorageClient returns a client of the storage service.
func NewStorageClient(cc grpc.ClientConnInterface) *StorageClient {
	return &StorageClient{cc: cc}
}

func (c *StorageClient) CreateUpload(ctx context.Context, in *UploadRequest, opts ...grpc.CallOption) (*UploadTicket, error) {
	return invoke[UploadRequest, UploadTicket](ctx, c.cc, StorageCreateUpload, in, opts...)
}

// HealthClient is the client stub of the Health service.
type HealthClient struct {
	cc grpc.ClientConnInterface
}

// NewHealthClient returns a client of the health service.
func NewHealthClient(cc grpc.ClientConnInterface) *HealthClient {
	return &HealthClient{cc: cc}
}

func (c *HealthClient) Ping(ctx context.Context, opts ...grpc.CallOption) (*Status, error) {
	return invoke[Empty, Status](ctx, c.cc, HealthPing, &Empty{}, opts...)
}
