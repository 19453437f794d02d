package wire

// Empty is the payload of calls that carry no data.
type Empty struct{}

// Row is one table row keyed by column name.
type Row map[string]any

// Filter operators understood by the Tables service.
const (
	OpEq    = "eq"
	OpILike = "ilike"
)

// Filter is a single column predicate.
type Filter struct {
	Column string `json:"column"`
	Op     string `json:"op"`
	Value  any    `json:"value"`
}

// Eq matches column equal to value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// ILike matches column case-insensitively against a LIKE pattern.
func ILike(column, pattern string) Filter {
	return Filter{Column: column, Op: OpILike, Value: pattern}
}

// Order sorts by one column.
type Order struct {
	Column     string `json:"column"`
	Descending bool   `json:"descending,omitempty"`
}

// MaxRows is the largest page one select returns. Longer results are read
// page by page with Offset.
const MaxRows = 1000

// Query selects rows of Table. Filters are ANDed; AnyOf, when present, is
// an OR group ANDed with Filters.
//
// With Count set the result is a single row {"count": n} of the matching
// rows and Columns, Order, Limit and Offset are ignored.
type Query struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns,omitempty"`
	Filters []Filter `json:"filters,omitempty"`
	AnyOf   []Filter `json:"any_of,omitempty"`
	Order   *Order   `json:"order,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Offset  int      `json:"offset,omitempty"`
	Count   bool     `json:"count,omitempty"`
}

// Rows is the result of a select or insert.
type Rows struct {
	Rows []Row `json:"rows"`
}

// InsertRequest adds Rows to Table.
type InsertRequest struct {
	Table string `json:"table"`
	Rows  []Row  `json:"rows"`
}

// DeleteRequest removes the rows of Table matching every filter.
type DeleteRequest struct {
	Table   string   `json:"table"`
	Filters []Filter `json:"filters"`
}

// DeleteResult reports how many rows went.
type DeleteResult struct {
	Deleted int64 `json:"deleted"`
}

// Credentials sign a user up or in. FullName is used by sign-up only.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// User is the public profile of an account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Session is returned by every call that signs a user in.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// RefreshRequest carries the refresh token to rotate or revoke.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserUpdate changes only the fields that are set.
type UserUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Password  *string `json:"password,omitempty"`
}

// RecoveryRequest asks for a recovery link to Email.
type RecoveryRequest struct {
	Email string `json:"email"`
}

// RecoveryToken is the token carried by a recovery link.
type RecoveryToken struct {
	Token string `json:"token"`
}

// Preferences are the cloud-synced display settings; nil means unset.
type Preferences struct {
	Theme       *string  `json:"theme,omitempty"`
	AccentColor *string  `json:"accent_color,omitempty"`
	FontScale   *float64 `json:"font_scale,omitempty"`
}

// UploadRequest asks for an avatar upload ticket.
type UploadRequest struct {
	ContentType string `json:"content_type"`
}

// UploadTicket is a presigned PUT URL plus the public URL the object will
// be served from once uploaded.
type UploadTicket struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	MaxBytes  int64  `json:"max_bytes,omitempty"`
}

// Status is the health check answer.
type Status struct {
	Status string `json:"status"`
}
