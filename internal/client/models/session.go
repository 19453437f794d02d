package models

// User is the account profile as the client sees it.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Session is what the client keeps after signing in. It is persisted in the
// local metadata table and restored at startup.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// UserUpdate changes only the fields that are set.
type UserUpdate struct {
	FullName  *string
	AvatarURL *string
	Password  *string
}
