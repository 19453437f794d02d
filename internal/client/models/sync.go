package models

// SyncReport describes one cloud-to-local favorites sync.
type SyncReport struct {
	// Skipped is set when nobody is signed in; nothing was fetched.
	Skipped bool
	Fetched int
	Added   int
}

// ToggleResult describes one like/unlike.
type ToggleResult struct {
	// Liked is the local state after the toggle.
	Liked bool
	// Mirrored reports whether the cloud copy was updated too.
	Mirrored bool
	// CloudErr holds the cloud failure, if the mirror was attempted and failed.
	CloudErr error
}
