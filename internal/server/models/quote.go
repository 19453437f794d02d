package models

// Quote is a catalogue row. Ids are assigned by the database.
type Quote struct {
	ID       int64
	Text     string
	Author   string
	Category string
}
