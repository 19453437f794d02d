// Package models defines the client-side records of dailyquote: quotes,
// favorites, collections, the signed-in session and local preferences.
package models

import "time"

// Quote is a catalogue row. IsLiked is derived on the client from the local
// favorites and never sent to the server.
type Quote struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category string `json:"category"`
	IsLiked  bool   `json:"-"`
}

// FavoriteQuote is a locally cached like. Text alone identifies it.
type FavoriteQuote struct {
	ID     int64
	Text   string
	Author string
}

// CloudFavorite is the server copy of a like, one row per user and text.
type CloudFavorite struct {
	ID     int64  `json:"id,omitempty"`
	UserID string `json:"user_id"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

// QuoteCollection is a named list of quotes owned by one user.
type QuoteCollection struct {
	ID        int64     `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CollectionItem is a denormalized copy of a quote saved into a collection.
type CollectionItem struct {
	ID           int64  `json:"id,omitempty"`
	CollectionID int64  `json:"collection_id"`
	Text         string `json:"text"`
	Author       string `json:"author"`
}
