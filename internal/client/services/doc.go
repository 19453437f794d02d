// Package services holds the client application logic of dailyquote: the
// favorites sync/merge engine, the session and profile flows, preferences
// and collections. Services sit between the view-state controllers and the
// repositories and never talk to the transport directly.
package services
