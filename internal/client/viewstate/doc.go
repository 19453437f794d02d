// Package viewstate holds one controller per client screen. Each keeps its
// screen state in an observable subject that the front end renders from,
// and turns user actions into service calls.
package viewstate
