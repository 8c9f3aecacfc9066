// Package server owns connection acceptance and session lifecycles.
//
// Ownership boundary:
// - TCP and unix-domain listeners
// - one worker goroutine per accepted connection
// - the request/response cycle against the dispatcher
// - received-command fan-out to registered listeners
//
// Sessions share nothing with each other; a session failure is
// terminal for that session only.
package server
