// Package dispatch owns command routing.
//
// Ownership boundary:
// - pattern grammar (literals, typed placeholders, embedded path slots)
// - the registration-ordered pattern registry
// - execution result shapes and their wire serialization
//
// Dispatch does not touch sockets; sessions feed it decoded text.
package dispatch
