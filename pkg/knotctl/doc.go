// Package knotctl speaks the knot server's control protocol over its unix
// socket: framing and data-item encoding, session management, and the
// assembly of reply units into a generic nested Tree that consumers walk
// without knowledge of the underlying wire format.
package knotctl
