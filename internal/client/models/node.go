// Package models defines client-side data models used by the filekeeper CLI.
package models

// Unknown is used for any host attribute that could not be discovered.
const Unknown = "unknown"

// Node describes the host the client runs on. It is discovered once per
// process and never changes afterwards.
type Node struct {
	IP   string
	MAC  string
	UUID string
}
