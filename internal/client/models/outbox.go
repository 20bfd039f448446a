package models

import "time"

// OutboxItem is a remote request that could not be delivered and waits for
// replay. Payload is the JSON encoded parameter map of the request.
type OutboxItem struct {
	ID        string
	Action    string
	Payload   []byte
	CreatedAt time.Time
	Attempts  int
	LastError string
	Synced    bool
}
