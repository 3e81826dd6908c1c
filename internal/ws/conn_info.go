package ws

import "time"

// ConnInfo carries identity and tracing metadata for a feed connection.
type ConnInfo struct {
	ConnID      string
	UserID      *int64
	DeviceID    string
	IP          string
	RequestID   string
	ConnectedAt time.Time
}
