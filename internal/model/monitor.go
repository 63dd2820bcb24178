package model

// -----------------------------------------------------------------
// Monitor API Response Models
// -----------------------------------------------------------------

// MonitorResponse is the main response for the monitor API
type MonitorResponse struct {
	Status      string       `json:"status"` // "healthy", "idle"
	Connections int          `json:"connections"`
	OnlineUsers []int64      `json:"onlineUsers"`
	Clients     []ClientInfo `json:"clients"`
}

// ClientInfo contains information about a connected client
type ClientInfo struct {
	ClientID string `json:"clientId"`
	UserID   int64  `json:"userId"`
}
