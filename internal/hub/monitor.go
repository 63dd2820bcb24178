package hub

import (
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
)

// MonitorService provides methods to gather hub statistics
type MonitorService struct {
	hub *Hub
}

// NewMonitorService creates a new monitor service
func NewMonitorService(hub *Hub) *MonitorService {
	return &MonitorService{hub: hub}
}

// GetStats gathers and returns all hub statistics
func (ms *MonitorService) GetStats() model.MonitorResponse {
	entries := ms.hub.registry.Entries()

	clients := make([]model.ClientInfo, 0, len(entries))
	for userID, c := range entries {
		clients = append(clients, model.ClientInfo{
			ClientID: c.ID,
			UserID:   userID,
		})
	}

	status := "healthy"
	if len(entries) == 0 {
		status = "idle"
	}

	return model.MonitorResponse{
		Status:      status,
		Connections: len(entries),
		OnlineUsers: ms.hub.registry.Snapshot(),
		Clients:     clients,
	}
}
