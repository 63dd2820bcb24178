package event

import "encoding/json"

// WsEvent is the envelope for every frame on the real-time channel.
type WsEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func Marshal(eventName string, payload any) (WsEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return WsEvent{}, err
	}
	return WsEvent{Event: eventName, Payload: raw}, nil
}
