package models

// Notice is the wire envelope for every outbound event.
type Notice struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
