package session

import (
	"encoding/json"

	"github.com/inamate/artboard/internal/config"
	"github.com/inamate/artboard/internal/document"
	"github.com/inamate/artboard/internal/engine"
)

type Message struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client to server
	TypeEvent  = "event"
	TypeRender = "render"

	// Server to client
	TypeWelcome = "welcome"
	TypeEffects = "effects"
	TypeFrame   = "frame"
	TypeError   = "error"
)

type WelcomePayload struct {
	ClientID string             `json:"clientId"`
	Board    document.Board     `json:"board"`
	Elements []document.Element `json:"elements"`
	Tool     engine.Tool        `json:"tool"`
	Settings config.Settings    `json:"settings"`
}

type EffectsPayload struct {
	Effects  []engine.Effect `json:"effects"`
	Mode     engine.Mode     `json:"mode,omitempty"`
	Selected string          `json:"selected,omitempty"`
}

type FramePayload struct {
	Commands []engine.DrawCommand `json:"commands"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
