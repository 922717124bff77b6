package server

import (
	"encoding/json"

	"Hearthlight/internal/dialogue"
)

// inboundMessage is the envelope for every client frame.
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// dialogueStartDTO asks the session to enter a node.
type dialogueStartDTO struct {
	Node string `json:"node"`
}

// dialogueChooseDTO selects an option of the active node. Index is a pointer
// so a missing field can be told apart from option 0.
type dialogueChooseDTO struct {
	Index *int `json:"index"`
}

// dialogueOptionDTO is one choice as shown to the player. Next keys stay on
// the server; the client only needs to know whether the choice ends things.
type dialogueOptionDTO struct {
	Label    string `json:"label"`
	Terminal bool   `json:"terminal,omitempty"`
}

// dialogueNodeDTO contains presentation data for the active node
type dialogueNodeDTO struct {
	Speaker string              `json:"speaker,omitempty"`
	Text    string              `json:"text"`
	Options []dialogueOptionDTO `json:"options"`
}

// dialogueMsg reports the session's position after every transition.
type dialogueMsg struct {
	Type     string           `json:"type"`
	Session  string           `json:"session"`
	Node     string           `json:"node,omitempty"`
	Dialogue *dialogueNodeDTO `json:"dialogue,omitempty"`
	Closed   bool             `json:"closed,omitempty"`
	Reason   string           `json:"reason,omitempty"`
}

type errorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type nodeListDTO struct {
	Nodes []string `json:"nodes"`
}

func newDialogueNodeDTO(node *dialogue.Node) *dialogueNodeDTO {
	options := make([]dialogueOptionDTO, 0, len(node.Options))
	for _, opt := range node.Options {
		options = append(options, dialogueOptionDTO{
			Label:    opt.Label,
			Terminal: opt.Terminal(),
		})
	}
	return &dialogueNodeDTO{
		Speaker: node.Speaker,
		Text:    node.Text,
		Options: options,
	}
}

// snapshotMsg builds the outbound frame for the session's current position.
func snapshotMsg(s *Session) dialogueMsg {
	key, node := s.Engine.Active()
	msg := dialogueMsg{Type: "dialogue", Session: s.ID}
	if node == nil {
		msg.Closed = true
		msg.Reason = string(s.Engine.EndReason())
		return msg
	}
	msg.Node = key
	msg.Dialogue = newDialogueNodeDTO(node)
	return msg
}
