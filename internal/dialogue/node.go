// Package dialogue implements the branching NPC conversation engine.
//
// A conversation is a directed graph of nodes held in a Store. An Engine
// walks that graph for a single player: Start enters a node by key, Choose
// follows one of the active node's options. Missing keys and dangling links
// end the conversation quietly; structurally broken nodes surface as errors.
package dialogue

// Option is one player-selectable continuation from a node.
type Option struct {
	Label string `json:"label" yaml:"label"`                   // Display text for the choice
	Next  string `json:"next,omitempty" yaml:"next,omitempty"` // Key of the node to enter (empty = end conversation)
}

// Terminal reports whether selecting the option ends the conversation.
func (o Option) Terminal() bool {
	return o.Next == ""
}

// Node is one point in a conversation graph.
type Node struct {
	Speaker string   `json:"speaker,omitempty" yaml:"speaker,omitempty"` // Name displayed above the text
	Text    string   `json:"text" yaml:"text"`                           // Main dialogue text (supports \n newlines)
	Options []Option `json:"options" yaml:"options"`                     // nil = malformed, empty = dead end
}
