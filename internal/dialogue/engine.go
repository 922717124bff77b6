package dialogue

import (
	"errors"
	"fmt"
	"sync"
)

// ErrMalformedNode is returned by Choose when the active node has no option
// sequence at all. This is a content bug, distinct from a legitimate dead end.
var ErrMalformedNode = errors.New("dialogue: node has no options")

// EndReason describes why the most recent transition left the engine inactive.
type EndReason string

const (
	// EndNone means the engine is active, or has never run a transition.
	EndNone EndReason = ""
	// EndUnknownStart means Start was called with a key missing from the store.
	EndUnknownStart EndReason = "unknown_start"
	// EndTerminalOption means the chosen option had no next key.
	EndTerminalOption EndReason = "terminal_option"
	// EndOptionOutOfRange means the option index did not exist on the node.
	EndOptionOutOfRange EndReason = "option_out_of_range"
	// EndDanglingNext means the chosen option linked to a missing node.
	EndDanglingNext EndReason = "dangling_next"
	// EndMalformedNode means the active node had no option sequence.
	EndMalformedNode EndReason = "malformed_node"
)

// Engine tracks one player's position in a conversation graph.
// All methods are safe for concurrent use.
type Engine struct {
	mu        sync.Mutex
	store     Store
	activeKey string
	active    *Node
	ended     EndReason
}

// NewEngine creates an inactive engine over store. A nil store is treated as empty.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Load replaces the store. The active node is left untouched; later Start
// and Choose calls resolve keys against the new store.
func (e *Engine) Load(store Store) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store = store
}

// Start enters the node stored under key and returns it. An unknown key
// returns nil and leaves the engine inactive.
func (e *Engine) Start(key string) *Node {
	e.mu.Lock()
	defer e.mu.Unlock()

	node := e.store.Get(key)
	if node == nil {
		e.deactivate(EndUnknownStart)
		return nil
	}
	e.activate(key, node)
	return node
}

// Choose follows option index of the active node and returns the node it
// leads to. It returns nil when the conversation ends: no active node, an
// index out of range, an option without a next key, or a next key missing
// from the store. Only a malformed active node yields an error.
func (e *Engine) Choose(index int) (*Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return nil, nil
	}

	if e.active.Options == nil {
		key := e.activeKey
		e.deactivate(EndMalformedNode)
		return nil, fmt.Errorf("%w: %s", ErrMalformedNode, key)
	}

	if index < 0 || index >= len(e.active.Options) {
		e.deactivate(EndOptionOutOfRange)
		return nil, nil
	}

	opt := e.active.Options[index]
	if opt.Terminal() {
		e.deactivate(EndTerminalOption)
		return nil, nil
	}

	next := e.store.Get(opt.Next)
	if next == nil {
		e.deactivate(EndDanglingNext)
		return nil, nil
	}
	e.activate(opt.Next, next)
	return next, nil
}

// Active returns the key and node of the current position, or ("", nil)
// when no conversation is in progress.
func (e *Engine) Active() (string, *Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeKey, e.active
}

// EndReason reports why the last transition ended the conversation.
// It is EndNone while a conversation is active.
func (e *Engine) EndReason() EndReason {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ended
}

func (e *Engine) activate(key string, node *Node) {
	e.activeKey = key
	e.active = node
	e.ended = EndNone
}

func (e *Engine) deactivate(reason EndReason) {
	e.activeKey = ""
	e.active = nil
	e.ended = reason
}
