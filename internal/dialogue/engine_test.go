package dialogue

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainStore() Store {
	return Store{
		"A": {Text: "a", Options: []Option{{Label: "to b", Next: "B"}, {Label: "to x", Next: "X"}, {Label: "bye"}}},
		"B": {Text: "b", Options: []Option{{Label: "end"}}},
	}
}

func assertInactive(t *testing.T, e *Engine) {
	t.Helper()
	key, node := e.Active()
	assert.Empty(t, key)
	assert.Nil(t, node)
}

func TestNewEngineStartsInactive(t *testing.T) {
	e := NewEngine(nil)
	assertInactive(t, e)
	assert.Equal(t, EndNone, e.EndReason())

	node, err := e.Choose(0)
	require.NoError(t, err)
	assert.Nil(t, node)
}

func TestStart(t *testing.T) {
	store := chainStore()

	tests := []struct {
		name   string
		key    string
		want   *Node
		reason EndReason
	}{
		{name: "known key", key: "A", want: store["A"], reason: EndNone},
		{name: "other known key", key: "B", want: store["B"], reason: EndNone},
		{name: "missing key", key: "missing", want: nil, reason: EndUnknownStart},
		{name: "empty key", key: "", want: nil, reason: EndUnknownStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(store)
			got := e.Start(tt.key)
			assert.Same(t, tt.want, got)

			key, active := e.Active()
			assert.Same(t, tt.want, active)
			if tt.want != nil {
				assert.Equal(t, tt.key, key)
			} else {
				assert.Empty(t, key)
			}
			assert.Equal(t, tt.reason, e.EndReason())
		})
	}
}

func TestStartMissingKeyClearsActiveConversation(t *testing.T) {
	e := NewEngine(chainStore())
	require.NotNil(t, e.Start("A"))

	assert.Nil(t, e.Start("missing"))
	assertInactive(t, e)
}

func TestChoose(t *testing.T) {
	store := chainStore()

	tests := []struct {
		name    string
		index   int
		want    *Node
		wantKey string
		reason  EndReason
	}{
		{name: "resolving next", index: 0, want: store["B"], wantKey: "B", reason: EndNone},
		{name: "dangling next", index: 1, reason: EndDanglingNext},
		{name: "terminal option", index: 2, reason: EndTerminalOption},
		{name: "index past end", index: 3, reason: EndOptionOutOfRange},
		{name: "negative index", index: -1, reason: EndOptionOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(store)
			require.NotNil(t, e.Start("A"))

			got, err := e.Choose(tt.index)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)

			key, active := e.Active()
			assert.Same(t, tt.want, active)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.reason, e.EndReason())
		})
	}
}

func TestChooseWhileInactiveIsNoOp(t *testing.T) {
	e := NewEngine(chainStore())
	require.Nil(t, e.Start("missing"))

	for i := 0; i < 3; i++ {
		got, err := e.Choose(0)
		require.NoError(t, err)
		assert.Nil(t, got)
		assertInactive(t, e)
		assert.Equal(t, EndUnknownStart, e.EndReason())
	}
}

func TestChooseOnEmptyOptionsEndsConversation(t *testing.T) {
	e := NewEngine(Store{"dead-end": {Text: "...", Options: []Option{}}})
	require.NotNil(t, e.Start("dead-end"))

	got, err := e.Choose(0)
	require.NoError(t, err)
	assert.Nil(t, got)
	assertInactive(t, e)
	assert.Equal(t, EndOptionOutOfRange, e.EndReason())
}

func TestChooseMalformedNodeFails(t *testing.T) {
	e := NewEngine(Store{"broken": {Text: "no options"}})
	require.NotNil(t, e.Start("broken"))

	got, err := e.Choose(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedNode))
	assert.Contains(t, err.Error(), "broken")
	assert.Nil(t, got)
	assertInactive(t, e)
	assert.Equal(t, EndMalformedNode, e.EndReason())
}

func TestLoadKeepsActiveNode(t *testing.T) {
	oldStore := chainStore()
	e := NewEngine(oldStore)
	require.NotNil(t, e.Start("A"))

	newStore := Store{
		"B": {Text: "new b", Options: []Option{{Label: "end"}}},
	}
	e.Load(newStore)

	key, active := e.Active()
	assert.Equal(t, "A", key)
	assert.Same(t, oldStore["A"], active)

	got, err := e.Choose(0)
	require.NoError(t, err)
	assert.Same(t, newStore["B"], got)
}

func TestLoadAffectsSubsequentStart(t *testing.T) {
	e := NewEngine(nil)
	assert.Nil(t, e.Start("A"))

	store := chainStore()
	e.Load(store)
	assertInactive(t, e)
	assert.Same(t, store["A"], e.Start("A"))
}

func TestConversationToTerminalOption(t *testing.T) {
	store := Store{
		"A": {Options: []Option{{Next: "B"}}},
		"B": {Options: []Option{{}}},
	}
	e := NewEngine(store)

	assert.Same(t, store["A"], e.Start("A"))
	key, _ := e.Active()
	assert.Equal(t, "A", key)

	got, err := e.Choose(0)
	require.NoError(t, err)
	assert.Same(t, store["B"], got)
	key, _ = e.Active()
	assert.Equal(t, "B", key)

	got, err = e.Choose(0)
	require.NoError(t, err)
	assert.Nil(t, got)
	assertInactive(t, e)
}

func TestConversationDanglingReference(t *testing.T) {
	store := Store{
		"A": {Options: []Option{{Next: "X"}}},
	}
	e := NewEngine(store)

	assert.Same(t, store["A"], e.Start("A"))
	got, err := e.Choose(0)
	require.NoError(t, err)
	assert.Nil(t, got)
	assertInactive(t, e)
}

func TestCyclesAreWalkable(t *testing.T) {
	store := Store{
		"ping": {Options: []Option{{Next: "pong"}}},
		"pong": {Options: []Option{{Next: "ping"}}},
	}
	e := NewEngine(store)
	require.NotNil(t, e.Start("ping"))

	for i := 0; i < 10; i++ {
		got, err := e.Choose(0)
		require.NoError(t, err)
		require.NotNil(t, got)
	}
	key, _ := e.Active()
	assert.Equal(t, "ping", key)
}

func TestConcurrentUse(t *testing.T) {
	store := SeedStore()
	e := NewEngine(store)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				switch (i + j) % 3 {
				case 0:
					e.Start("innkeeper.greet")
				case 1:
					_, _ = e.Choose(j % 4)
				default:
					e.Load(store)
				}
			}
		}(i)
	}
	wg.Wait()

	// Whatever ran last, the active node must come from the store.
	key, active := e.Active()
	if active != nil {
		assert.Same(t, store[key], active)
	}
}
