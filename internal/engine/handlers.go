package engine

import "sort"

type binding struct {
	ev    EventType
	layer string
	h     Handler
}

// Handlers is a handler table with optional per-layer scoping.
type Handlers struct {
	next     HandlerID
	bindings map[HandlerID]binding
}

func (t *Handlers) On(ev EventType, layer string, h Handler) HandlerID {
	if t.bindings == nil {
		t.bindings = map[HandlerID]binding{}
	}
	t.next++
	t.bindings[t.next] = binding{ev: ev, layer: layer, h: h}
	return t.next
}

func (t *Handlers) Off(id HandlerID) { delete(t.bindings, id) }

func (t *Handlers) Len() int { return len(t.bindings) }

func (t *Handlers) Clear() { t.bindings = nil }

// Emit calls, in registration order, every handler for ev.Type whose layer
// scope is empty or equal to ev.Layer.
func (t *Handlers) Emit(ev Event) {
	ids := make([]HandlerID, 0, len(t.bindings))
	for id, b := range t.bindings {
		if b.ev == ev.Type && (b.layer == "" || b.layer == ev.Layer) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		// a handler may have removed a later one
		if b, ok := t.bindings[id]; ok {
			b.h(ev)
		}
	}
}

// Scoped reports whether any handler is registered for ev on layer.
func (t *Handlers) Scoped(ev EventType, layer string) bool {
	for _, b := range t.bindings {
		if b.ev == ev && b.layer == layer {
			return true
		}
	}
	return false
}
