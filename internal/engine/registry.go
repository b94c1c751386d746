package engine

// contentRegistry is the joker-content registry: the only process-wide
// state the engine keeps, per the spec's global-state contract. It maps a
// stable joker id to a constructor and is populated once at startup by the
// content module (a declarative TOML catalog, a hand-written Go package, or
// both) and is read-only for the remainder of the process's life — nothing
// in Game ever mutates it.
var (
	contentRegistry = map[JokerID]func() Joker{}
	contentOrder    []JokerID
)

// RegisterJokerFactory adds (or replaces) the constructor for id. Re-running
// a content module's registration twice with the same id is idempotent: the
// slot in contentOrder is reused rather than duplicated.
func RegisterJokerFactory(id JokerID, factory func() Joker) {
	if _, exists := contentRegistry[id]; !exists {
		contentOrder = append(contentOrder, id)
	}
	contentRegistry[id] = factory
}

// RegisteredJokerIDs returns every registered joker id in registration
// order, the canonical order the spec's determinism property requires
// shop-offer selection to reduce over.
func RegisteredJokerIDs() []JokerID {
	out := make([]JokerID, len(contentOrder))
	copy(out, contentOrder)
	return out
}

// NewRegisteredJoker constructs a fresh joker instance from the registry, or
// reports false if id isn't registered.
func NewRegisteredJoker(id JokerID) (Joker, bool) {
	f, ok := contentRegistry[id]
	if !ok {
		return nil, false
	}
	return f(), true
}

// ResetRegistry clears the content registry. Exposed for tests that need an
// isolated registry instead of sharing process-wide state across cases.
func ResetRegistry() {
	contentRegistry = map[JokerID]func() Joker{}
	contentOrder = nil
}
