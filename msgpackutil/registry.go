package msgpackutil

import (
	"fmt"
	"sync"

	"github.com/tarantool/go-option"

	"github.com/tarantool/go-serialize/internal/options"
)

// Registry maps extension identities to ordered chains of type handlers.
//
// A registry is not safe for concurrent mutation; callers sharing an
// unfrozen registry across goroutines must serialize registration
// externally. A frozen registry rejects all mutation and is therefore safe
// for concurrent reads.
type Registry struct {
	handlers    map[int][]Handler
	numHandlers int
	frozen      bool
}

// NewRegistry creates a new empty unfrozen Registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[int][]Handler),
	}
}

type registerOptions struct {
	reserved bool
	override bool
}

// RegisterOption is a function that configures a registration.
type RegisterOption = options.OptionCallback[registerOptions]

// Reserved validates the handler identity against the reserved extension
// range instead of the application range. Only built-in handlers and
// library add-ons register as reserved.
func Reserved() RegisterOption {
	return func(opts *registerOptions) {
		opts.reserved = true
	}
}

// Override permits registering over an occupied identity. The new handler
// is inserted at the front of the identity's chain, so lookups prefer it;
// the previous handler stays reachable behind it.
func Override() RegisterOption {
	return func(opts *registerOptions) {
		opts.override = true
	}
}

// Register adds a handler for its claimed identity. It fails with a
// RegistrationError when the registry is frozen, the identity lies outside
// the requested range, or the identity is occupied and no override was
// requested.
func (r *Registry) Register(handler Handler, opts ...RegisterOption) error {
	cfg := options.ApplyOptions(nil, opts)

	identity := handler.Identity()

	if r.frozen {
		return errRegistration(identity, "frozen handler registry cannot be modified")
	}

	okInterval := NonReservedExtensionRange
	if cfg.reserved {
		okInterval = ReservedExtensionRange
	}

	if !okInterval.Contains(identity) {
		return errRegistration(identity, fmt.Sprintf("identity must be within %s", okInterval))
	}

	chain, occupied := r.handlers[identity]

	switch {
	case occupied && cfg.override:
		// The override goes to the front so that it gets selected before
		// whatever existed under the identity.
		r.handlers[identity] = append([]Handler{handler}, chain...)
	case occupied:
		return errRegistration(identity, fmt.Sprintf("identity already has %d handler(s)", len(chain)))
	default:
		r.handlers[identity] = []Handler{handler}
	}

	r.numHandlers++

	return nil
}

// Get returns the highest-priority handler for the identity, or none.
func (r *Registry) Get(identity int) option.Generic[Handler] {
	chain := r.handlers[identity]
	if len(chain) == 0 {
		return option.None[Handler]()
	}

	return option.Some(chain[0])
}

// Match scans all registered handlers and returns the first whose Handles
// predicate accepts the value, or none. Priority holds within an identity
// chain; the order across different identities is unspecified.
func (r *Registry) Match(value any) option.Generic[Handler] {
	for _, chain := range r.handlers {
		for _, handler := range chain {
			if handler.Handles(value) {
				return option.Some(handler)
			}
		}
	}

	return option.None[Handler]()
}

// Contains reports whether any handler exists for the identity.
func (r *Registry) Contains(identity int) bool {
	_, ok := r.handlers[identity]

	return ok
}

// Len returns how many handler instances are registered, override chains
// included.
func (r *Registry) Len() int {
	return r.numHandlers
}

// Handlers returns all registered handler instances. The order across
// identities is unspecified; within a chain, priority order is kept.
func (r *Registry) Handlers() []Handler {
	out := make([]Handler, 0, r.numHandlers)
	for _, chain := range r.handlers {
		out = append(out, chain...)
	}

	return out
}

// Freeze permanently marks the registry read-only. Every later Register
// call fails with a RegistrationError.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether the registry rejects mutation.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Copy deep-clones the registry. Handlers holding a back-reference to the
// registry are rebound to the clone. The clone keeps the frozen flag unless
// unfreeze is requested.
func (r *Registry) Copy(unfreeze bool) *Registry {
	clone := NewRegistry()

	for identity, chain := range r.handlers {
		cloned := make([]Handler, 0, len(chain))

		for _, handler := range chain {
			if bound, ok := handler.(Rebinder); ok {
				handler = bound.Rebind(clone)
			}

			cloned = append(cloned, handler)
		}

		clone.handlers[identity] = cloned
		clone.numHandlers += len(cloned)
	}

	if !unfreeze && r.frozen {
		clone.frozen = true
	}

	return clone
}

//nolint:gochecknoglobals // The default registry is process-wide shared state.
var defaultRegistry = sync.OnceValue(newDefaultRegistry)

// DefaultRegistry returns the process-wide registry populated with the
// built-in handlers. It is constructed once, frozen immediately, and
// thereafter read-only, which makes it safe for concurrent use.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

func newDefaultRegistry() *Registry {
	registry := NewRegistry()

	// Built-in identities are fixed and unique, so registration into a
	// fresh registry cannot fail.
	for _, handler := range []Handler{
		NewDateTimeHandler(registry),
		NewDateHandler(registry),
		NewUUIDHandler(),
		NewCounterHandler(),
		NewIPAddressHandler(),
		NewSetHandler(registry),
		NewFrozenSetHandler(registry),
		NewLegacyTimeHandler(registry),
	} {
		if err := registry.Register(handler, Reserved()); err != nil {
			panic(err)
		}
	}

	registry.Freeze()

	return registry
}
