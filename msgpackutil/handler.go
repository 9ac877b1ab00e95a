package msgpackutil

// Extension identities of the built-in handlers. Identities 8-32 are
// reserved for future built-ins; 33-127 are open for applications.
const (
	IdentityUUID       = 0
	IdentityDateTime   = 1
	IdentityCounter    = 2
	IdentityIPAddress  = 3
	IdentitySet        = 4
	IdentityFrozenSet  = 5
	IdentityLegacyTime = 6
	IdentityDate       = 7
)

// Handler converts values of the types it claims to and from raw extension
// payloads. Deserialize(Serialize(v)) must be observably equal to v for
// every v the handler accepts, up to the payload format's precision: the
// built-in timestamp handlers carry at most microseconds, so finer
// sub-second precision is dropped on serialize.
type Handler interface {
	// Identity returns the extension identity the handler claims, in 0-127.
	Identity() int

	// Handles reports whether the handler accepts the value's runtime type.
	Handles(value any) bool

	// Serialize converts an accepted value to a raw extension payload.
	Serialize(value any) ([]byte, error)

	// Deserialize reconstructs a value from a raw extension payload.
	Deserialize(data []byte) (any, error)
}

// Rebinder is implemented by handlers that hold a non-owning reference to
// their owning registry (to recursively encode composite payloads). Such
// handlers are cloned together with the registry during Copy.
type Rebinder interface {
	// Rebind returns a clone of the handler bound to the given registry.
	Rebind(registry *Registry) Handler
}

// ExtensionRecord is an opaque typed extension payload. Decode produces it
// for identities the registry does not know, and Dump re-encodes it
// verbatim, so forward-compatible payloads survive a round trip through an
// older reader.
type ExtensionRecord struct {
	Identity int8
	Data     []byte
}
