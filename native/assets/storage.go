package assets

// Storage abstracts the subset of state manager functionality required by the
// asset registry and portfolio store.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVHas(key []byte) (bool, error)
}
