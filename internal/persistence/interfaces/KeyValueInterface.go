package interfaces

import "errors"

var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KeyValueInterface is a synchronous string store. Set may fail, in which case
// the previous value of the key is kept. SetMany writes all values in one
// operation; on failure none of them is applied.
type KeyValueInterface interface {
	Get(key string) (string, error)
	Set(key, value string) error
	SetMany(values map[string]string) error
	Remove(key string) error
	Close() error
}
