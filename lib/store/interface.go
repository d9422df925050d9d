package store

import (
	"fmt"
	"io"

	"github.com/Tony-Hui/KeyValueStore/lib/kv"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// MappingFactory is a function type that creates a new base mapping used by
// the store. This is used to abstract the creation of the mapping from the
// store implementation.
type MappingFactory[T any] func() kv.Mapping[T]

// IStore is the generic interface for interacting with a key–value store.
// All write operations return only an error (nil on success), while read
// operations return the requested data along with an error (nil on success).
//
// The value type T must be comparable; equality on T is what the value-filtered
// query methods (KeysWithValue, CountWithValue) use.
type IStore[T comparable] interface {
	// Set inserts or updates a key–value pair.
	Set(key string, value T) (err error)
	// Delete deletes a key–value pair. Deleting a missing key is a no-op.
	Delete(key string) (err error)
	// Get returns the value for a key. The boolean return value indicates whether a value for the key was found.
	Get(key string) (value T, loaded bool, err error)
	// Has returns whether a key is currently visible in the store.
	Has(key string) (loaded bool, err error)
	// Keys returns all currently visible keys. The order is unspecified.
	Keys() (keys []string, err error)
	// KeysWithValue returns all currently visible keys whose value equals the given value. The order is unspecified.
	KeysWithValue(value T) (keys []string, err error)
	// Values returns all currently visible values. The order is unspecified.
	Values() (values []T, err error)
	// Count returns the number of currently visible keys.
	Count() (n uint32, err error)
	// CountWithValue returns the number of currently visible keys whose value equals the given value.
	CountWithValue(value T) (n uint32, err error)
	// Show writes up to maxRecords visible records to w, one "key : value" record per line.
	Show(w io.Writer, maxRecords uint32) (err error)
	// GetMappingInfo returns metadata about the base mapping underlying the store.
	// It is not guaranteed that all fields are filled in or that the information is up-to-date!
	GetMappingInfo() (info kv.MappingInfo, err error)
}

// ITransactionalStore extends IStore with nested transaction support. A
// transaction stages mutations in a diff layer until it is either committed
// (folded one level down) or rolled back (discarded). Transactions nest to
// arbitrary depth.
//
// "Transaction" here means a layered-mutation staging mechanism only; no
// isolation from concurrent observers is provided or implied.
type ITransactionalStore[T comparable] interface {
	IStore[T]

	// Begin opens a new transaction by pushing an empty diff layer.
	Begin() (err error)
	// Commit folds the innermost diff layer into the enclosing layer, or into
	// the base mapping if this was the outermost transaction. Committing with
	// no open transaction is a no-op; applied reports whether a layer was
	// actually committed.
	Commit() (applied bool, err error)
	// Rollback discards the innermost diff layer. Rolling back with no open
	// transaction is a no-op; applied reports whether a layer was actually
	// discarded.
	Rollback() (applied bool, err error)
	// Depth returns the number of currently open transactions.
	Depth() (depth uint32)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCUnsupportedOperation:
		errorCode = "UnsupportedOperation"
	case RetCInvalidOperation:
		errorCode = "InvalidOperation"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("KVStoreError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new KVStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the underlying mapping.
	RetCInvalidOperation                    // 3: Invalid operation.
)
