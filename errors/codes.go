package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resolution errors
const (
	// ErrCodeNotRegistered indicates no mapping or generator matched a request key.
	ErrCodeNotRegistered ErrorCode = "NOT_REGISTERED"
	// ErrCodeFactoryFailed indicates a construction strategy returned an error.
	ErrCodeFactoryFailed ErrorCode = "FACTORY_FAILED"
	// ErrCodeTypeMismatch indicates a resolved instance did not have the requested type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeArraySizeMismatch indicates an array request whose length does not
	// match the number of registrations for the element type.
	ErrCodeArraySizeMismatch ErrorCode = "ARRAY_SIZE_MISMATCH"
)

// Registration errors
const (
	// ErrCodeDuplicateMapping indicates two explicit mappings for the same request key.
	ErrCodeDuplicateMapping ErrorCode = "DUPLICATE_MAPPING"
	// ErrCodeInvalidMapping indicates a malformed mapping declaration (nil factory, nil type).
	ErrCodeInvalidMapping ErrorCode = "INVALID_MAPPING"
	// ErrCodeInvalidInitializer indicates an initializer bound to a member that
	// does not exist or cannot be assigned.
	ErrCodeInvalidInitializer ErrorCode = "INVALID_INITIALIZER"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidConfig indicates a configuration file failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeMutationRejected indicates a collection mutation was vetoed by a hook.
	ErrCodeMutationRejected ErrorCode = "MUTATION_REJECTED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
