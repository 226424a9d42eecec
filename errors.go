package tracekb

import "errors"

var (
	// ErrProviderRequired is returned when an operation needs an LLM
	// provider that is not configured.
	ErrProviderRequired = errors.New("tracekb: LLM provider required")

	// ErrEmptyInput is returned when a build is attempted with no entities
	// at all.
	ErrEmptyInput = errors.New("tracekb: no input entities")

	// ErrNoCode is returned when generation is requested without any code
	// descriptors.
	ErrNoCode = errors.New("tracekb: no code descriptors")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("tracekb: invalid configuration")

	// ErrStoreDisabled is returned when persistence is requested but no
	// store is configured.
	ErrStoreDisabled = errors.New("tracekb: persistence not enabled")
)
