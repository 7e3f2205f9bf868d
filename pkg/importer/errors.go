package importer

import (
	"errors"
	"fmt"
)

// ErrJobNotFound is returned when a job id is unknown to the status store.
var ErrJobNotFound = errors.New("import job not found")

// UnknownProviderError is a dispatch-time error: the provider name is not
// registered. It never enters the job state machine.
type UnknownProviderError struct {
	Provider string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider: %s", e.Provider)
}

// ProviderUnavailableError means the provider exists but reports itself as
// not configured or unhealthy.
type ProviderUnavailableError struct {
	Provider string
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("provider %s is currently unavailable", e.Provider)
}

// InvalidStateError is returned when cancel or retry is attempted on a job
// whose current status does not allow the operation.
type InvalidStateError struct {
	Operation string
	Status    Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s job in status %s", e.Operation, e.Status)
}

// PublishError wraps a queue transport rejection at dispatch time. The job is
// marked FAILED synchronously because no worker will ever see it.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to queue import job: %v", e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
