package citation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedDate indicates a multi-segment date that is not a calendar date.
	ErrMalformedDate = errors.New("malformed date")
	// ErrUnrecognizedType indicates a citation type with no registered formatter.
	ErrUnrecognizedType = errors.New("unrecognized citation type")
	// ErrNoThesisAuthor indicates a thesis without a member in the author role.
	ErrNoThesisAuthor = errors.New("thesis has no author")
	// ErrInvalidDeleteSelector indicates zero or several delete selection modes.
	ErrInvalidDeleteSelector = errors.New("invalid delete selector")
	// ErrNoMatchingData indicates a lookup that resolved to no citations.
	ErrNoMatchingData = errors.New("no data resolved")
	// ErrInvalidUpdatePayload indicates an update payload with no recognized fields.
	ErrInvalidUpdatePayload = errors.New("update payload has no recognized fields")
	// ErrInvalidRequest indicates a payload that fails validation.
	ErrInvalidRequest = errors.New("request incorrectly formed")
	// ErrPersistence marks every transaction failure.
	ErrPersistence = errors.New("persistence failure")
)

// InvalidRequest tags msg as a validation failure.
func InvalidRequest(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.TrimSpace(msg))
}

// PersistenceError is returned when a transaction is rolled back. Its message
// is safe to show to users; the database cause is reachable through Unwrap.
type PersistenceError struct {
	Op  string   // create, update, delete, add-member, remove-member
	IDs []string // citations involved, when known
	Err error
}

func (e *PersistenceError) Error() string {
	switch e.Op {
	case "create":
		return "the citation could not be created"
	case "update":
		return "the citation could not be updated"
	case "delete":
		return "the citations could not be deleted"
	case "restore":
		return "the citations could not be restored"
	default:
		return "the citation could not be saved"
	}
}

// Unwrap exposes both the persistence marker and the underlying cause.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
