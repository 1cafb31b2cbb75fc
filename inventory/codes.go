package inventory

import (
	"fmt"

	"github.com/crmarques/srvinv/faults"
)

// Domain result codes. Callers branch on these instead of HTTP statuses. The
// numeric values are stable and double as the command line's exit status.

const identityUnresolved = 9

const identityUnresolvedMessage = "error unable to build srv-id"

// FetchCode is the outcome of reading an object or one of its attributes.
type FetchCode int

const (
	FetchOK                 FetchCode = 0
	FetchNotFound           FetchCode = 1
	FetchAttributeMissing   FetchCode = 2
	FetchFailed             FetchCode = 3
	FetchIdentityUnresolved FetchCode = identityUnresolved
)

func (c FetchCode) OK() bool { return c == FetchOK }

func (c FetchCode) Message() string {
	switch c {
	case FetchOK:
		return "ok"
	case FetchNotFound:
		return "resource not found"
	case FetchAttributeMissing:
		return "attribute not set"
	case FetchFailed:
		return "error communicating with srvinv daemon"
	case FetchIdentityUnresolved:
		return identityUnresolvedMessage
	default:
		return fmt.Sprintf("unknown error %d", int(c))
	}
}

func (c FetchCode) Err() error {
	switch c {
	case FetchOK:
		return nil
	case FetchNotFound, FetchAttributeMissing:
		return codeError(faults.NotFoundError, int(c), c.Message())
	case FetchIdentityUnresolved:
		return codeError(faults.IdentityError, int(c), c.Message())
	default:
		return codeError(faults.TransportError, int(c), c.Message())
	}
}

// PatchCode is the outcome of the two-phase attribute write.
type PatchCode int

const (
	PatchOK                 PatchCode = 0
	PatchCheckFailed        PatchCode = 1
	PatchRejected           PatchCode = 2
	PatchTargetMissing      PatchCode = 3
	PatchUnchanged          PatchCode = 4
	PatchIdentityUnresolved PatchCode = identityUnresolved
)

func (c PatchCode) OK() bool { return c == PatchOK }

func (c PatchCode) Message() string {
	switch c {
	case PatchOK:
		return "ok"
	case PatchCheckFailed, PatchRejected:
		return "error communicating with srvinv daemon"
	case PatchTargetMissing:
		return "resource not found"
	case PatchUnchanged:
		return "attribute unchanged"
	case PatchIdentityUnresolved:
		return identityUnresolvedMessage
	default:
		return fmt.Sprintf("unknown error %d", int(c))
	}
}

func (c PatchCode) Err() error {
	switch c {
	case PatchOK:
		return nil
	case PatchTargetMissing:
		return codeError(faults.PreconditionError, int(c), c.Message())
	case PatchUnchanged:
		return codeError(faults.UnchangedError, int(c), c.Message())
	case PatchIdentityUnresolved:
		return codeError(faults.IdentityError, int(c), c.Message())
	default:
		return codeError(faults.TransportError, int(c), c.Message())
	}
}

// RegisterCode is the outcome of creating a new object.
type RegisterCode int

const (
	RegisterOK                 RegisterCode = 0
	RegisterConflict           RegisterCode = 1
	RegisterFailed             RegisterCode = 2
	RegisterIdentityUnresolved RegisterCode = identityUnresolved
)

func (c RegisterCode) OK() bool { return c == RegisterOK }

func (c RegisterCode) Message() string {
	switch c {
	case RegisterOK:
		return "ok"
	case RegisterConflict:
		return "conflict: already registered"
	case RegisterFailed:
		return "error communicating with srvinv daemon"
	case RegisterIdentityUnresolved:
		return identityUnresolvedMessage
	default:
		return fmt.Sprintf("error failed with error-code %d", int(c))
	}
}

func (c RegisterCode) Err() error {
	switch c {
	case RegisterOK:
		return nil
	case RegisterConflict:
		return codeError(faults.ConflictError, int(c), c.Message())
	case RegisterIdentityUnresolved:
		return codeError(faults.IdentityError, int(c), c.Message())
	default:
		return codeError(faults.TransportError, int(c), c.Message())
	}
}

// DeleteCode is the outcome of removing an object.
type DeleteCode int

const (
	DeleteOK                 DeleteCode = 0
	DeleteNotFound           DeleteCode = 1
	DeleteFailed             DeleteCode = 2
	DeleteIdentityUnresolved DeleteCode = identityUnresolved
)

func (c DeleteCode) OK() bool { return c == DeleteOK }

func (c DeleteCode) Message() string {
	switch c {
	case DeleteOK:
		return "ok"
	case DeleteNotFound:
		return "resource not found"
	case DeleteFailed:
		return "error communicating with srvinv daemon"
	case DeleteIdentityUnresolved:
		return identityUnresolvedMessage
	default:
		return fmt.Sprintf("unknown error %d", int(c))
	}
}

func (c DeleteCode) Err() error {
	switch c {
	case DeleteOK:
		return nil
	case DeleteNotFound:
		return codeError(faults.NotFoundError, int(c), c.Message())
	case DeleteIdentityUnresolved:
		return codeError(faults.IdentityError, int(c), c.Message())
	default:
		return codeError(faults.TransportError, int(c), c.Message())
	}
}

// ListCode is the outcome of adding an item to, or removing it from, a
// list-valued attribute.
type ListCode int

const (
	ListOK                 ListCode = 0
	ListFetchFailed        ListCode = 1
	ListNotAList           ListCode = 2
	ListWriteFailed        ListCode = 3
	ListNoop               ListCode = 4
	ListIdentityUnresolved ListCode = identityUnresolved
)

func (c ListCode) OK() bool { return c == ListOK }

func (c ListCode) Message() string {
	switch c {
	case ListOK:
		return "ok"
	case ListFetchFailed:
		return "failed to get attribute"
	case ListNotAList:
		return "attribute is not a list"
	case ListWriteFailed:
		return "failed to set attribute"
	case ListNoop:
		return "attribute unchanged"
	case ListIdentityUnresolved:
		return identityUnresolvedMessage
	default:
		return fmt.Sprintf("unknown error %d", int(c))
	}
}

func (c ListCode) Err() error {
	switch c {
	case ListOK:
		return nil
	case ListNotAList:
		return codeError(faults.ValidationError, int(c), c.Message())
	case ListNoop:
		return codeError(faults.UnchangedError, int(c), c.Message())
	case ListIdentityUnresolved:
		return codeError(faults.IdentityError, int(c), c.Message())
	default:
		return codeError(faults.TransportError, int(c), c.Message())
	}
}

// CodeError carries a non-zero domain result code.
type CodeError struct {
	Code int
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("result code %d", e.Code)
}

func codeError(category faults.ErrorCategory, code int, message string) error {
	return faults.NewTypedError(category, message, &CodeError{Code: code})
}
