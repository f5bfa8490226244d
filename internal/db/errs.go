package db

import (
	"errors"
	"fmt"
)

var (
	// database errs.
	ErrDBNotFound   = errors.New("database not found")
	ErrDBCorrupted  = errors.New("database corrupted")
	ErrPathEmpty    = errors.New("database path is empty")
	ErrBackupExists = errors.New("backup already exists")
)

var (
	// records errs.
	ErrRecordNotFound  = errors.New("no record found")
	ErrRecordMalformed = errors.New("malformed record")
)

// Kind classifies store failures.
type Kind uint8

const (
	KindInit     Kind = iota + 1 // store cannot be opened or migrated
	KindQuery                    // read failed or a stored value is malformed
	KindWrite                    // insert, update, delete or reorder failed
	KindNotFound                 // lookup by id found nothing
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindQuery:
		return "query"
	case KindWrite:
		return "write"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Error is the error returned by every store operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a store error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}

	return false
}

func initErr(op string, err error) error {
	return &Error{Kind: KindInit, Op: op, Err: err}
}

func queryErr(op string, err error) error {
	return &Error{Kind: KindQuery, Op: op, Err: err}
}

func writeErr(op string, err error) error {
	return &Error{Kind: KindWrite, Op: op, Err: err}
}
