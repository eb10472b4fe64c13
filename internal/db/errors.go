package db

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound signals a missing key.
var ErrKeyNotFound = errors.New("key not found")

// Op identifies the failed storage operation.
type Op string

// Storage operations.
const (
	OpGet       Op = "get"
	OpSet       Op = "set"
	OpDel       Op = "del"
	OpScan      Op = "scan"
	OpSAdd      Op = "sadd"
	OpSRem      Op = "srem"
	OpSMembers  Op = "smembers"
)

// Error wraps a storage failure with the operation that produced it.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("db %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }
