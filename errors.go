// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zflate

// ErrorCode identifies the category of a zflate error, independent of the
// wrapped message or underlying cause, so callers can switch on it instead
// of matching strings.
type ErrorCode int

const (
	_ ErrorCode = iota
	CodeInvalidCompMethod
	CodeInvalidWindowSize
	CodeCorruptHeader
	CodeStreamTooShort
	CodeLenCheckFailed
	CodeDictNotSupported
	CodeIllegalBlockType
	CodeInvalidMatchLen
	CodeAdlerMismatch
	CodeSourceSink
)

// zerror is the concrete error type behind every sentinel this package
// exports. Two zerrors compare equal under errors.Is when their codes
// match, regardless of identity or attached cause, so wrapping a sentinel
// with extra context (via wrap) still satisfies errors.Is(err, ErrXxx).
type zerror struct {
	code ErrorCode
	msg  string
	err  error
}

func (e *zerror) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *zerror) Unwrap() error { return e.err }

func (e *zerror) Code() ErrorCode { return e.code }

func (e *zerror) Is(target error) bool {
	t, ok := target.(*zerror)
	if !ok {
		return false
	}
	return e.code == t.code
}

func (e *zerror) wrap(cause error) *zerror {
	return &zerror{code: e.code, msg: e.msg, err: cause}
}

// Sentinels. Compare against these with errors.Is, e.g.
// errors.Is(err, zflate.ErrAdlerMismatch).
var (
	ErrInvalidCompMethod = &zerror{code: CodeInvalidCompMethod, msg: "zflate: invalid compression method, only DEFLATE (CM=8) is supported"}
	ErrInvalidWindowSize = &zerror{code: CodeInvalidWindowSize, msg: "zflate: invalid window size"}
	ErrCorruptHeader     = &zerror{code: CodeCorruptHeader, msg: "zflate: corrupt zlib header"}
	ErrStreamTooShort    = &zerror{code: CodeStreamTooShort, msg: "zflate: stream too short"}
	ErrLenCheckFailed    = &zerror{code: CodeLenCheckFailed, msg: "zflate: stored block LEN/NLEN complement check failed"}
	ErrDictNotSupported  = &zerror{code: CodeDictNotSupported, msg: "zflate: preset dictionaries (FDICT) are not supported"}
	ErrIllegalBlockType  = &zerror{code: CodeIllegalBlockType, msg: "zflate: illegal block type (BTYPE=3)"}
	ErrInvalidMatchLen   = &zerror{code: CodeInvalidMatchLen, msg: "zflate: invalid match length or distance symbol"}
	ErrAdlerMismatch     = &zerror{code: CodeAdlerMismatch, msg: "zflate: adler-32 checksum mismatch"}
	ErrSourceSink        = &zerror{code: CodeSourceSink, msg: "zflate: underlying reader or writer failed"}
)

func wrapSourceSink(cause error) error { return ErrSourceSink.wrap(cause) }
