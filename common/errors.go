package common

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the closed set of failures a scene load or a draw can produce.
type ErrorKind int

const (
	// KindUnsupportedBufferEncoding is returned when a buffer is embedded (no external URI) or its URI
	// does not use the supported binary extension.
	KindUnsupportedBufferEncoding ErrorKind = iota + 1

	// KindUnsupportedImageFormat is returned when an image URI is not a PNG or JPEG file.
	KindUnsupportedImageFormat

	// KindUnsupportedCameraMode is returned for orthographic cameras and infinite (zfar-less) perspective cameras.
	KindUnsupportedCameraMode

	// KindUnsupportedPrimitiveMode is returned for any primitive that is not a triangle list.
	KindUnsupportedPrimitiveMode

	// KindUnsupportedAccessorLayout is returned for sparse accessors and accessors without a bufferView.
	KindUnsupportedAccessorLayout

	// KindShaderCompileError is returned when the GPU driver rejects a shader or program.
	KindShaderCompileError

	// KindImageDecodeError is returned when image bytes cannot be decoded into pixels.
	KindImageDecodeError

	// KindMalformedDocument is returned for out-of-range indices and missing required fields.
	KindMalformedDocument
)

var kindNames = map[ErrorKind]string{
	KindUnsupportedBufferEncoding: "UnsupportedBufferEncoding",
	KindUnsupportedImageFormat:    "UnsupportedImageFormat",
	KindUnsupportedCameraMode:     "UnsupportedCameraMode",
	KindUnsupportedPrimitiveMode:  "UnsupportedPrimitiveMode",
	KindUnsupportedAccessorLayout: "UnsupportedAccessorLayout",
	KindShaderCompileError:        "ShaderCompileError",
	KindImageDecodeError:          "ImageDecodeError",
	KindMalformedDocument:         "MalformedDocument",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for errors.Is matching. Any *Error with the same Kind matches its sentinel.
var (
	ErrUnsupportedBufferEncoding = &Error{Kind: KindUnsupportedBufferEncoding, Index: -1}
	ErrUnsupportedImageFormat    = &Error{Kind: KindUnsupportedImageFormat, Index: -1}
	ErrUnsupportedCameraMode     = &Error{Kind: KindUnsupportedCameraMode, Index: -1}
	ErrUnsupportedPrimitiveMode  = &Error{Kind: KindUnsupportedPrimitiveMode, Index: -1}
	ErrUnsupportedAccessorLayout = &Error{Kind: KindUnsupportedAccessorLayout, Index: -1}
	ErrShaderCompile             = &Error{Kind: KindShaderCompileError, Index: -1}
	ErrImageDecode               = &Error{Kind: KindImageDecodeError, Index: -1}
	ErrMalformedDocument         = &Error{Kind: KindMalformedDocument, Index: -1}
)

// Error is the structured error carried through every load and draw failure.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Index is the offending element of the array named by Feature, or -1 when not applicable.
	Index int
	// Feature names the unsupported feature or the document field path (e.g. "buffers", "primitive.mode").
	Feature string
	// Detail is free-form context such as a URI or a driver diagnostic.
	Detail string
	// Err is the wrapped cause, if any.
	Err error
}

// NewError creates a structured error of the given kind.
//
// Parameters:
//   - kind: the error classification
//   - feature: the feature or document field the error refers to
//   - index: the offending array index, or -1
//   - detail: additional context (may be empty)
//
// Returns:
//   - *Error: the structured error
func NewError(kind ErrorKind, feature string, index int, detail string) *Error {
	return &Error{Kind: kind, Feature: feature, Index: index, Detail: detail}
}

// WrapError creates a structured error of the given kind wrapping a cause.
//
// Parameters:
//   - kind: the error classification
//   - feature: the feature or document field the error refers to
//   - index: the offending array index, or -1
//   - err: the underlying cause
//
// Returns:
//   - *Error: the structured error
func WrapError(kind ErrorKind, feature string, index int, err error) *Error {
	return &Error{Kind: kind, Feature: feature, Index: index, Err: err}
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Feature != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Feature)
		if e.Index >= 0 {
			fmt.Fprintf(&sb, "[%d]", e.Index)
		}
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the ErrorKind of the first *Error in err's chain, or 0 if there is none.
//
// Parameters:
//   - err: the error to inspect
//
// Returns:
//   - ErrorKind: the kind, or 0
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
