// Package rerr defines the four error kinds the renderer surfaces:
// ConfigurationError, GeometryError, LoadError, ImageIoError. Each is
// one sentinel below carried by a single Kinded struct type (not a
// hierarchy of types), so callers use errors.Is against the four
// sentinel kinds instead of type-switching.
package rerr

import (
	"errors"
	"fmt"
)

var (
	Configuration = errors.New("configuration error")
	Geometry      = errors.New("geometry error")
	Load          = errors.New("load error")
	ImageIO       = errors.New("image io error")
)

// Kinded wraps one of the four sentinel kinds with a field name and a
// message, and supports errors.Is(err, rerr.Configuration) etc. via
// its Is method; Unwrap exposes the wrapped cause, if any.
type Kinded struct {
	kind  error
	field string
	msg   string
	cause error
}

func (e *Kinded) Error() string {
	if e.field != "" {
		return fmt.Sprintf("%s: %s (field %q)", e.kind, e.msg, e.field)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *Kinded) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return e.kind
}

func (e *Kinded) Is(target error) bool { return target == e.kind }

func newKinded(kind error, msg string) *Kinded {
	return &Kinded{kind: kind, msg: msg}
}

func ConfigurationErrorf(format string, args ...any) error {
	return newKinded(Configuration, fmt.Sprintf(format, args...))
}

func GeometryErrorf(format string, args ...any) error {
	return newKinded(Geometry, fmt.Sprintf(format, args...))
}

// LoadErrorField reports a required-field-missing LoadError, naming
// the field so the loader's aggregate message ("Required
// fields missing → a specific load error listing the field name") can
// quote it directly.
func LoadErrorField(field, msg string) error {
	return &Kinded{kind: Load, field: field, msg: msg}
}

func LoadErrorf(format string, args ...any) error {
	return newKinded(Load, fmt.Sprintf(format, args...))
}

func LoadErrorWrap(cause error, msg string) error {
	return &Kinded{kind: Load, msg: msg, cause: cause}
}

// NotFound is a LoadError raised when a named reference (material,
// medium, texture) doesn't resolve in its pool.
func NotFound(kind, name string) error {
	return newKinded(Load, fmt.Sprintf("%s %q: not found", kind, name))
}

func ImageIOErrorf(format string, args ...any) error {
	return newKinded(ImageIO, fmt.Sprintf(format, args...))
}

func ImageIOWrap(cause error, msg string) error {
	return &Kinded{kind: ImageIO, msg: msg, cause: cause}
}
