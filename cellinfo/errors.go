package cellinfo

import "fmt"

// Error is a cell info error that can be compared with errors.Is.
type Error string

const (
	ErrUnknownType           Error = "unknown cell info type"
	ErrMissingIdentity       Error = "cell identity is required"
	ErrMissingSignalStrength Error = "cell signal strength is required"
	ErrIdentityMismatch      Error = "cell identity type does not match cell info type"
	ErrTrailingData          Error = "trailing data after cell info record"
	ErrNilCellInfo           Error = "cell info is nil"
)

func (e Error) Error() string {
	return string(e)
}

// TagError reports a record whose leading tag is not a known variant.
type TagError struct {
	Tag int32
}

func (e *TagError) Error() string {
	return fmt.Sprintf("bad cell info tag %d", e.Tag)
}

// Is makes errors.Is(err, ErrUnknownType) hold for every TagError.
func (e *TagError) Is(target error) bool {
	return target == ErrUnknownType
}
