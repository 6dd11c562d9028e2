package enums

import "fmt"

// BookStatus represents a catalog book's lifecycle state. The borrowing
// engine only transitions between available and borrowed; reserved is
// accepted on input for catalog imports.
type BookStatus string

const (
	BookStatusAvailable BookStatus = "available"
	BookStatusBorrowed  BookStatus = "borrowed"
	BookStatusReserved  BookStatus = "reserved"
)

var validBookStatuses = []BookStatus{
	BookStatusAvailable,
	BookStatusBorrowed,
	BookStatusReserved,
}

// String implements fmt.Stringer.
func (b BookStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BookStatus.
func (b BookStatus) IsValid() bool {
	for _, candidate := range validBookStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBookStatus converts raw input into a BookStatus.
func ParseBookStatus(value string) (BookStatus, error) {
	for _, candidate := range validBookStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid book status %q", value)
}
