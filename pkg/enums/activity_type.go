package enums

import "fmt"

// ActivityType tags one entry in the recent-activity feed.
type ActivityType string

const (
	ActivityBookAdded              ActivityType = "book_added"
	ActivityBookUpdated            ActivityType = "book_updated"
	ActivityBookDeleted            ActivityType = "book_deleted"
	ActivityBookBorrowed           ActivityType = "book_borrowed"
	ActivityBookReturned           ActivityType = "book_returned"
	ActivityBookAddedToLibrary     ActivityType = "book_added_to_library"
	ActivityBookRemovedFromLibrary ActivityType = "book_removed_from_library"
	ActivityLibraryCreated         ActivityType = "library_created"
	ActivityLibraryUpdated         ActivityType = "library_updated"
	ActivityLibraryDeleted         ActivityType = "library_deleted"
	ActivityUserCreated            ActivityType = "user_created"
	ActivityUserUpdated            ActivityType = "user_updated"
	ActivityUserBlocked            ActivityType = "user_blocked"
	ActivityUserUnblocked          ActivityType = "user_unblocked"
	ActivityProfileUpdated         ActivityType = "profile_updated"
)

var validActivityTypes = []ActivityType{
	ActivityBookAdded,
	ActivityBookUpdated,
	ActivityBookDeleted,
	ActivityBookBorrowed,
	ActivityBookReturned,
	ActivityBookAddedToLibrary,
	ActivityBookRemovedFromLibrary,
	ActivityLibraryCreated,
	ActivityLibraryUpdated,
	ActivityLibraryDeleted,
	ActivityUserCreated,
	ActivityUserUpdated,
	ActivityUserBlocked,
	ActivityUserUnblocked,
	ActivityProfileUpdated,
}

// String implements fmt.Stringer.
func (a ActivityType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActivityType.
func (a ActivityType) IsValid() bool {
	for _, candidate := range validActivityTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityType converts raw input into an ActivityType.
func ParseActivityType(value string) (ActivityType, error) {
	for _, candidate := range validActivityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity type %q", value)
}
