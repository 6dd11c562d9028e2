package enums

import "fmt"

// SearchField narrows a catalog search to one attribute.
type SearchField string

const (
	SearchFieldAll    SearchField = "all"
	SearchFieldTitle  SearchField = "title"
	SearchFieldAuthor SearchField = "author"
	SearchFieldGenre  SearchField = "genre"
)

var validSearchFields = []SearchField{
	SearchFieldAll,
	SearchFieldTitle,
	SearchFieldAuthor,
	SearchFieldGenre,
}

// String implements fmt.Stringer.
func (s SearchField) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SearchField.
func (s SearchField) IsValid() bool {
	for _, candidate := range validSearchFields {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSearchField converts raw input into a SearchField, defaulting to all.
func ParseSearchField(value string) (SearchField, error) {
	if value == "" {
		return SearchFieldAll, nil
	}
	for _, candidate := range validSearchFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid search field %q", value)
}
