package certification

import "github.com/warp/fleet-engine/generic"

var (
	// ErrRecordNotFound is returned by stores when a certification id is unknown.
	ErrRecordNotFound = generic.NewNotFoundError("certification not found")

	// ErrCategoryNotFound is returned when a record names an unknown category.
	ErrCategoryNotFound = generic.NewNotFoundError("certification category not found")
)
