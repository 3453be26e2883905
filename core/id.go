package core

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewID returns a random UUID string.
func NewID() string { return uuid.NewString() }

// NewThreadID returns a fresh conversation thread identifier.
func NewThreadID() string { return "thread_" + uuid.NewString() }

// NewSortableID returns prefix followed by a lexicographically sortable ULID.
// Used for run and batch identifiers so that listings order by creation time.
func NewSortableID(prefix string) string { return prefix + ulid.Make().String() }
