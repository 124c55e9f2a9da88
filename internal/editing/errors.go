package editing

import (
	"errors"
	"fmt"

	"github.com/jonathan/interview-feedback/internal/types"
)

// ErrItemNotFound indicates the addressed item id is not in the section
var ErrItemNotFound = errors.New("item not found")

// ErrEmptyHeading indicates a heading that is blank after trimming
var ErrEmptyHeading = errors.New("heading cannot be blank")

// DuplicateHeadingError indicates two items of a section would share a heading.
type DuplicateHeadingError struct {
	Section types.SectionKind
	Heading string
}

func (e *DuplicateHeadingError) Error() string {
	return fmt.Sprintf("duplicate heading %q in %s", e.Heading, e.Section)
}

// IndexError indicates an index-based operation addressed a position that
// does not exist.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0, %d)", e.Op, e.Index, e.Len)
}

// StepKindError indicates an operation that only applies to one next-step
// shape was applied to the other.
type StepKindError struct {
	Op    string
	Index int
	Want  types.NextStepKind
	Got   types.NextStepKind
}

func (e *StepKindError) Error() string {
	return fmt.Sprintf("%s: next step %d is a %s step, want %s", e.Op, e.Index, e.Got, e.Want)
}

func itemNotFound(kind types.SectionKind, id string) error {
	return fmt.Errorf("%w: %s in %s", ErrItemNotFound, id, kind)
}
