package types

// ContentRequest asks for prose for one strength or area heading.
type ContentRequest struct {
	FileID   string      `json:"file_id" validate:"required"`
	Section  SectionKind `json:"section" validate:"required,oneof=strengths areas_to_target"`
	Heading  string      `json:"heading" validate:"required"`
	Existing string      `json:"existing_content,omitempty"`
	Evidence []Evidence  `json:"evidence,omitempty"`
}

// NextStepsRequest asks for next steps addressing the given areas.
type NextStepsRequest struct {
	FileID string     `json:"file_id" validate:"required"`
	Areas  HeadingMap `json:"areas_to_target"`
}
