package wizard

// Step numbers of the default editor flow.
const (
	StepUpload = iota + 1
	StepFeedback
	StepPathSelection
	StepAnalysis
	StepDownload
)

// Checks supplies the validation hooks of the default flow. A nil hook
// lets its step pass unconditionally. The optional path step has no hook so
// it can always be skipped.
type Checks struct {
	HasFile     ValidateFunc
	HasFeedback ValidateFunc
	HasAnalysis ValidateFunc
}

// DefaultSteps returns the editor flow: upload a transcript, review the
// stakeholder feedback, optionally pick a report path, edit the analysis,
// then download.
func DefaultSteps(c Checks) []Step {
	return []Step{
		{Title: "Upload Transcript", Validate: c.HasFile},
		{Title: "Review Feedback", Validate: c.HasFeedback},
		{Title: "Choose Report Path", Optional: true},
		{Title: "Edit Analysis", Validate: c.HasAnalysis},
		{Title: "Download Report"},
	}
}
