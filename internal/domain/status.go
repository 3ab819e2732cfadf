package domain

// Status is a job application's pipeline stage.
type Status string

const (
	StatusSaved     Status = "SAVED"
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusRejected  Status = "REJECTED"
)

// AllStatuses in pipeline order. REJECTED is terminal but can be reached
// (and left) from any stage; the order here is display order, not a rule.
var AllStatuses = []Status{
	StatusSaved,
	StatusApplied,
	StatusInterview,
	StatusOffer,
	StatusRejected,
}

func (s Status) String() string { return string(s) }
