package httpapi

// Request bodies. Field names match what the UI sends.

type createJobReq struct {
	Company       string `json:"company"`
	Role          string `json:"role"`
	Status        string `json:"status,omitempty"`
	Location      string `json:"location,omitempty"`
	CTC           string `json:"ctc,omitempty"`
	JobLink       string `json:"jobLink,omitempty"`
	AppliedDate   string `json:"appliedDate,omitempty"`
	ResumeVersion string `json:"resumeVersion,omitempty"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

type followUpReq struct {
	FollowUpDate string `json:"followUpDate"`
	Note         string `json:"note"`
}

type setTokenReq struct {
	Token string `json:"token"`
}
