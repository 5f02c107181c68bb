package record

// Record is one respondent's survey answer.
//
// A record is assembled client-side while the respondent fills the form and
// becomes immutable once sealed into an envelope; the collection server only
// ever sees the ciphertext keyed by the id it assigns.
type Record struct {
	// Name is the respondent's display name.
	Name string `json:"name"`

	// Country is free text, normalized against a fixed country list.
	Country string `json:"country"`

	// Location is an optional free-text region or city within the country.
	Location string `json:"location,omitempty"`

	// NameOnMap is the respondent's visibility preference: true means a
	// public marker, false means statistics only. Nil means the respondent
	// has not answered yet and the record is incomplete.
	NameOnMap *bool `json:"nameOnMap,omitempty"`

	// ContactInfo is optional and private; it never reaches any aggregate
	// view.
	ContactInfo string `json:"contact,omitempty"`

	// SubmissionID is assigned by the submission store. It is empty until
	// the store accepts the envelope and travels outside the ciphertext.
	SubmissionID string `json:"-"`

	// CaptchaAnswer is the respondent's anti-spam answer.
	CaptchaAnswer string `json:"captcha"`
}

// Complete reports whether the record can be submitted: name, country and
// captcha answer are filled in and the visibility preference was chosen.
func (r Record) Complete() bool {
	return r.Name != "" && r.Country != "" && r.CaptchaAnswer != "" && r.NameOnMap != nil
}

// OnMap reports whether the respondent opted into a public map marker.
func (r Record) OnMap() bool {
	return r.NameOnMap != nil && *r.NameOnMap
}
