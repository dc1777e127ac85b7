package services

// FieldKind is the semantic kind assigned to an interactive page element.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldEmail    FieldKind = "email"
	FieldTel      FieldKind = "tel"
	FieldNumber   FieldKind = "number"
	FieldDate     FieldKind = "date"
	FieldTextarea FieldKind = "textarea"
	FieldSelect   FieldKind = "select"
	FieldRadio    FieldKind = "radio"
	FieldCheckbox FieldKind = "checkbox"
	FieldFile     FieldKind = "file"
	FieldButton   FieldKind = "button"
	FieldUnknown  FieldKind = "unknown"
)

// FormField is one interactive control captured in a page snapshot.
// IDs are only stable within the snapshot that produced them; Selector
// is the locator hint used to re-target the element on the live page.
type FormField struct {
	ID       string    `json:"id"`
	Selector string    `json:"selector"`
	Kind     FieldKind `json:"kind"`
	Label    string    `json:"label"`
	Value    string    `json:"value,omitempty"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required"`
	Visible  bool      `json:"visible"`
}

// AnswerMap maps FormField.ID to answer text for one extraction cycle.
// Checkbox/radio answers are encoded as "true"/"false". Never reused
// across cycles because field IDs do not survive DOM mutations.
type AnswerMap map[string]string

// UserProfileData is the applicant information made available to the
// answering service and to the field-level fallback heuristics.
type UserProfileData struct {
	FullName          string   `json:"full_name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Location          string   `json:"location"`
	Skills            []string `json:"skills"`
	Summary           string   `json:"summary"`
	LinkedIn          string   `json:"linkedin,omitempty"`
	YearsOfExperience int      `json:"years_of_experience,omitempty"`
	WorkAuthorization string   `json:"work_authorization,omitempty"`
	Education         string   `json:"education,omitempty"`
}

// AutomationContext is the immutable per-run input. One controller run
// owns it exclusively; it is never shared across concurrent runs.
type AutomationContext struct {
	Profile    *UserProfileData
	ResumeText string
	ResumePath string
	JobContext string
}

// NavigationOutcome reports what the navigation resolver did.
type NavigationOutcome string

const (
	NavSubmitting NavigationOutcome = "submitting"
	NavNextPage   NavigationOutcome = "next_page"
	NavNoAction   NavigationOutcome = "no_action"
)

// StepResult summarizes one controller loop iteration. It only feeds
// the next controller decision and is not persisted.
type StepResult struct {
	FieldsProcessed int
	FieldsFilled    int
	Navigation      NavigationOutcome
	NewFields       bool
}

// AutomationResult is the terminal output of one automation run.
type AutomationResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ScreenshotURL string `json:"screenshot_url,omitempty"`
}
