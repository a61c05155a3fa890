package models

// FormValues is what the user has typed into the form, kept between renders.
type FormValues struct {
	User         string `json:"user" form:"user"`
	SelectedRole string `json:"selected_role" form:"selected_role"`
	CustomRole   string `json:"custom_role" form:"custom_role"`
	Task         string `json:"task" form:"task"`
	Context      string `json:"context" form:"context"`
	Outcome      string `json:"outcome" form:"outcome"`
	Tone         Tone   `json:"tone" form:"tone"`
}

// EmptyForm is the state after a clear: every field blank, tone at its default.
func EmptyForm() FormValues {
	return FormValues{Tone: DefaultTone}
}

// PromptInput is the form after role resolution; every field feeds the template.
type PromptInput struct {
	User    string `validate:"notblank"`
	Task    string `validate:"notblank"`
	Role    string `validate:"notblank"`
	Context string `validate:"notblank"`
	Outcome string `validate:"notblank"`
	Tone    Tone   `validate:"oneof=Professional Casual Creative Technical Neutral"`
}
