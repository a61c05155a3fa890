package prompt

import "promptgen-backend/internal/models"

type GenerateRequest struct {
	User         string      `json:"user" binding:"max=320"`
	SelectedRole string      `json:"selected_role" binding:"max=200"`
	CustomRole   string      `json:"custom_role" binding:"max=200"`
	Task         string      `json:"task" binding:"max=2000"`
	Context      string      `json:"context" binding:"max=20000"`
	Outcome      string      `json:"outcome" binding:"max=2000"`
	Tone         models.Tone `json:"tone" binding:"omitempty,oneof=Professional Casual Creative Technical Neutral"`
}

func (r GenerateRequest) Form() models.FormValues {
	return models.FormValues{
		User:         r.User,
		SelectedRole: r.SelectedRole,
		CustomRole:   r.CustomRole,
		Task:         r.Task,
		Context:      r.Context,
		Outcome:      r.Outcome,
		Tone:         r.Tone,
	}
}

type OptionsResponse struct {
	Roles       []string      `json:"roles"`
	OtherRole   string        `json:"other_role"`
	Tones       []models.Tone `json:"tones"`
	DefaultTone models.Tone   `json:"default_tone"`
}

type PreviewResponse struct {
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	Prompt string              `json:"prompt"`
	Record models.PromptRecord `json:"record"`
	Saved  bool                `json:"saved"`
	// SaveError is set when the prompt was built but not appended to the log.
	SaveError string `json:"save_error,omitempty"`
}
