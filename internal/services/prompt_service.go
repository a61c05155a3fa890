package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"promptgen-backend/internal/models"
	"promptgen-backend/internal/store"
	"promptgen-backend/pkg/logger"
)

var (
	ErrIncompleteForm = errors.New("please complete all fields before generating")
	ErrInvalidTone    = errors.New("unsupported tone")
)

// FormError lists what stopped a form from producing a prompt.
type FormError struct {
	Missing     []string
	InvalidTone models.Tone
}

func (e *FormError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%s (missing: %s)", ErrIncompleteForm, strings.Join(e.Missing, ", ")))
	}
	if e.InvalidTone != "" {
		parts = append(parts, fmt.Sprintf("%s %q", ErrInvalidTone, e.InvalidTone))
	}
	return strings.Join(parts, "; ")
}

func (e *FormError) Is(target error) bool {
	switch target {
	case ErrIncompleteForm:
		return len(e.Missing) > 0
	case ErrInvalidTone:
		return e.InvalidTone != ""
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ResolveRole picks the custom role when the "other" entry is selected.
func ResolveRole(selected, custom string) string {
	if selected == models.OtherRole {
		return custom
	}
	return selected
}

// NewPromptInput resolves the role and fills in the default tone.
func NewPromptInput(form models.FormValues) models.PromptInput {
	tone := form.Tone
	if tone == "" {
		tone = models.DefaultTone
	}
	return models.PromptInput{
		User:    form.User,
		Task:    form.Task,
		Role:    ResolveRole(form.SelectedRole, form.CustomRole),
		Context: form.Context,
		Outcome: form.Outcome,
		Tone:    tone,
	}
}

// ValidateInput returns a *FormError when any field is blank or the tone is unknown.
func ValidateInput(in models.PromptInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	formErr := &FormError{}
	for _, fe := range fieldErrs {
		if fe.Field() == "Tone" {
			formErr.InvalidTone = in.Tone
			continue
		}
		formErr.Missing = append(formErr.Missing, strings.ToLower(fe.Field()))
	}
	return formErr
}

// BuildPrompt fills the fixed template. Role, task, outcome and tone are
// lowercased; context is only trimmed.
func BuildPrompt(in models.PromptInput) string {
	prompt := fmt.Sprintf("Act as a %s. Your task is to %s.\nConsider the following: %s\nThe expected result is: %s. Use a %s tone.",
		strings.ToLower(in.Role),
		strings.ToLower(in.Task),
		strings.TrimSpace(in.Context),
		strings.ToLower(in.Outcome),
		strings.ToLower(string(in.Tone)),
	)
	return strings.TrimSpace(prompt)
}

// GenerateResult is a built prompt and the outcome of saving it. SaveErr is
// set when the prompt was built but could not be appended to the log.
type GenerateResult struct {
	Prompt  string              `json:"prompt"`
	Record  models.PromptRecord `json:"record"`
	Saved   bool                `json:"saved"`
	SaveErr error               `json:"-"`
}

type PromptService struct {
	now func() time.Time
	log *zap.Logger
}

func NewPromptService() *PromptService {
	return &PromptService{
		now: time.Now,
		log: logger.Named("prompt"),
	}
}

// WithClock replaces the clock used to stamp records.
func (s *PromptService) WithClock(now func() time.Time) *PromptService {
	s.now = now
	return s
}

// Preview validates the form and builds its prompt without saving anything.
func (s *PromptService) Preview(form models.FormValues) (string, error) {
	in := NewPromptInput(form)
	if err := ValidateInput(in); err != nil {
		return "", err
	}
	return BuildPrompt(in), nil
}

// Generate validates the form, builds the prompt and appends it to st.
// A failed append is reported in the result, not as an error.
func (s *PromptService) Generate(ctx context.Context, st store.Store, form models.FormValues) (*GenerateResult, error) {
	in := NewPromptInput(form)
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(in)
	rec := models.NewPromptRecord(s.now(), in, prompt)
	result := &GenerateResult{Prompt: prompt, Record: rec}

	if err := st.Append(ctx, rec); err != nil {
		s.log.Error("Failed to save prompt", zap.String("user", rec.User), zap.Error(err))
		result.SaveErr = err
		return result, nil
	}

	result.Saved = true
	s.log.Info("Prompt saved", zap.String("user", rec.User), zap.String("timestamp", rec.Timestamp))
	return result, nil
}

// History loads the whole log and filters it by search.
func (s *PromptService) History(ctx context.Context, st store.Store, search string) (*models.History, error) {
	rows, err := st.ReadAll(ctx)
	if err != nil {
		s.log.Error("Failed to load history", zap.Error(err))
		return nil, fmt.Errorf("load history: %w", err)
	}
	return BuildHistory(rows, search), nil
}
