package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"promptgen-backend/internal/models"
	"promptgen-backend/internal/store"
)

func completeForm() models.FormValues {
	return models.FormValues{
		User:         "a@b.com",
		SelectedRole: "Software Engineer",
		Task:         "Write an email",
		Context:      "Client is unhappy",
		Outcome:      "An apology email",
		Tone:         models.ToneProfessional,
	}
}

const expectedPrompt = "Act as a software engineer. Your task is to write an email.\n" +
	"Consider the following: Client is unhappy\n" +
	"The expected result is: an apology email. Use a professional tone."

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 9, 30, 5, 0, time.Local)
}

func TestBuildPromptEndToEndExample(t *testing.T) {
	in := NewPromptInput(completeForm())
	assert.Equal(t, expectedPrompt, BuildPrompt(in))
}

func TestBuildPromptNormalisation(t *testing.T) {
	in := models.PromptInput{
		User:    "Someone",
		Role:    "DATA Scientist",
		Task:    "Summarize A Report",
		Context: "  Q3 Numbers\nwith Growth  \n",
		Outcome: "A 150-Word Post",
		Tone:    models.ToneTechnical,
	}

	prompt := BuildPrompt(in)
	assert.Equal(t, "Act as a data scientist. Your task is to summarize a report.\n"+
		"Consider the following: Q3 Numbers\nwith Growth\n"+
		"The expected result is: a 150-word post. Use a technical tone.", prompt)

	// Deterministic.
	assert.Equal(t, prompt, BuildPrompt(in))
}

func TestResolveRole(t *testing.T) {
	assert.Equal(t, "Content Writer", ResolveRole("Content Writer", "ignored"))
	assert.Equal(t, "Chef", ResolveRole(models.OtherRole, "Chef"))
	assert.Equal(t, "", ResolveRole(models.OtherRole, ""))
}

func TestNewPromptInputDefaultsTone(t *testing.T) {
	form := completeForm()
	form.Tone = ""
	assert.Equal(t, models.ToneProfessional, NewPromptInput(form).Tone)
}

func TestValidateInputMissingFields(t *testing.T) {
	blank := []struct {
		name   string
		mutate func(f *models.FormValues)
	}{
		{"user", func(f *models.FormValues) { f.User = "" }},
		{"task", func(f *models.FormValues) { f.Task = "   " }},
		{"role", func(f *models.FormValues) { f.SelectedRole = models.OtherRole; f.CustomRole = "" }},
		{"context", func(f *models.FormValues) { f.Context = "\n\t" }},
		{"outcome", func(f *models.FormValues) { f.Outcome = "" }},
	}

	for _, tt := range blank {
		t.Run(tt.name, func(t *testing.T) {
			form := completeForm()
			tt.mutate(&form)

			err := ValidateInput(NewPromptInput(form))
			assert.ErrorIs(t, err, ErrIncompleteForm)

			var formErr *FormError
			assert.True(t, errors.As(err, &formErr))
			assert.Equal(t, []string{tt.name}, formErr.Missing)
		})
	}
}

func TestValidateInputInvalidTone(t *testing.T) {
	form := completeForm()
	form.Tone = "Sarcastic"

	err := ValidateInput(NewPromptInput(form))
	assert.ErrorIs(t, err, ErrInvalidTone)
	assert.False(t, errors.Is(err, ErrIncompleteForm))
}

func TestGenerateAppendsRecord(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewPromptService().WithClock(fixedClock)

	result, err := svc.Generate(context.Background(), st, completeForm())
	assert.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Equal(t, expectedPrompt, result.Prompt)

	records := st.Records()
	assert.Len(t, records, 1)
	assert.Equal(t, models.PromptRecord{
		Timestamp: "2024-05-01 09:30:05",
		User:      "a@b.com",
		Task:      "Write an email",
		Role:      "Software Engineer",
		Context:   "Client is unhappy",
		Outcome:   "An apology email",
		Tone:      "Professional",
		Prompt:    expectedPrompt,
	}, records[0])
}

func TestGenerateUsesCustomRole(t *testing.T) {
	st := store.NewMemoryStore()
	form := completeForm()
	form.SelectedRole = models.OtherRole
	form.CustomRole = "Travel Agent"

	result, err := NewPromptService().Generate(context.Background(), st, form)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Prompt, "Act as a travel agent."))
	assert.Equal(t, "Travel Agent", st.Records()[0].Role)
}

func TestGenerateIncompleteFormStoresNothing(t *testing.T) {
	st := store.NewMemoryStore()
	form := completeForm()
	form.Outcome = ""

	result, err := NewPromptService().Generate(context.Background(), st, form)
	assert.ErrorIs(t, err, ErrIncompleteForm)
	assert.Nil(t, result)
	assert.Empty(t, st.Records())
}

func TestGenerateKeepsPromptWhenAppendFails(t *testing.T) {
	st := store.NewMemoryStore()
	st.AppendErr = errors.New("quota exceeded")

	result, err := NewPromptService().Generate(context.Background(), st, completeForm())
	assert.NoError(t, err)
	assert.False(t, result.Saved)
	assert.EqualError(t, result.SaveErr, "quota exceeded")
	assert.Equal(t, expectedPrompt, result.Prompt)
}

func TestPreview(t *testing.T) {
	prompt, err := NewPromptService().Preview(completeForm())
	assert.NoError(t, err)
	assert.Equal(t, expectedPrompt, prompt)

	_, err = NewPromptService().Preview(models.EmptyForm())
	assert.ErrorIs(t, err, ErrIncompleteForm)
}

func TestHistoryMostRecentFirst(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewPromptService()
	ctx := context.Background()

	for _, user := range []string{"first", "second", "third"} {
		form := completeForm()
		form.User = user
		_, err := svc.Generate(ctx, st, form)
		assert.NoError(t, err)
	}

	h, err := svc.History(ctx, st, "")
	assert.NoError(t, err)
	assert.Equal(t, models.Columns, h.Columns)
	assert.Equal(t, 3, h.Total)
	assert.Len(t, h.Rows, 3)
	assert.Equal(t, "third", h.Rows[0].Fields["User"])
	assert.Equal(t, "first", h.Rows[2].Fields["User"])
}

func TestHistoryReadError(t *testing.T) {
	st := store.NewMemoryStore()
	st.ReadErr = errors.New("sheet unavailable")

	h, err := NewPromptService().History(context.Background(), st, "")
	assert.Nil(t, h)
	assert.ErrorContains(t, err, "sheet unavailable")
}
