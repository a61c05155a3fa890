package models

import "time"

// TimestampLayout is the format of PromptRecord.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// OtherRole is the role selection that switches to the custom role field.
const OtherRole = "Other (specify below)"

// Roles lists the selectable roles in display order, OtherRole last.
var Roles = []string{
	"Marketing Analyst",
	"Software Engineer",
	"Customer Support Agent",
	"Sales Representative",
	"Data Scientist",
	"Content Writer",
	"Product Manager",
	OtherRole,
}

type Tone string

const (
	ToneProfessional Tone = "Professional"
	ToneCasual       Tone = "Casual"
	ToneCreative     Tone = "Creative"
	ToneTechnical    Tone = "Technical"
	ToneNeutral      Tone = "Neutral"
)

// DefaultTone is selected when no tone is given.
const DefaultTone = ToneProfessional

var Tones = []Tone{ToneProfessional, ToneCasual, ToneCreative, ToneTechnical, ToneNeutral}

// Columns is the header row of the prompt log, in storage order.
var Columns = []string{"Timestamp", "User", "Task", "Role", "Context", "Outcome", "Tone", "Prompt"}

// PromptRecord is one appended row of the prompt log.
type PromptRecord struct {
	ID        uint   `gorm:"primarykey" json:"-"`
	Timestamp string `gorm:"not null" json:"timestamp"`
	User      string `gorm:"not null" json:"user"`
	Task      string `gorm:"type:text;not null" json:"task"`
	Role      string `gorm:"not null" json:"role"`
	Context   string `gorm:"type:text;not null" json:"context"`
	Outcome   string `gorm:"type:text;not null" json:"outcome"`
	Tone      string `gorm:"not null" json:"tone"`
	Prompt    string `gorm:"type:text;not null" json:"prompt"`
}

func (PromptRecord) TableName() string {
	return "prompt_records"
}

// NewPromptRecord stamps the input and its generated prompt with t.
func NewPromptRecord(t time.Time, in PromptInput, prompt string) PromptRecord {
	return PromptRecord{
		Timestamp: t.Format(TimestampLayout),
		User:      in.User,
		Task:      in.Task,
		Role:      in.Role,
		Context:   in.Context,
		Outcome:   in.Outcome,
		Tone:      string(in.Tone),
		Prompt:    prompt,
	}
}

// Row returns the record's values in Columns order.
func (r PromptRecord) Row() []string {
	return []string{r.Timestamp, r.User, r.Task, r.Role, r.Context, r.Outcome, r.Tone, r.Prompt}
}
