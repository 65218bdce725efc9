package prompt

import (
	"context"
	"fmt"
)

// Answer is one scripted reply. A nil Text or Yes means "no answer".
type Answer struct {
	Text *string
	Yes  *bool
}

// Text returns an Answer for Ask.
func Text(s string) Answer {
	return Answer{Text: &s}
}

// Yes returns an affirmative Answer for Confirm.
func Yes() Answer {
	v := true
	return Answer{Yes: &v}
}

// No returns a negative Answer for Confirm.
func No() Answer {
	v := false
	return Answer{Yes: &v}
}

// Decline returns an Answer that gives no answer to either call.
func Decline() Answer {
	return Answer{}
}

// Question records a prompt that was shown.
type Question struct {
	Kind     string // "ask" or "confirm"
	Question string
	Default  string
}

// Scripted replays a fixed sequence of answers and records every question.
// Running out of answers is an error.
type Scripted struct {
	answers []Answer
	Asked   []Question
}

// NewScripted creates a Scripted prompter.
func NewScripted(answers ...Answer) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) next() (Answer, error) {
	if len(s.answers) == 0 {
		return Answer{}, fmt.Errorf("scripted prompter: no answer left for question %d", len(s.Asked))
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

// Remaining returns the number of unused answers.
func (s *Scripted) Remaining() int {
	return len(s.answers)
}

// Ask returns the next scripted text answer.
func (s *Scripted) Ask(_ context.Context, question, def string) (string, bool, error) {
	s.Asked = append(s.Asked, Question{Kind: "ask", Question: question, Default: def})
	a, err := s.next()
	if err != nil {
		return "", false, err
	}
	if a.Text == nil || *a.Text == "" {
		return "", false, nil
	}
	return *a.Text, true, nil
}

// Confirm returns the next scripted decision.
func (s *Scripted) Confirm(_ context.Context, question string) (bool, bool, error) {
	s.Asked = append(s.Asked, Question{Kind: "confirm", Question: question})
	a, err := s.next()
	if err != nil {
		return false, false, err
	}
	if a.Yes == nil {
		return false, false, nil
	}
	return *a.Yes, true, nil
}

// Unattended answers without a user: every confirmation is accepted and
// every rename request is declined.
type Unattended struct{}

// Ask always declines.
func (Unattended) Ask(context.Context, string, string) (string, bool, error) {
	return "", false, nil
}

// Confirm always accepts.
func (Unattended) Confirm(context.Context, string) (bool, bool, error) {
	return true, true, nil
}
