package model

import (
	"fmt"
	"time"
)

// Subject is the closed set of topics a contact form can be filed under.
// The zero value is not a valid subject.
type Subject uint8

const (
	SubjectGeneralInquiry Subject = iota + 1
	SubjectBugReport
	SubjectFeatureRequest
	SubjectBillingQuestion
)

// subjectLabels are the wire and storage representations, as shown in the UI.
var subjectLabels = map[Subject]string{
	SubjectGeneralInquiry:  "Общий запрос",
	SubjectBugReport:       "Сообщение об ошибке",
	SubjectFeatureRequest:  "Запрос функции",
	SubjectBillingQuestion: "Вопрос о выставлении счета",
}

// Subjects returns every valid subject in display order.
func Subjects() []Subject {
	return []Subject{
		SubjectGeneralInquiry,
		SubjectBugReport,
		SubjectFeatureRequest,
		SubjectBillingQuestion,
	}
}

// ParseSubject maps a label to its Subject. Matching is exact.
func ParseSubject(label string) (Subject, bool) {
	for s, l := range subjectLabels {
		if l == label {
			return s, true
		}
	}
	return 0, false
}

// IsValid reports whether s is one of the known subjects.
func (s Subject) IsValid() bool {
	_, ok := subjectLabels[s]
	return ok
}

// String returns the subject label.
func (s Subject) String() string {
	if l, ok := subjectLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("Subject(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Subject) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid subject %d", uint8(s))
	}
	return []byte(subjectLabels[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Subject) UnmarshalText(text []byte) error {
	parsed, ok := ParseSubject(string(text))
	if !ok {
		return fmt.Errorf("unknown subject %q", string(text))
	}
	*s = parsed
	return nil
}

// Submission is a single contact-form message. It is immutable once stored.
type Submission struct {
	ID        string    `json:"id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Subject   Subject   `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
