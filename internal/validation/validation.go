// Package validation checks inbound request payloads and turns them into typed records.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/contactdesk/contactdesk/internal/model"
)

const (
	msgNameRequired     = "Имя обязательно"
	msgEmailInvalid     = "Некорректный email"
	msgSubjectInvalid   = "Выберите тему обращения"
	msgMessageTooShort  = "Сообщение должно содержать минимум 50 символов"
	msgMessageTooLong   = "Сообщение не должно превышать 1000 символов"
	msgMessageEmpty     = "Сообщение не может быть пустым"
	msgUserNameRequired = "Имя пользователя обязательно"
)

// Message length bounds, counted in Unicode code points.
const (
	MinMessageLength = 50
	MaxMessageLength = 1000
)

// FieldError describes one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned when input fails one or more rules.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, ", ")
}

// ContactFormInput is the raw contact form payload.
type ContactFormInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,subject"`
	Message string `json:"message" validate:"min=50,max=1000"`
}

// ContactForm is a contact form that passed validation.
type ContactForm struct {
	Name    string
	Email   string
	Subject model.Subject
	Message string
}

// ImproveInput is the raw AI-improve payload.
type ImproveInput struct {
	Message  string `json:"message" validate:"required"`
	UserName string `json:"userName" validate:"required"`
}

// ImproveRequestData is an AI-improve request that passed validation.
type ImproveRequestData struct {
	Message  string
	UserName string
}

type nameQuery struct {
	Name string `json:"name" validate:"required"`
}

// messages maps "field.tag" to the user-facing message.
var messages = map[string]string{
	"ContactFormInput.name.required":    msgNameRequired,
	"ContactFormInput.email.required":   msgEmailInvalid,
	"ContactFormInput.email.email":      msgEmailInvalid,
	"ContactFormInput.subject.required": msgSubjectInvalid,
	"ContactFormInput.subject.subject":  msgSubjectInvalid,
	"ContactFormInput.message.min":      msgMessageTooShort,
	"ContactFormInput.message.max":      msgMessageTooLong,
	"ImproveInput.message.required":     msgMessageEmpty,
	"ImproveInput.userName.required":    msgUserNameRequired,
	"nameQuery.name.required":           msgUserNameRequired,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("subject", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseSubject(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}

	return v
}

// ParseContactForm validates a contact form and parses its subject.
func ParseContactForm(in ContactFormInput) (*ContactForm, error) {
	if err := check("ContactFormInput", in); err != nil {
		return nil, err
	}

	subject, _ := model.ParseSubject(in.Subject)
	return &ContactForm{
		Name:    in.Name,
		Email:   in.Email,
		Subject: subject,
		Message: in.Message,
	}, nil
}

// ParseImproveRequest validates an AI-improve request.
func ParseImproveRequest(in ImproveInput) (*ImproveRequestData, error) {
	if err := check("ImproveInput", in); err != nil {
		return nil, err
	}
	return &ImproveRequestData{Message: in.Message, UserName: in.UserName}, nil
}

// NameQuery validates the name query parameter used by read endpoints.
func NameQuery(name string) (string, error) {
	if err := check("nameQuery", nameQuery{Name: name}); err != nil {
		return "", err
	}
	return name, nil
}

func check(kind string, in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		msg, ok := messages[kind+"."+fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
