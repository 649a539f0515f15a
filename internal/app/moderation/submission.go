package moderation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newCategoryOption is the category value the submission form sends when
// the user typed a category of their own into newCategory.
const newCategoryOption = "new"

// SubmitterPayload is the nested submitter object a client may send.
type SubmitterPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SubmissionPayload is the wire shape of POST /api/resources/submit.
//
// Two shapes are accepted. The nested shape carries a submittedBy object
// and the resource name in name. The flat shape (what the web form sends)
// carries the submitter in name/email and the resource in
// resourceName/resourceUrl.
type SubmissionPayload struct {
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	ResourceName string            `json:"resourceName"`
	URL          string            `json:"url"`
	ResourceURL  string            `json:"resourceUrl"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	NewCategory  string            `json:"newCategory"`
	SubmittedBy  *SubmitterPayload `json:"submittedBy"`
}

// Submission is the canonical input to Service.Submit.
type Submission struct {
	Name           string `validate:"required,max=200" field:"name"`
	Description    string `validate:"required,max=5000" field:"description"`
	URL            string `validate:"required,max=2048" field:"url"`
	Category       string `validate:"required,max=100" field:"category"`
	SubmitterName  string `validate:"required,max=200" field:"submittedBy.name"`
	SubmitterEmail string `validate:"required,max=320" field:"submittedBy.email"`
}

// Normalize converts either accepted payload shape into a Submission.
// A present submittedBy object wins over the flat name/email fields.
func (p SubmissionPayload) Normalize() Submission {
	var s Submission

	if p.SubmittedBy != nil {
		s.SubmitterName = p.SubmittedBy.Name
		s.SubmitterEmail = p.SubmittedBy.Email
		s.Name = firstNonBlank(p.Name, p.ResourceName)
		s.URL = firstNonBlank(p.URL, p.ResourceURL)
	} else {
		s.SubmitterName = p.Name
		s.SubmitterEmail = p.Email
		s.Name = firstNonBlank(p.ResourceName, p.Name)
		s.URL = firstNonBlank(p.ResourceURL, p.URL)
	}

	s.Description = p.Description
	s.Category = strings.TrimSpace(p.Category)
	if strings.EqualFold(s.Category, newCategoryOption) && strings.TrimSpace(p.NewCategory) != "" {
		s.Category = p.NewCategory
	}

	return s.trimmed()
}

func (s Submission) trimmed() Submission {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
	s.URL = strings.TrimSpace(s.URL)
	s.Category = strings.TrimSpace(s.Category)
	s.SubmitterName = strings.TrimSpace(s.SubmitterName)
	s.SubmitterEmail = strings.TrimSpace(s.SubmitterEmail)
	return s
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("field"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// validateSubmission returns the first failing field as a *ValidationError,
// in declaration order.
func validateSubmission(v *validator.Validate, s Submission) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: fe.Field(), Message: fe.Field() + " is required"}
	case "max":
		return &ValidationError{Field: fe.Field(), Message: fe.Field() + " must be at most " + fe.Param() + " characters"}
	default:
		return &ValidationError{Field: fe.Field(), Message: fe.Field() + " is invalid"}
	}
}
