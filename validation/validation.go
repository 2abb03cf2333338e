// Package validation holds the pure submission checks that run before any
// remote call is attempted.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/websters-shivaji/registration-system/models"
)

// MaxFileSize is the attachment size ceiling.
const MaxFileSize = 5 << 20 // 5 MiB

// AcceptedFileTypes is the attachment MIME allow-list.
var AcceptedFileTypes = []string{"image/jpeg", "image/jpg", "image/png", "application/pdf"}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._%+-]*@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// genericLocalParts rejects obviously fake addresses on the workshop flow,
// where the form asks for an institutional email.
var genericLocalParts = []string{
	"test", "example", "sample", "demo", "user", "admin", "info",
	"mail", "email", "no-reply", "noreply", "nobody", "fake", "xyz",
}

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the structured result of a failed validation. It satisfies error
// so services can return it unchanged.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the failing field names.
func (e Errors) Fields() []string {
	fields := make([]string, len(e))
	for i, fe := range e {
		fields[i] = fe.Field
	}
	return fields
}

// MissingWorkshopFields reports which required workshop fields are absent.
// This is the fast presence check that runs before full validation.
func MissingWorkshopFields(reg models.WorkshopRegistration) []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"email", reg.Email},
		{"name", reg.Name},
		{"rollNo", reg.RollNo},
		{"course", reg.Course},
		{"year", reg.Year},
		{"phone", reg.Phone},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// MissingEventFields reports which required fest fields are absent.
func MissingEventFields(reg models.EventRegistration) []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", reg.Name},
		{"college", reg.College},
		{"event", reg.Event},
		{"email", reg.Email},
		{"phone", reg.Phone},
		{"rollNo", reg.RollNo},
		{"course", reg.Course},
		{"year", reg.Year},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Workshop validates a workshop submission. The workshop form expects an
// institutional address, so generic local-parts are rejected on top of the
// format check.
func Workshop(reg models.WorkshopRegistration) Errors {
	var errs Errors
	errs = appendNameErrors(errs, "name", reg.Name)
	if !emailRegex.MatchString(reg.Email) {
		errs = append(errs, FieldError{"email", "invalid email address"})
	} else if isGenericLocalPart(reg.Email) {
		errs = append(errs, FieldError{"email", "please use your official institutional email address"})
	}
	errs = appendPhoneErrors(errs, "phone", reg.Phone)
	errs = appendRollNoErrors(errs, "rollNo", reg.RollNo)
	if len(reg.Course) < 2 {
		errs = append(errs, FieldError{"course", "course is required"})
	}
	if !validYear(reg.Year) {
		errs = append(errs, FieldError{"year", "year must be one of " + strings.Join(models.AcademicYears, ", ")})
	}
	if len(reg.Query) > 500 {
		errs = append(errs, FieldError{"query", "query must be at most 500 characters"})
	}
	return errs
}

// EventRegistration validates a fest submission: the lead registrant, the
// attachment constraints, the team-size bounds for the selected event and
// every team member.
func EventRegistration(reg models.EventRegistration) Errors {
	var errs Errors
	errs = appendNameErrors(errs, "name", reg.Name)
	if !emailRegex.MatchString(reg.Email) {
		errs = append(errs, FieldError{"email", "invalid email address"})
	}
	errs = appendPhoneErrors(errs, "phone", reg.Phone)
	errs = appendRollNoErrors(errs, "rollNo", reg.RollNo)
	errs = appendCollegeErrors(errs, "college", reg.College, reg.OtherCollege)
	if len(reg.Course) < 2 {
		errs = append(errs, FieldError{"course", "course is required"})
	}
	if !validYear(reg.Year) {
		errs = append(errs, FieldError{"year", "year must be one of " + strings.Join(models.AcademicYears, ", ")})
	}
	if len(reg.Query) > 500 {
		errs = append(errs, FieldError{"query", "query must be at most 500 characters"})
	}
	errs = appendAttachmentErrors(errs, "collegeId", reg.CollegeID)

	event, ok := models.FindEvent(reg.Event)
	if !ok {
		errs = append(errs, FieldError{"event", "unknown event"})
		return errs
	}

	min, max := event.TeamSize.Min-1, event.TeamSize.Max-1
	if len(reg.TeamMembers) < min {
		errs = append(errs, FieldError{
			"teamMembers",
			fmt.Sprintf("this event requires at least %d participants (including you)", event.TeamSize.Min),
		})
	}
	if len(reg.TeamMembers) > max {
		errs = append(errs, FieldError{
			"teamMembers",
			fmt.Sprintf("this event allows maximum %d participants (including you)", event.TeamSize.Max),
		})
	}

	for i, m := range reg.TeamMembers {
		prefix := fmt.Sprintf("teamMember_%d.", i)
		errs = appendNameErrors(errs, prefix+"name", m.Name)
		if !emailRegex.MatchString(m.Email) {
			errs = append(errs, FieldError{prefix + "email", "invalid email address"})
		}
		errs = appendPhoneErrors(errs, prefix+"phone", m.Phone)
		errs = appendRollNoErrors(errs, prefix+"rollNo", m.RollNo)
		errs = appendCollegeErrors(errs, prefix+"college", m.College, m.OtherCollege)
		errs = appendAttachmentErrors(errs, prefix+"collegeId", m.CollegeID)
	}
	return errs
}

// Attachment checks the size and MIME constraints of one uploaded document.
// It must pass before any upload call is made.
func Attachment(a models.Attachment) *FieldError {
	if a.Content == nil || a.Size == 0 {
		return &FieldError{Message: "college ID is required"}
	}
	if a.Size > MaxFileSize {
		return &FieldError{Message: "max file size is 5MB"}
	}
	contentType := strings.ToLower(strings.TrimSpace(a.ContentType))
	for _, t := range AcceptedFileTypes {
		if contentType == t {
			return nil
		}
	}
	return &FieldError{Message: "only .jpg, .jpeg, .png and .pdf files are accepted"}
}

func appendAttachmentErrors(errs Errors, field string, a models.Attachment) Errors {
	if fe := Attachment(a); fe != nil {
		errs = append(errs, FieldError{field, fe.Message})
	}
	return errs
}

func appendNameErrors(errs Errors, field, name string) Errors {
	if len(name) < 2 {
		errs = append(errs, FieldError{field, "name is required"})
	} else if len(name) > 50 {
		errs = append(errs, FieldError{field, "name must be at most 50 characters"})
	}
	return errs
}

func appendPhoneErrors(errs Errors, field, phone string) Errors {
	if len(phone) != 10 {
		errs = append(errs, FieldError{field, "phone number must be exactly 10 digits"})
	} else if !phoneRegex.MatchString(phone) {
		errs = append(errs, FieldError{field, "please enter a valid Indian mobile number"})
	}
	return errs
}

func appendRollNoErrors(errs Errors, field, rollNo string) Errors {
	if len(rollNo) < 2 {
		errs = append(errs, FieldError{field, "roll no. is required"})
	} else if len(rollNo) > 20 {
		errs = append(errs, FieldError{field, "roll no. must be at most 20 characters"})
	}
	return errs
}

func appendCollegeErrors(errs Errors, field, college, otherCollege string) Errors {
	switch college {
	case models.HomeCollege:
	case models.CollegeOther:
		if len(strings.TrimSpace(otherCollege)) < 2 {
			errs = append(errs, FieldError{field, "college name is required"})
		}
	default:
		errs = append(errs, FieldError{field, "college must be " + models.HomeCollege + " or " + models.CollegeOther})
	}
	return errs
}

func validYear(year string) bool {
	for _, y := range models.AcademicYears {
		if year == y {
			return true
		}
	}
	return false
}

func isGenericLocalPart(email string) bool {
	localPart := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	for _, prefix := range genericLocalParts {
		if localPart == prefix ||
			strings.HasPrefix(localPart, prefix+".") ||
			strings.HasPrefix(localPart, prefix+"_") ||
			strings.HasPrefix(localPart, prefix+"-") {
			return true
		}
	}
	return false
}
