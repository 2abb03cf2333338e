package models

import "io"

// HomeCollege is the default college for submissions that do not carry one.
const HomeCollege = "Shivaji College"

// CollegeOther is the college selector value that requires a free-text name.
const CollegeOther = "Other"

// AcademicYears enumerates the accepted values for the year field.
var AcademicYears = []string{"1st Year", "2nd Year", "3rd Year"}

// Attachment is an uploaded identification document as it arrives in a
// multipart request. Content is read exactly once, by the file storage client.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// WorkshopRegistration is the JSON payload of the workshop flow.
type WorkshopRegistration struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	RollNo string `json:"rollNo"`
	Course string `json:"course"`
	Year   string `json:"year"`
	Phone  string `json:"phone"`
	Query  string `json:"query"`
}

// TeamMember is one additional participant of a team event. The JSON tags
// match the teamMember_i form fields the frontend submits.
type TeamMember struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	RollNo       string `json:"rollNo"`
	College      string `json:"college"`
	OtherCollege string `json:"otherCollege"`

	CollegeID Attachment `json:"-"`
}

// EventRegistration is the parsed multipart payload of the fest flow.
type EventRegistration struct {
	Name         string
	College      string
	OtherCollege string
	Event        string
	Email        string
	Phone        string
	RollNo       string
	Course       string
	Year         string
	Query        string

	CollegeID   Attachment
	TeamMembers []TeamMember
}

// CollegeName resolves the persisted college name for the lead registrant.
func (r EventRegistration) CollegeName() string {
	return ResolveCollege(r.College, r.OtherCollege)
}

// CollegeName resolves the persisted college name for a team member.
func (m TeamMember) CollegeName() string {
	return ResolveCollege(m.College, m.OtherCollege)
}

// ResolveCollege returns the free-text name when the selector is "Other".
func ResolveCollege(college, otherCollege string) string {
	if college == CollegeOther {
		return otherCollege
	}
	return college
}
