package models

import (
	"fmt"
	"time"
)

// MaxTeamMembers is the number of team-member slots reserved in the fest
// sheet. Together with the lead registrant it covers the largest team size
// in the catalog.
const MaxTeamMembers = 3

// WorkshopEventName is the constant event column value of the workshop sheet.
const WorkshopEventName = "Workshop"

// WorkshopHeader is the header row of the workshop sheet, written once when
// the tab is created. WorkshopRow.Values must stay aligned with it.
var WorkshopHeader = []string{
	"Timestamp",
	"Email",
	"Name",
	"Roll No",
	"Course",
	"College",
	"Phone",
	"Event",
	"Year",
	"Query",
}

// EventHeader is the header row of the fest sheet: the lead registrant's
// columns followed by a fixed-width block per team-member slot.
var EventHeader = buildEventHeader()

func buildEventHeader() []string {
	header := []string{
		"Timestamp",
		"Email",
		"Name",
		"Roll No",
		"Course",
		"College",
		"Phone",
		"Event",
		"Year",
		"Query",
		"College ID URL",
	}
	slots := []string{"Name", "Email", "Phone", "Roll No", "College", "College ID URL"}
	for i := 1; i <= MaxTeamMembers; i++ {
		for _, col := range slots {
			header = append(header, fmt.Sprintf("Team Member %d %s", i, col))
		}
	}
	return header
}

// WorkshopRow is the persisted form of a workshop registration.
type WorkshopRow struct {
	Timestamp time.Time
	Email     string
	Name      string
	RollNo    string
	Course    string
	College   string
	Phone     string
	Event     string
	Year      string
	Query     string
}

// NewWorkshopRow builds the row for one validated workshop submission.
func NewWorkshopRow(reg WorkshopRegistration, ts time.Time) WorkshopRow {
	return WorkshopRow{
		Timestamp: ts,
		Email:     reg.Email,
		Name:      reg.Name,
		RollNo:    reg.RollNo,
		Course:    reg.Course,
		College:   HomeCollege,
		Phone:     reg.Phone,
		Event:     WorkshopEventName,
		Year:      reg.Year,
		Query:     reg.Query,
	}
}

// Values flattens the row in WorkshopHeader column order.
func (r WorkshopRow) Values() []interface{} {
	return []interface{}{
		r.Timestamp.Format(time.RFC3339),
		r.Email,
		r.Name,
		r.RollNo,
		r.Course,
		r.College,
		r.Phone,
		r.Event,
		r.Year,
		r.Query,
	}
}

// TeamSlot is one fixed-width team-member block of an EventRow. Unused slots
// stay zero-valued and serialize as blank cells.
type TeamSlot struct {
	Name         string
	Email        string
	Phone        string
	RollNo       string
	College      string
	CollegeIDURL string
}

// EventRow is the persisted form of a fest registration.
type EventRow struct {
	Timestamp    time.Time
	Email        string
	Name         string
	RollNo       string
	Course       string
	College      string
	Phone        string
	Event        string
	Year         string
	Query        string
	CollegeIDURL string
	Team         [MaxTeamMembers]TeamSlot
}

// NewEventRow builds the row for one validated fest submission. Team members
// fill slots in submission order; memberURLs is indexed the same way as
// reg.TeamMembers.
func NewEventRow(reg EventRegistration, collegeIDURL string, memberURLs []string, ts time.Time) EventRow {
	row := EventRow{
		Timestamp:    ts,
		Email:        reg.Email,
		Name:         reg.Name,
		RollNo:       reg.RollNo,
		Course:       reg.Course,
		College:      reg.CollegeName(),
		Phone:        reg.Phone,
		Event:        reg.Event,
		Year:         reg.Year,
		Query:        reg.Query,
		CollegeIDURL: collegeIDURL,
	}
	for i, m := range reg.TeamMembers {
		if i >= MaxTeamMembers {
			break
		}
		slot := TeamSlot{
			Name:    m.Name,
			Email:   m.Email,
			Phone:   m.Phone,
			RollNo:  m.RollNo,
			College: m.CollegeName(),
		}
		if i < len(memberURLs) {
			slot.CollegeIDURL = memberURLs[i]
		}
		row.Team[i] = slot
	}
	return row
}

// Values flattens the row in EventHeader column order. The result always has
// len(EventHeader) cells so the team block stays fixed-width.
func (r EventRow) Values() []interface{} {
	values := []interface{}{
		r.Timestamp.Format(time.RFC3339),
		r.Email,
		r.Name,
		r.RollNo,
		r.Course,
		r.College,
		r.Phone,
		r.Event,
		r.Year,
		r.Query,
		r.CollegeIDURL,
	}
	for _, slot := range r.Team {
		values = append(values,
			slot.Name,
			slot.Email,
			slot.Phone,
			slot.RollNo,
			slot.College,
			slot.CollegeIDURL,
		)
	}
	return values
}
