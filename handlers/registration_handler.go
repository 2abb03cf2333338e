package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/websters-shivaji/registration-system/models"
	"github.com/websters-shivaji/registration-system/services"
)

// maxMultipartMemory bounds how much of a fest submission is buffered in
// memory; larger parts spill to temp files.
const maxMultipartMemory = 32 << 20

// RegistrationHandler exposes the two registration flows over HTTP.
type RegistrationHandler struct {
	workshop *services.WorkshopService
	events   *services.EventService
	logger   *slog.Logger
}

// NewRegistrationHandler builds the handler for both flows.
func NewRegistrationHandler(workshop *services.WorkshopService, events *services.EventService, logger *slog.Logger) *RegistrationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationHandler{
		workshop: workshop,
		events:   events,
		logger:   logger,
	}
}

// RegisterWorkshop handles POST /registration/workshop (JSON body).
func (h *RegistrationHandler) RegisterWorkshop(w http.ResponseWriter, r *http.Request) {
	var reg models.WorkshopRegistration
	if err := readJSON(w, r, &reg); err != nil {
		badRequestResponse(w, r, fmt.Errorf("%w: %s", services.ErrInvalidPayload, err))
		return
	}

	timestamp, err := h.workshop.Register(r.Context(), reg)
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	response := jsonResponse{
		"success":   true,
		"message":   "Registration successful",
		"timestamp": timestamp.Format(time.RFC3339),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

// RegisterEvent handles POST /registration/event (multipart form with
// collegeId files for the lead registrant and each team member).
func (h *RegistrationHandler) RegisterEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		badRequestResponse(w, r, fmt.Errorf("%w: %s", services.ErrInvalidPayload, err))
		return
	}

	reg, closeFiles, err := parseEventForm(r)
	defer closeFiles()
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.events.Register(r.Context(), reg); err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"message": "Registration successful",
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

// parseEventForm extracts the fest registration from the multipart form.
// Team members arrive as teamMember_i JSON fields with a matching
// teamMember_i_collegeId file part, in submission order.
func parseEventForm(r *http.Request) (models.EventRegistration, func(), error) {
	reg := models.EventRegistration{
		Name:         r.FormValue("name"),
		College:      r.FormValue("college"),
		OtherCollege: r.FormValue("otherCollege"),
		Event:        r.FormValue("event"),
		Email:        r.FormValue("email"),
		Phone:        r.FormValue("phone"),
		RollNo:       r.FormValue("rollNo"),
		Course:       r.FormValue("course"),
		Year:         r.FormValue("year"),
		Query:        r.FormValue("query"),
	}

	var open []multipart.File
	closeFiles := func() {
		for _, f := range open {
			f.Close()
		}
	}

	if file, header, err := r.FormFile("collegeId"); err == nil {
		open = append(open, file)
		reg.CollegeID = attachmentFromPart(file, header)
	}

	for i := 0; ; i++ {
		raw := r.FormValue(fmt.Sprintf("teamMember_%d", i))
		if raw == "" {
			break
		}
		var member models.TeamMember
		if err := json.Unmarshal([]byte(raw), &member); err != nil {
			return reg, closeFiles, fmt.Errorf("%w: malformed teamMember_%d", services.ErrInvalidPayload, i)
		}
		if file, header, err := r.FormFile(fmt.Sprintf("teamMember_%d_collegeId", i)); err == nil {
			open = append(open, file)
			member.CollegeID = attachmentFromPart(file, header)
		}
		reg.TeamMembers = append(reg.TeamMembers, member)
	}

	return reg, closeFiles, nil
}

func attachmentFromPart(file multipart.File, header *multipart.FileHeader) models.Attachment {
	return models.Attachment{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}
}
