package storage

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

// Role prefixes used in generated attachment names.
const (
	RoleMainParticipant = "Main_Participant"
)

// TeamMemberRole returns the role prefix for the team member at the given
// zero-based submission index.
func TeamMemberRole(index int) string {
	return fmt.Sprintf("Team_Member_%d", index+1)
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// AttachmentName builds a human-traceable object name from the event, the
// uploader's role, their name and college, and the upload date, keeping the
// original file extension. Characters outside a safe set are replaced; the
// store's own identifier is authoritative, so collisions here are harmless.
func AttachmentName(eventName, role, participant, college, originalName string, now time.Time) string {
	ext := path.Ext(originalName)
	name := fmt.Sprintf("%s_%s_%s_%s_%s%s",
		eventName, role, participant, college, now.Format("2006-01-02"), ext)
	return unsafeNameChars.ReplaceAllString(name, "_")
}
