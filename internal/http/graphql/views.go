package graphql

import (
	"time"

	"github.com/planora/planora-api/internal/models"
)

// Представления ответа: доменные структуры приводятся к map с ключами
// полей схемы. Даты отдаются строками RFC3339, хэш пароля наружу
// не попадает.

func timeView(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func strPtrView(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func dateOfBirthView(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func leanUserView(u *models.User) map[string]interface{} {
	if u == nil {
		return nil
	}
	return map[string]interface{}{
		"uid":           u.UID,
		"email":         u.Email,
		"name":          u.Name,
		"role":          u.Role,
		"imageUrl":      strPtrView(u.ImageURL),
		"imageThumb":    strPtrView(u.ImageThumb),
		"imageSmall":    strPtrView(u.ImageSmall),
		"imageMedium":   strPtrView(u.ImageMedium),
		"address":       strPtrView(u.Address),
		"dateOfBirth":   dateOfBirthView(u.DateOfBirth),
		"createdEvents": []interface{}{},
		"createdAt":     timeView(u.CreatedAt),
		"updatedAt":     timeView(u.UpdatedAt),
	}
}

func userView(pu *models.PopulatedUser) map[string]interface{} {
	if pu == nil {
		return nil
	}
	view := leanUserView(pu.User)
	events := make([]interface{}, 0, len(pu.CreatedEvents))
	for _, e := range pu.CreatedEvents {
		events = append(events, leanEventView(e))
	}
	view["createdEvents"] = events
	return view
}

func leanEventView(e *models.Event) map[string]interface{} {
	if e == nil {
		return nil
	}
	return map[string]interface{}{
		"id":          e.ID,
		"title":       e.Title,
		"description": e.Description,
		"date":        timeView(e.Date),
		"price":       e.Price,
		"createdBy":   nil,
		"createdAt":   timeView(e.CreatedAt),
		"updatedAt":   timeView(e.UpdatedAt),
	}
}

func eventView(pe *models.PopulatedEvent) map[string]interface{} {
	if pe == nil {
		return nil
	}
	view := leanEventView(pe.Event)
	view["createdBy"] = leanUserView(pe.Creator)
	return view
}

func meetingView(pm *models.PopulatedMeeting) map[string]interface{} {
	if pm == nil {
		return nil
	}
	attendees := make([]interface{}, 0, len(pm.AttendeeUsers))
	for _, u := range pm.AttendeeUsers {
		attendees = append(attendees, leanUserView(u))
	}
	return map[string]interface{}{
		"id":          pm.Meeting.ID,
		"title":       pm.Meeting.Title,
		"description": pm.Meeting.Description,
		"startTime":   timeView(pm.Meeting.StartTime),
		"endTime":     timeView(pm.Meeting.EndTime),
		"attendees":   attendees,
		"createdBy":   leanUserView(pm.Creator),
		"createdAt":   timeView(pm.Meeting.CreatedAt),
		"updatedAt":   timeView(pm.Meeting.UpdatedAt),
	}
}

func bookingView(pb *models.PopulatedBooking) map[string]interface{} {
	if pb == nil {
		return nil
	}
	return map[string]interface{}{
		"id":        pb.Booking.ID,
		"event":     leanEventView(pb.Event),
		"user":      leanUserView(pb.User),
		"createdAt": timeView(pb.Booking.CreatedAt),
		"updatedAt": timeView(pb.Booking.UpdatedAt),
	}
}
