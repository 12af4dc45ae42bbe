package graphql

import (
	"github.com/google/uuid"
	gql "github.com/graphql-go/graphql"

	"github.com/planora/planora-api/internal/apperr"
	"github.com/planora/planora-api/internal/models"
)

// requireUUID проверяет, что аргумент-идентификатор является UUID,
// до похода в хранилище.
func requireUUID(field, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return apperr.Invalid(field, "must be a valid uuid")
	}
	return nil
}

func (r *Resolver) register(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.register"
	req := models.DummyRegister{
		Name:     stringArg(p.Args, "name"),
		Email:    stringArg(p.Args, "email"),
		Password: stringArg(p.Args, "password"),
	}
	if err := r.validate(req); err != nil {
		return nil, err
	}
	user, err := r.auth.Register(p.Context, req)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	return leanUserView(user), nil
}

func (r *Resolver) login(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.login"
	req := models.DummyLogin{
		Email:    stringArg(p.Args, "email"),
		Password: stringArg(p.Args, "password"),
	}
	if err := r.validate(req); err != nil {
		return nil, err
	}
	token, user, err := r.auth.Login(p.Context, req)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	return map[string]interface{}{
		"token": token,
		"user":  leanUserView(user),
	}, nil
}

func (r *Resolver) me(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.me"
	uid, _, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	profile, err := r.users.Profile(p.Context, uid)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	return userView(profile), nil
}

func (r *Resolver) updateMyProfile(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.updateMyProfile"
	uid, _, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	req := decodeProfileUpdate(inputArg(p.Args))
	if err := r.validate(req); err != nil {
		return nil, err
	}
	profile, err := r.users.UpdateProfile(p.Context, uid, req)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	return userView(profile), nil
}

func (r *Resolver) listUsers(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.users"
	if _, _, err := identity(p.Context); err != nil {
		return nil, err
	}
	users, err := r.users.List(p.Context)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	result := make([]interface{}, 0, len(users))
	for _, u := range users {
		result = append(result, userView(u))
	}
	return result, nil
}

func (r *Resolver) createMeeting(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.createMeeting"
	uid, _, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	req := decodeMeetingInput(inputArg(p.Args))
	if err := r.validate(req); err != nil {
		return nil, err
	}
	meeting, err := r.meetings.Create(p.Context, uid, req)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	return meetingView(meeting), nil
}

func (r *Resolver) updateMeeting(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.updateMeeting"
	uid, _, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	id := stringArg(p.Args, "id")
	if err := requireUUID("id", id); err != nil {
		return nil, err
	}
	req := decodeMeetingInput(inputArg(p.Args))
	if err := r.validate(req); err != nil {
		return nil, err
	}
	meeting, err := r.meetings.Update(p.Context, uid, id, req)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	return meetingView(meeting), nil
}

func (r *Resolver) deleteMeeting(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.deleteMeeting"
	uid, _, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	id := stringArg(p.Args, "id")
	if err := requireUUID("id", id); err != nil {
		return nil, err
	}
	deleted, err := r.meetings.Delete(p.Context, uid, id)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	return deleted, nil
}

func (r *Resolver) listMeetings(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.meetings"
	uid, role, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	meetings, err := r.meetings.List(p.Context, uid, role)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	result := make([]interface{}, 0, len(meetings))
	for _, m := range meetings {
		result = append(result, meetingView(m))
	}
	return result, nil
}

func (r *Resolver) createEvent(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.createEvent"
	uid, _, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	req := decodeEventInput(inputArg(p.Args))
	if err := r.validate(req); err != nil {
		return nil, err
	}
	event, err := r.events.Create(p.Context, uid, req)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	return eventView(event), nil
}

func (r *Resolver) updateEvent(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.updateEvent"
	uid, _, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	id := stringArg(p.Args, "id")
	if err := requireUUID("id", id); err != nil {
		return nil, err
	}
	req := decodeEventInput(inputArg(p.Args))
	if err := r.validate(req); err != nil {
		return nil, err
	}
	event, err := r.events.Update(p.Context, uid, id, req)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	return eventView(event), nil
}

func (r *Resolver) deleteEvent(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.deleteEvent"
	uid, _, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	id := stringArg(p.Args, "id")
	if err := requireUUID("id", id); err != nil {
		return nil, err
	}
	deleted, err := r.events.Delete(p.Context, uid, id)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	return deleted, nil
}

func (r *Resolver) listEvents(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.events"
	if _, _, err := identity(p.Context); err != nil {
		return nil, err
	}
	req := decodeEventFilter(p.Args)
	if err := r.validate(req); err != nil {
		return nil, err
	}
	events, err := r.events.List(p.Context, req)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	result := make([]interface{}, 0, len(events))
	for _, e := range events {
		result = append(result, eventView(e))
	}
	return result, nil
}

func (r *Resolver) bookEvent(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.bookEvent"
	uid, _, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	booking, err := r.bookings.Book(p.Context, uid, stringArg(p.Args, "eventId"))
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	return bookingView(booking), nil
}

func (r *Resolver) cancelBooking(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.cancelBooking"
	uid, _, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	id := stringArg(p.Args, "bookingId")
	if err := requireUUID("bookingId", id); err != nil {
		return nil, err
	}
	event, err := r.bookings.Cancel(p.Context, uid, id)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	return leanEventView(event), nil
}

func (r *Resolver) listBookings(p gql.ResolveParams) (interface{}, error) {
	const op = "graphql.bookings"
	uid, role, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	bookings, err := r.bookings.List(p.Context, uid, role)
	if err != nil {
		return nil, r.normalize(p.Context, op, err)
	}
	result := make([]interface{}, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, bookingView(b))
	}
	return result, nil
}
