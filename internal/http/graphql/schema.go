package graphql

import (
	gql "github.com/graphql-go/graphql"
)

// NewSchema собирает исполняемую GraphQL-схему поверх резолвера.
// Даты в схеме — строки RFC3339, идентификаторы — строки UUID.
func NewSchema(r *Resolver) (gql.Schema, error) {
	var userType, eventType *gql.Object

	userType = gql.NewObject(gql.ObjectConfig{
		Name: "User",
		Fields: gql.FieldsThunk(func() gql.Fields {
			return gql.Fields{
				"uid":           &gql.Field{Type: gql.NewNonNull(gql.ID)},
				"email":         &gql.Field{Type: gql.NewNonNull(gql.String)},
				"name":          &gql.Field{Type: gql.NewNonNull(gql.String)},
				"role":          &gql.Field{Type: gql.NewNonNull(gql.String)},
				"imageUrl":      &gql.Field{Type: gql.String},
				"imageThumb":    &gql.Field{Type: gql.String},
				"imageSmall":    &gql.Field{Type: gql.String},
				"imageMedium":   &gql.Field{Type: gql.String},
				"address":       &gql.Field{Type: gql.String},
				"dateOfBirth":   &gql.Field{Type: gql.String},
				"createdEvents": &gql.Field{Type: gql.NewList(eventType)},
				"createdAt":     &gql.Field{Type: gql.NewNonNull(gql.String)},
				"updatedAt":     &gql.Field{Type: gql.NewNonNull(gql.String)},
			}
		}),
	})

	eventType = gql.NewObject(gql.ObjectConfig{
		Name: "Event",
		Fields: gql.FieldsThunk(func() gql.Fields {
			return gql.Fields{
				"id":          &gql.Field{Type: gql.NewNonNull(gql.ID)},
				"title":       &gql.Field{Type: gql.NewNonNull(gql.String)},
				"description": &gql.Field{Type: gql.NewNonNull(gql.String)},
				"date":        &gql.Field{Type: gql.NewNonNull(gql.String)},
				"price":       &gql.Field{Type: gql.NewNonNull(gql.Float)},
				"createdBy":   &gql.Field{Type: userType},
				"createdAt":   &gql.Field{Type: gql.NewNonNull(gql.String)},
				"updatedAt":   &gql.Field{Type: gql.NewNonNull(gql.String)},
			}
		}),
	})

	meetingType := gql.NewObject(gql.ObjectConfig{
		Name: "Meeting",
		Fields: gql.Fields{
			"id":          &gql.Field{Type: gql.NewNonNull(gql.ID)},
			"title":       &gql.Field{Type: gql.NewNonNull(gql.String)},
			"description": &gql.Field{Type: gql.NewNonNull(gql.String)},
			"startTime":   &gql.Field{Type: gql.NewNonNull(gql.String)},
			"endTime":     &gql.Field{Type: gql.NewNonNull(gql.String)},
			"attendees":   &gql.Field{Type: gql.NewList(userType)},
			"createdBy":   &gql.Field{Type: userType},
			"createdAt":   &gql.Field{Type: gql.NewNonNull(gql.String)},
			"updatedAt":   &gql.Field{Type: gql.NewNonNull(gql.String)},
		},
	})

	bookingType := gql.NewObject(gql.ObjectConfig{
		Name: "Booking",
		Fields: gql.Fields{
			"id":        &gql.Field{Type: gql.NewNonNull(gql.ID)},
			"event":     &gql.Field{Type: eventType},
			"user":      &gql.Field{Type: userType},
			"createdAt": &gql.Field{Type: gql.NewNonNull(gql.String)},
			"updatedAt": &gql.Field{Type: gql.NewNonNull(gql.String)},
		},
	})

	authPayloadType := gql.NewObject(gql.ObjectConfig{
		Name: "AuthPayload",
		Fields: gql.Fields{
			"token": &gql.Field{Type: gql.NewNonNull(gql.String)},
			"user":  &gql.Field{Type: userType},
		},
	})

	profileUpdateInput := gql.NewInputObject(gql.InputObjectConfig{
		Name: "ProfileUpdateInput",
		Fields: gql.InputObjectConfigFieldMap{
			"name":        &gql.InputObjectFieldConfig{Type: gql.String},
			"imageUrl":    &gql.InputObjectFieldConfig{Type: gql.String},
			"imageThumb":  &gql.InputObjectFieldConfig{Type: gql.String},
			"imageSmall":  &gql.InputObjectFieldConfig{Type: gql.String},
			"imageMedium": &gql.InputObjectFieldConfig{Type: gql.String},
			"address":     &gql.InputObjectFieldConfig{Type: gql.String},
			"dateOfBirth": &gql.InputObjectFieldConfig{Type: gql.String},
		},
	})

	meetingInput := gql.NewInputObject(gql.InputObjectConfig{
		Name: "MeetingInput",
		Fields: gql.InputObjectConfigFieldMap{
			"title":       &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
			"description": &gql.InputObjectFieldConfig{Type: gql.String},
			"startTime":   &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
			"endTime":     &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
			"attendeeIds": &gql.InputObjectFieldConfig{Type: gql.NewList(gql.NewNonNull(gql.ID))},
		},
	})

	eventInput := gql.NewInputObject(gql.InputObjectConfig{
		Name: "EventInput",
		Fields: gql.InputObjectConfigFieldMap{
			"title":       &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
			"description": &gql.InputObjectFieldConfig{Type: gql.String},
			"date":        &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
			"price":       &gql.InputObjectFieldConfig{Type: gql.Float},
		},
	})

	eventFilterInput := gql.NewInputObject(gql.InputObjectConfig{
		Name: "EventFilterInput",
		Fields: gql.InputObjectConfigFieldMap{
			"createdBy": &gql.InputObjectFieldConfig{Type: gql.ID},
			"from":      &gql.InputObjectFieldConfig{Type: gql.String},
			"to":        &gql.InputObjectFieldConfig{Type: gql.String},
		},
	})

	queryType := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"me": &gql.Field{
				Type:    userType,
				Resolve: r.me,
			},
			"users": &gql.Field{
				Type:    gql.NewList(userType),
				Resolve: r.listUsers,
			},
			"meetings": &gql.Field{
				Type:    gql.NewList(meetingType),
				Resolve: r.listMeetings,
			},
			"events": &gql.Field{
				Type: gql.NewList(eventType),
				Args: gql.FieldConfigArgument{
					"filter": &gql.ArgumentConfig{Type: eventFilterInput},
				},
				Resolve: r.listEvents,
			},
			"bookings": &gql.Field{
				Type:    gql.NewList(bookingType),
				Resolve: r.listBookings,
			},
		},
	})

	mutationType := gql.NewObject(gql.ObjectConfig{
		Name: "Mutation",
		Fields: gql.Fields{
			"register": &gql.Field{
				Type: userType,
				Args: gql.FieldConfigArgument{
					"name":     &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"email":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"password": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: r.register,
			},
			"login": &gql.Field{
				Type: authPayloadType,
				Args: gql.FieldConfigArgument{
					"email":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"password": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: r.login,
			},
			"updateMyProfile": &gql.Field{
				Type: userType,
				Args: gql.FieldConfigArgument{
					"input": &gql.ArgumentConfig{Type: gql.NewNonNull(profileUpdateInput)},
				},
				Resolve: r.updateMyProfile,
			},
			"createMeeting": &gql.Field{
				Type: meetingType,
				Args: gql.FieldConfigArgument{
					"input": &gql.ArgumentConfig{Type: gql.NewNonNull(meetingInput)},
				},
				Resolve: r.createMeeting,
			},
			"updateMeeting": &gql.Field{
				Type: meetingType,
				Args: gql.FieldConfigArgument{
					"id":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
					"input": &gql.ArgumentConfig{Type: gql.NewNonNull(meetingInput)},
				},
				Resolve: r.updateMeeting,
			},
			"deleteMeeting": &gql.Field{
				Type: gql.NewNonNull(gql.Boolean),
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: r.deleteMeeting,
			},
			"createEvent": &gql.Field{
				Type: eventType,
				Args: gql.FieldConfigArgument{
					"input": &gql.ArgumentConfig{Type: gql.NewNonNull(eventInput)},
				},
				Resolve: r.createEvent,
			},
			"updateEvent": &gql.Field{
				Type: eventType,
				Args: gql.FieldConfigArgument{
					"id":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
					"input": &gql.ArgumentConfig{Type: gql.NewNonNull(eventInput)},
				},
				Resolve: r.updateEvent,
			},
			"deleteEvent": &gql.Field{
				Type: gql.NewNonNull(gql.Boolean),
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: r.deleteEvent,
			},
			"bookEvent": &gql.Field{
				Type: bookingType,
				Args: gql.FieldConfigArgument{
					"eventId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: r.bookEvent,
			},
			"cancelBooking": &gql.Field{
				Type: eventType,
				Args: gql.FieldConfigArgument{
					"bookingId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: r.cancelBooking,
			},
		},
	})

	return gql.NewSchema(gql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
