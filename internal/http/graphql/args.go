package graphql

import "github.com/planora/planora-api/internal/models"

// Хелперы для разбора аргументов GraphQL. Отсутствующие и нестроковые
// значения дают нулевое значение, проверки выполняет валидатор.

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func floatArg(args map[string]interface{}, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func stringPtrArg(args map[string]interface{}, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

func stringListArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

func inputArg(args map[string]interface{}) map[string]interface{} {
	if v, ok := args["input"].(map[string]interface{}); ok {
		return v
	}
	return map[string]interface{}{}
}

func decodeProfileUpdate(input map[string]interface{}) models.DummyProfileUpdate {
	return models.DummyProfileUpdate{
		Name:        stringPtrArg(input, "name"),
		ImageURL:    stringPtrArg(input, "imageUrl"),
		ImageThumb:  stringPtrArg(input, "imageThumb"),
		ImageSmall:  stringPtrArg(input, "imageSmall"),
		ImageMedium: stringPtrArg(input, "imageMedium"),
		Address:     stringPtrArg(input, "address"),
		DateOfBirth: stringPtrArg(input, "dateOfBirth"),
	}
}

func decodeMeetingInput(input map[string]interface{}) models.DummyMeeting {
	return models.DummyMeeting{
		Title:       stringArg(input, "title"),
		Description: stringArg(input, "description"),
		StartTime:   stringArg(input, "startTime"),
		EndTime:     stringArg(input, "endTime"),
		AttendeeIDs: stringListArg(input, "attendeeIds"),
	}
}

func decodeEventInput(input map[string]interface{}) models.DummyEvent {
	return models.DummyEvent{
		Title:       stringArg(input, "title"),
		Description: stringArg(input, "description"),
		Date:        stringArg(input, "date"),
		Price:       floatArg(input, "price"),
	}
}

func decodeEventFilter(args map[string]interface{}) models.DummyEventFilter {
	filter, ok := args["filter"].(map[string]interface{})
	if !ok {
		return models.DummyEventFilter{}
	}
	return models.DummyEventFilter{
		CreatedBy: stringArg(filter, "createdBy"),
		From:      stringArg(filter, "from"),
		To:        stringArg(filter, "to"),
	}
}
