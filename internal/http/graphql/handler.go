package graphql

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	gql "github.com/graphql-go/graphql"

	"github.com/planora/planora-api/internal/apperr"
	"github.com/planora/planora-api/internal/lib/sl"
)

// Request тело GraphQL-запроса.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// NewHandler возвращает HTTP-обработчик GraphQL-эндпоинта. Каждая
// ошибка в ответе получает extensions.code и extensions.requestId;
// ошибки разбора запроса и схемы считаются ошибками входных данных.
func NewHandler(schema gql.Schema, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "graphql.Handler"
		reqID := middleware.GetReqID(r.Context())
		logg := log.With(
			slog.String("op", op),
			slog.String("request_id", reqID),
		)

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			logg.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]interface{}{
				"errors": []map[string]interface{}{{
					"message": "invalid request body",
					"extensions": map[string]interface{}{
						"code":      apperr.CodeBadUserInput,
						"requestId": reqID,
					},
				}},
			})
			return
		}

		result := gql.Do(gql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})

		for i := range result.Errors {
			if result.Errors[i].Extensions == nil {
				result.Errors[i].Extensions = map[string]interface{}{}
			}
			if _, ok := result.Errors[i].Extensions["code"]; !ok {
				result.Errors[i].Extensions["code"] = apperr.CodeBadUserInput
			}
			result.Errors[i].Extensions["requestId"] = reqID
		}

		render.JSON(w, r, result)
	}
}
