package routes

import (
	"encoding/json"
	"net/http"

	"learnflow/learnflow/apperr"
	"learnflow/learnflow/controllers"

	"github.com/go-chi/chi/v5"
)

type askRequest struct {
	Question string `json:"question"`
}

// AskRoutes exposes the unauthenticated AI Q&A pass-through; it rides on
// the global rate limit only.
func AskRoutes(ctrl *controllers.FlashcardsController) chi.Router {
	r := chi.NewRouter()
	r.Post("/", handle(func(r *http.Request) (any, int, error) {
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, 0, apperr.Wrap(apperr.Validation, "Invalid question format", err)
		}
		answer, err := ctrl.Ask(r.Context(), req.Question)
		if err != nil {
			return nil, 0, err
		}
		return map[string]string{"answer": answer}, http.StatusOK, nil
	}))
	return r
}
