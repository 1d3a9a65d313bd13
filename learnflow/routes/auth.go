package routes

import (
	"encoding/json"
	"net/http"

	"learnflow/learnflow/apperr"
	"learnflow/learnflow/config"
	"learnflow/learnflow/controllers"
	"learnflow/learnflow/middlewares"

	"github.com/go-chi/chi/v5"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type settingsRequest struct {
	Theme         *string `json:"theme"`
	Notifications *bool   `json:"notifications"`
}

func AuthRoutes(ctrl *controllers.AuthController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", handle(func(r *http.Request) (any, int, error) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, 0, apperr.Wrap(apperr.Validation, "Invalid request body", err)
		}
		user, token, err := ctrl.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			return nil, 0, err
		}
		return map[string]any{"user": user, "token": token}, http.StatusCreated, nil
	}))

	r.Post("/login", handle(func(r *http.Request) (any, int, error) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, 0, apperr.Wrap(apperr.Validation, "Invalid request body", err)
		}
		user, token, err := ctrl.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			return nil, 0, err
		}
		return map[string]any{"user": user, "token": token}, http.StatusOK, nil
	}))

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Get("/me", handle(func(r *http.Request) (any, int, error) {
			callerID, _ := middlewares.CallerID(r)
			user, err := ctrl.Me(r.Context(), callerID)
			if err != nil {
				return nil, 0, err
			}
			return user, http.StatusOK, nil
		}))

		gr.Put("/settings", handle(func(r *http.Request) (any, int, error) {
			callerID, _ := middlewares.CallerID(r)
			var req settingsRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, 0, apperr.Wrap(apperr.Validation, "Invalid request body", err)
			}
			user, err := ctrl.UpdateSettings(r.Context(), callerID, req.Theme, req.Notifications)
			if err != nil {
				return nil, 0, err
			}
			return user, http.StatusOK, nil
		}))

		gr.Delete("/me", handle(func(r *http.Request) (any, int, error) {
			callerID, _ := middlewares.CallerID(r)
			if err := ctrl.DeleteAccount(r.Context(), callerID); err != nil {
				return nil, 0, err
			}
			return map[string]any{}, http.StatusOK, nil
		}))
	})

	return r
}
