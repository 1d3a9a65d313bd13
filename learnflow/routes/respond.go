package routes

import (
	"encoding/json"
	"net/http"

	"learnflow/learnflow/apperr"
	"learnflow/learnflow/utils/logging"

	"go.uber.org/zap"
)

// envelope is the uniform response shape:
// { success, data?, count?, total?, pages?, error? }
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Total   *int64 `json:"total,omitempty"`
	Pages   *int   `json:"pages,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, status int, data any, count int, total int64, pages int) {
	writeJSON(w, status, envelope{Success: true, Data: data, Count: &count, Total: &total, Pages: &pages})
}

func writeError(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logging.ErrorLogger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, envelope{Success: false, Error: apperr.Message(err)})
}

// handle adapts a (data, status, error) func into an envelope-writing
// handler; controller errors carry their own status via apperr.
func handle(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, status, err := handler(r)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, status, data)
	}
}
