package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"learnflow/learnflow/apperr"
	"learnflow/learnflow/config"
	"learnflow/learnflow/controllers"
	"learnflow/learnflow/middlewares"
	"learnflow/learnflow/sources/psql/models"
	"learnflow/learnflow/sources/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10MB cap per file

type createNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Subject string   `json:"subject"`
	Tags    []string `json:"tags"`
}

type updateNoteRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Subject *string   `json:"subject"`
	Tags    *[]string `json:"tags"`
}

func noteID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.Validation, "Invalid note id", err)
	}
	return id, nil
}

// intQuery parses a query parameter, falling back on absent or
// non-numeric values.
func intQuery(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}

func NotesRoutes(
	notes *controllers.NotesController,
	stats *controllers.StatsController,
	flashcards *controllers.FlashcardsController,
	store storage.Store,
	cfg config.Config,
) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// List / filter / paginate
		gr.Get("/", func(w http.ResponseWriter, r *http.Request) {
			callerID, _ := middlewares.CallerID(r)
			page, err := notes.List(r.Context(), callerID, controllers.ListFilters{
				Page:    intQuery(r, "page", 0),
				Limit:   intQuery(r, "limit", 0),
				Subject: r.URL.Query().Get("subject"),
				Tag:     r.URL.Query().Get("tag"),
				Query:   r.URL.Query().Get("q"),
			})
			if err != nil {
				writeError(w, err)
				return
			}
			writeList(w, http.StatusOK, page.Notes, len(page.Notes), page.Total, page.Pages)
		})

		// Text search, capped at 10
		gr.Get("/search", func(w http.ResponseWriter, r *http.Request) {
			callerID, _ := middlewares.CallerID(r)
			found, err := notes.Search(r.Context(), callerID, r.URL.Query().Get("q"))
			if err != nil {
				writeError(w, err)
				return
			}
			count := len(found)
			writeJSON(w, http.StatusOK, envelope{Success: true, Data: found, Count: &count})
		})

		// Per-subject statistics
		gr.Get("/stats", handle(func(r *http.Request) (any, int, error) {
			callerID, _ := middlewares.CallerID(r)
			s, err := stats.Stats(r.Context(), callerID)
			if err != nil {
				return nil, 0, err
			}
			return s, http.StatusOK, nil
		}))

		// Create
		gr.Post("/", handle(func(r *http.Request) (any, int, error) {
			callerID, _ := middlewares.CallerID(r)
			var req createNoteRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, 0, apperr.Wrap(apperr.Validation, "Invalid request body", err)
			}
			note, err := notes.Create(r.Context(), callerID, req.Title, req.Content, req.Subject, req.Tags)
			if err != nil {
				return nil, 0, err
			}
			return note, http.StatusCreated, nil
		}))

		// Get one
		gr.Get("/{id}", handle(func(r *http.Request) (any, int, error) {
			callerID, _ := middlewares.CallerID(r)
			id, err := noteID(r)
			if err != nil {
				return nil, 0, err
			}
			note, err := notes.Get(r.Context(), callerID, id)
			if err != nil {
				return nil, 0, err
			}
			return note, http.StatusOK, nil
		}))

		// Update
		gr.Put("/{id}", handle(func(r *http.Request) (any, int, error) {
			callerID, _ := middlewares.CallerID(r)
			id, err := noteID(r)
			if err != nil {
				return nil, 0, err
			}
			var req updateNoteRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, 0, apperr.Wrap(apperr.Validation, "Invalid request body", err)
			}
			note, err := notes.Update(r.Context(), callerID, id, controllers.NoteUpdate{
				Title:   req.Title,
				Content: req.Content,
				Subject: req.Subject,
				Tags:    req.Tags,
			})
			if err != nil {
				return nil, 0, err
			}
			return note, http.StatusOK, nil
		}))

		// Delete
		gr.Delete("/{id}", handle(func(r *http.Request) (any, int, error) {
			callerID, _ := middlewares.CallerID(r)
			id, err := noteID(r)
			if err != nil {
				return nil, 0, err
			}
			if err := notes.Delete(r.Context(), callerID, id); err != nil {
				return nil, 0, err
			}
			return map[string]any{}, http.StatusOK, nil
		}))

		// Flashcard generation
		gr.Post("/{id}/generate-flashcards", handle(func(r *http.Request) (any, int, error) {
			callerID, _ := middlewares.CallerID(r)
			id, err := noteID(r)
			if err != nil {
				return nil, 0, err
			}
			note, err := flashcards.GenerateFlashcards(r.Context(), callerID, id)
			if err != nil {
				return nil, 0, err
			}
			return note, http.StatusOK, nil
		}))

		// Multipart attachment upload
		gr.Post("/{id}/upload", handle(func(r *http.Request) (any, int, error) {
			callerID, _ := middlewares.CallerID(r)
			id, err := noteID(r)
			if err != nil {
				return nil, 0, err
			}
			// Ownership is checked before the file hits the store so a
			// rejected upload leaves nothing behind.
			if _, err := notes.Get(r.Context(), callerID, id); err != nil {
				return nil, 0, err
			}
			r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)
			file, header, err := r.FormFile("file")
			if err != nil {
				return nil, 0, apperr.Wrap(apperr.Validation, "No file uploaded", err)
			}
			defer file.Close()

			url, err := store.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
			if err != nil {
				return nil, 0, apperr.Wrap(apperr.Internal, "File upload failed", err)
			}
			note, err := notes.AttachFile(r.Context(), callerID, id, models.Attachment{
				URL:  url,
				Name: header.Filename,
				Type: header.Header.Get("Content-Type"),
			})
			if err != nil {
				return nil, 0, err
			}
			return map[string]any{"file_url": url, "note": note}, http.StatusOK, nil
		}))
	})
	return r
}
