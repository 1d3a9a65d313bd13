package controllers

import (
	"context"
	"encoding/json"
	"strings"

	"learnflow/learnflow/apperr"
	"learnflow/learnflow/services/ai"
	"learnflow/learnflow/sources/psql/dao"
	"learnflow/learnflow/sources/psql/models"
	"learnflow/learnflow/utils/jsonutils"
	"learnflow/learnflow/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const flashcardPrompt = "You are a flashcard generator for students. " +
	"Extract the key facts from the following note and return ONLY a JSON array " +
	`of objects with "question" and "answer" string fields, no prose:` + "\n\n"

// Chatter is the outbound completion call the gateway depends on.
type Chatter interface {
	Chat(ctx context.Context, messages []ai.Message) (string, error)
}

type FlashcardsController struct {
	noteDAO *dao.NoteDAO
	chat    Chatter
}

func NewFlashcardsController(noteDAO *dao.NoteDAO, chat Chatter) *FlashcardsController {
	return &FlashcardsController{noteDAO: noteDAO, chat: chat}
}

// GenerateFlashcards sends the note content upstream and persists the
// parsed flashcards onto the note in one write. Any upstream or parse
// failure leaves the note untouched.
func (c *FlashcardsController) GenerateFlashcards(ctx context.Context, userID int, noteID uuid.UUID) (*models.Note, error) {
	note, err := c.noteDAO.GetNoteByID(ctx, userID, noteID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	if note == nil {
		return nil, apperr.New(apperr.NotFound, "Note not found")
	}

	out, err := c.complete(ctx, flashcardPrompt+note.Content)
	if err != nil {
		return nil, err
	}
	var cards []models.Flashcard
	if err := json.Unmarshal([]byte(jsonutils.ExtractJSON(out)), &cards); err != nil {
		logging.ErrorLogger.Error("flashcard output parse error", zap.Error(err), zap.String("raw", out))
		return nil, apperr.Wrap(apperr.AIUnavailable, "AI service unavailable", err)
	}

	note.Flashcards = cards
	note.AIGenerated = true
	note.AIModel = ai.Model
	if err := c.noteDAO.SaveNote(ctx, note); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	return note, nil
}

// Ask is the stateless free-text Q&A pass-through.
func (c *FlashcardsController) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apperr.New(apperr.Validation, "Invalid question format")
	}
	return c.complete(ctx, question)
}

// complete runs a single-attempt completion. Upstream detail goes to the
// error log only; callers see a generic unavailable message.
func (c *FlashcardsController) complete(ctx context.Context, prompt string) (string, error) {
	out, err := c.chat.Chat(ctx, []ai.Message{{Role: "user", Content: prompt}})
	if err != nil {
		logging.ErrorLogger.Error("ai upstream error", zap.Error(err))
		return "", apperr.Wrap(apperr.AIUnavailable, "AI service unavailable", err)
	}
	return out, nil
}
