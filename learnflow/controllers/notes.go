package controllers

import (
	"context"
	"math"
	"sort"
	"strings"

	"learnflow/learnflow/apperr"
	"learnflow/learnflow/sources/psql/dao"
	"learnflow/learnflow/sources/psql/models"

	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	searchCap    = 10

	// Title hits count more than content hits when ranking.
	titleWeight = 3
)

type NotesController struct {
	dao *dao.NoteDAO
}

func NewNotesController(dao *dao.NoteDAO) *NotesController {
	return &NotesController{dao: dao}
}

type ListFilters struct {
	Page    int
	Limit   int
	Subject string
	Tag     string
	Query   string
}

type NotePage struct {
	Notes []models.Note
	Total int64
	Pages int
}

// NoteUpdate carries the partial fields of an update; nil means "leave
// unchanged".
type NoteUpdate struct {
	Title   *string
	Content *string
	Subject *string
	Tags    *[]string
}

// List returns one page of the caller's notes, newest-first, or
// relevance-ordered when a text query is present. Filters AND together.
func (c *NotesController) List(ctx context.Context, userID int, f ListFilters) (*NotePage, error) {
	if f.Page <= 0 {
		f.Page = defaultPage
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	f.Tag = strings.ToLower(strings.TrimSpace(f.Tag))

	if q := strings.TrimSpace(f.Query); q != "" {
		ranked, err := c.rankedSearch(ctx, userID, q, f.Subject, f.Tag)
		if err != nil {
			return nil, err
		}
		total := int64(len(ranked))
		pages := int(math.Ceil(float64(total) / float64(f.Limit)))
		start := (f.Page - 1) * f.Limit
		if start > len(ranked) {
			start = len(ranked)
		}
		end := start + f.Limit
		if end > len(ranked) {
			end = len(ranked)
		}
		return &NotePage{Notes: ranked[start:end], Total: total, Pages: pages}, nil
	}

	notes, total, err := c.dao.ListNotes(ctx, userID, dao.ListFilter{
		Page:    f.Page,
		Limit:   f.Limit,
		Subject: f.Subject,
		Tag:     f.Tag,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	pages := int(math.Ceil(float64(total) / float64(f.Limit)))
	return &NotePage{Notes: notes, Total: total, Pages: pages}, nil
}

func (c *NotesController) Get(ctx context.Context, userID int, noteID uuid.UUID) (*models.Note, error) {
	note, err := c.dao.GetNoteByID(ctx, userID, noteID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	if note == nil {
		return nil, apperr.New(apperr.NotFound, "Note not found")
	}
	return note, nil
}

// Create stores a new note owned by the caller. Any owner supplied by
// the client is ignored.
func (c *NotesController) Create(ctx context.Context, userID int, title, content, subject string, tags []string) (*models.Note, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, apperr.New(apperr.Validation, "Title and content are required")
	}
	if subject == "" {
		subject = models.DefaultSubject
	}
	note := &models.Note{
		UserID:  userID,
		Title:   title,
		Content: content,
		Subject: subject,
		Tags:    models.NormalizeTags(tags),
	}
	if err := c.dao.CreateNote(ctx, note); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	return note, nil
}

func (c *NotesController) Update(ctx context.Context, userID int, noteID uuid.UUID, upd NoteUpdate) (*models.Note, error) {
	note, err := c.dao.GetNoteByID(ctx, userID, noteID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	if note == nil {
		return nil, apperr.New(apperr.NotFound, "Note not found")
	}
	if upd.Title != nil {
		note.Title = *upd.Title
	}
	if upd.Content != nil {
		note.Content = *upd.Content
	}
	if upd.Subject != nil {
		note.Subject = *upd.Subject
	}
	if upd.Tags != nil {
		note.Tags = models.NormalizeTags(*upd.Tags)
	}
	if strings.TrimSpace(note.Title) == "" || strings.TrimSpace(note.Content) == "" {
		return nil, apperr.New(apperr.Validation, "Title and content are required")
	}
	if note.Subject == "" {
		note.Subject = models.DefaultSubject
	}
	if err := c.dao.SaveNote(ctx, note); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	return note, nil
}

func (c *NotesController) Delete(ctx context.Context, userID int, noteID uuid.UUID) error {
	found, err := c.dao.DeleteNote(ctx, userID, noteID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	if !found {
		return apperr.New(apperr.NotFound, "Note not found")
	}
	return nil
}

// Search ranks the caller's notes by text relevance, capped at 10.
func (c *NotesController) Search(ctx context.Context, userID int, query string) ([]models.Note, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.New(apperr.Validation, "Search query required")
	}
	ranked, err := c.rankedSearch(ctx, userID, query, "", "")
	if err != nil {
		return nil, err
	}
	if len(ranked) > searchCap {
		ranked = ranked[:searchCap]
	}
	return ranked, nil
}

// AttachFile appends an uploaded attachment to an owned note.
func (c *NotesController) AttachFile(ctx context.Context, userID int, noteID uuid.UUID, att models.Attachment) (*models.Note, error) {
	note, err := c.dao.GetNoteByID(ctx, userID, noteID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	if note == nil {
		return nil, apperr.New(apperr.NotFound, "Note not found")
	}
	note.Attachments = append(note.Attachments, att)
	if err := c.dao.SaveNote(ctx, note); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	return note, nil
}

func (c *NotesController) rankedSearch(ctx context.Context, userID int, query, subject, tag string) ([]models.Note, error) {
	terms := strings.Fields(strings.ToLower(query))
	candidates, err := c.dao.SearchCandidates(ctx, userID, terms, subject, tag)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}

	type scored struct {
		note  models.Note
		score int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, note := range candidates {
		s := relevance(note, terms)
		if s > 0 {
			ranked = append(ranked, scored{note: note, score: s})
		}
	}
	// Candidates arrive newest-first; the stable sort keeps that order
	// among equal scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]models.Note, len(ranked))
	for i, s := range ranked {
		out[i] = s.note
	}
	return out, nil
}

// relevance is a term-frequency score over title and content.
func relevance(note models.Note, terms []string) int {
	title := strings.ToLower(note.Title)
	content := strings.ToLower(note.Content)
	score := 0
	for _, term := range terms {
		score += titleWeight*strings.Count(title, term) + strings.Count(content, term)
	}
	return score
}
