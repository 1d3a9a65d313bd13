package controllers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"learnflow/learnflow/apperr"
	"learnflow/learnflow/sources/psql/dao"
	"learnflow/learnflow/sources/psql/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedNote(t *testing.T, db *gorm.DB, userID int, title, content, subject string, tags []string, age time.Duration) *models.Note {
	t.Helper()
	note := &models.Note{
		UserID:    userID,
		Title:     title,
		Content:   content,
		Subject:   subject,
		Tags:      tags,
		CreatedAt: time.Now().Add(-age),
	}
	require.NoError(t, db.Create(note).Error)
	return note
}

func TestCreateForcesOwnerAndNormalizesTags(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewNotesController(dao.NewNoteDAO(db))
	user := seedUser(t, db, "owner@example.com")
	ctx := context.Background()

	note, err := ctrl.Create(ctx, user.ID, "Cell biology", "Mitochondria are organelles.", "", []string{"  Biology ", "CELLS", "  "})
	require.NoError(t, err)
	assert.Equal(t, user.ID, note.UserID)
	assert.Equal(t, "other", note.Subject)
	assert.Equal(t, []string{"biology", "cells"}, note.Tags)

	// Round-trip through storage.
	stored, err := ctrl.Get(ctx, user.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"biology", "cells"}, stored.Tags)
}

func TestCreateRequiresTitleAndContent(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewNotesController(dao.NewNoteDAO(db))
	user := seedUser(t, db, "owner@example.com")

	_, err := ctrl.Create(context.Background(), user.ID, "  ", "content", "", nil)
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = ctrl.Create(context.Background(), user.ID, "title", "", "", nil)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewNotesController(dao.NewNoteDAO(db))
	user := seedUser(t, db, "owner@example.com")
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		seedNote(t, db, user.ID, fmt.Sprintf("note %d", i), "body", "math", nil, time.Duration(i)*time.Minute)
	}

	page, err := ctrl.List(ctx, user.ID, ListFilters{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Notes, 5)
	assert.EqualValues(t, 25, page.Total)
	assert.Equal(t, 3, page.Pages)

	// Defaults: page 1, limit 10, newest first.
	page, err = ctrl.List(ctx, user.ID, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, page.Notes, 10)
	assert.Equal(t, "note 0", page.Notes[0].Title)
	assert.Equal(t, 3, page.Pages)
}

func TestListFilters(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewNotesController(dao.NewNoteDAO(db))
	user := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	ctx := context.Background()

	seedNote(t, db, user.ID, "algebra", "groups and rings", "math", []string{"algebra"}, time.Minute)
	seedNote(t, db, user.ID, "cells", "cell structure", "biology", []string{"biology", "cells"}, 2*time.Minute)
	seedNote(t, db, other.ID, "foreign", "not yours", "math", []string{"algebra"}, 3*time.Minute)

	page, err := ctrl.List(ctx, user.ID, ListFilters{Subject: "math"})
	require.NoError(t, err)
	require.Len(t, page.Notes, 1)
	assert.Equal(t, "algebra", page.Notes[0].Title)

	// Tag filter is normalized and matches whole tags only.
	page, err = ctrl.List(ctx, user.ID, ListFilters{Tag: "  Biology "})
	require.NoError(t, err)
	require.Len(t, page.Notes, 1)
	assert.Equal(t, "cells", page.Notes[0].Title)

	page, err = ctrl.List(ctx, user.ID, ListFilters{Tag: "bio"})
	require.NoError(t, err)
	assert.Empty(t, page.Notes)
}

func TestOwnershipFailuresAreUniformlyNotFound(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewNotesController(dao.NewNoteDAO(db))
	owner := seedUser(t, db, "owner@example.com")
	intruder := seedUser(t, db, "intruder@example.com")
	ctx := context.Background()

	note, err := ctrl.Create(ctx, owner.ID, "private", "secret content", "", nil)
	require.NoError(t, err)

	title := "hijacked"
	_, getErr := ctrl.Get(ctx, intruder.ID, note.ID)
	_, updErr := ctrl.Update(ctx, intruder.ID, note.ID, NoteUpdate{Title: &title})
	delErr := ctrl.Delete(ctx, intruder.ID, note.ID)

	assert.True(t, apperr.IsKind(getErr, apperr.NotFound))
	assert.True(t, apperr.IsKind(updErr, apperr.NotFound))
	assert.True(t, apperr.IsKind(delErr, apperr.NotFound))

	// Note untouched for its owner.
	stored, err := ctrl.Get(ctx, owner.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", stored.Title)
}

func TestUpdateRenormalizesTags(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewNotesController(dao.NewNoteDAO(db))
	user := seedUser(t, db, "owner@example.com")
	ctx := context.Background()

	note, err := ctrl.Create(ctx, user.ID, "t", "c", "math", []string{"algebra"})
	require.NoError(t, err)

	tags := []string{"  Biology "}
	updated, err := ctrl.Update(ctx, user.ID, note.ID, NoteUpdate{Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, []string{"biology"}, updated.Tags)
	assert.Equal(t, "t", updated.Title)

	empty := ""
	_, err = ctrl.Update(ctx, user.ID, note.ID, NoteUpdate{Title: &empty})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestSearchRanksByRelevance(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewNotesController(dao.NewNoteDAO(db))
	user := seedUser(t, db, "owner@example.com")
	ctx := context.Background()

	seedNote(t, db, user.ID, "Mitochondria deep dive", "mitochondria mitochondria mitochondria", "biology", nil, time.Minute)
	seedNote(t, db, user.ID, "Organelles overview", "a single mention of mitochondria", "biology", nil, 2*time.Minute)
	seedNote(t, db, user.ID, "Unrelated", "nothing relevant here", "math", nil, 3*time.Minute)

	found, err := ctrl.Search(ctx, user.ID, "Mitochondria")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Mitochondria deep dive", found[0].Title)
	assert.Equal(t, "Organelles overview", found[1].Title)

	_, err = ctrl.Search(ctx, user.ID, "   ")
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestSearchCapsAtTen(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewNotesController(dao.NewNoteDAO(db))
	user := seedUser(t, db, "owner@example.com")
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		seedNote(t, db, user.ID, fmt.Sprintf("physics %d", i), "quantum mechanics", "physics", nil, time.Duration(i)*time.Minute)
	}

	found, err := ctrl.Search(ctx, user.ID, "quantum")
	require.NoError(t, err)
	assert.Len(t, found, 10)
}

func TestListWithQueryCombinesFilters(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewNotesController(dao.NewNoteDAO(db))
	user := seedUser(t, db, "owner@example.com")
	ctx := context.Background()

	seedNote(t, db, user.ID, "waves in physics", "interference patterns", "physics", nil, time.Minute)
	seedNote(t, db, user.ID, "waves in the sea", "ocean interference", "geography", nil, 2*time.Minute)

	page, err := ctrl.List(ctx, user.ID, ListFilters{Query: "interference", Subject: "physics"})
	require.NoError(t, err)
	require.Len(t, page.Notes, 1)
	assert.Equal(t, "waves in physics", page.Notes[0].Title)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, page.Pages)
}
