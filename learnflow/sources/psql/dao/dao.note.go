package dao

import (
	"context"

	"learnflow/learnflow/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteDAO struct {
	DB *gorm.DB
}

func NewNoteDAO(db *gorm.DB) *NoteDAO {
	return &NoteDAO{DB: db}
}

// ListFilter narrows an owner-scoped listing. Query is handled above the
// DAO; see SearchCandidates.
type ListFilter struct {
	Page    int
	Limit   int
	Subject string
	Tag     string
}

func (dao *NoteDAO) CreateNote(ctx context.Context, note *models.Note) error {
	return dao.DB.WithContext(ctx).Create(note).Error
}

// GetNoteByID filters by id AND owner in one query, so a note owned by
// someone else is indistinguishable from a missing one.
func (dao *NoteDAO) GetNoteByID(ctx context.Context, userID int, id uuid.UUID) (*models.Note, error) {
	var note models.Note
	err := dao.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&note).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (dao *NoteDAO) scoped(ctx context.Context, userID int, subject, tag string) *gorm.DB {
	q := dao.DB.WithContext(ctx).Model(&models.Note{}).Where("user_id = ?", userID)
	if subject != "" {
		q = q.Where("subject = ?", subject)
	}
	if tag != "" {
		// Tags are stored as a JSON array; membership is matched against
		// the quoted element so "bio" does not match "biology".
		q = q.Where("tags LIKE ?", `%"`+tag+`"%`)
	}
	return q
}

// ListNotes returns one page newest-first plus the total match count.
func (dao *NoteDAO) ListNotes(ctx context.Context, userID int, f ListFilter) ([]models.Note, int64, error) {
	q := dao.scoped(ctx, userID, f.Subject, f.Tag)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []models.Note
	err := q.Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

// SearchCandidates fetches the caller's notes matching any of the terms
// in title or content. Relevance ranking happens in the controller.
func (dao *NoteDAO) SearchCandidates(ctx context.Context, userID int, terms []string, subject, tag string) ([]models.Note, error) {
	q := dao.scoped(ctx, userID, subject, tag)

	if len(terms) > 0 {
		cond := dao.DB.Where("lower(title) LIKE ?", "%"+terms[0]+"%").
			Or("lower(content) LIKE ?", "%"+terms[0]+"%")
		for _, term := range terms[1:] {
			cond = cond.Or("lower(title) LIKE ?", "%"+term+"%").
				Or("lower(content) LIKE ?", "%"+term+"%")
		}
		q = q.Where(cond)
	}

	var notes []models.Note
	if err := q.Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// SaveNote writes the full row. Concurrent saves of the same note are
// last-write-wins; atomicity is the single row UPDATE.
func (dao *NoteDAO) SaveNote(ctx context.Context, note *models.Note) error {
	return dao.DB.WithContext(ctx).Save(note).Error
}

func (dao *NoteDAO) DeleteNote(ctx context.Context, userID int, id uuid.UUID) (bool, error) {
	res := dao.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Note{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// NotesByUser returns every note the user owns, for aggregation.
func (dao *NoteDAO) NotesByUser(ctx context.Context, userID int) ([]models.Note, error) {
	var notes []models.Note
	err := dao.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}
