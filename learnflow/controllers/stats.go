package controllers

import (
	"context"
	"sort"
	"unicode/utf8"

	"learnflow/learnflow/apperr"
	"learnflow/learnflow/sources/psql/dao"
)

type StatsController struct {
	dao *dao.NoteDAO
}

func NewStatsController(dao *dao.NoteDAO) *StatsController {
	return &StatsController{dao: dao}
}

type SubjectStats struct {
	Subject         string  `json:"subject"`
	Count           int     `json:"count"`
	AvgLength       float64 `json:"avg_length"`
	TotalFlashcards int     `json:"total_flashcards"`
}

// Stats groups the caller's notes by subject: note count, average
// content length in characters, and total flashcards. Sorted by count
// descending, subject ascending on ties.
func (c *StatsController) Stats(ctx context.Context, userID int) ([]SubjectStats, error) {
	notes, err := c.dao.NotesByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}

	type acc struct {
		count      int
		totalChars int
		flashcards int
	}
	groups := map[string]*acc{}
	for _, note := range notes {
		g := groups[note.Subject]
		if g == nil {
			g = &acc{}
			groups[note.Subject] = g
		}
		g.count++
		g.totalChars += utf8.RuneCountInString(note.Content)
		g.flashcards += len(note.Flashcards)
	}

	stats := make([]SubjectStats, 0, len(groups))
	for subject, g := range groups {
		stats = append(stats, SubjectStats{
			Subject:         subject,
			Count:           g.count,
			AvgLength:       float64(g.totalChars) / float64(g.count),
			TotalFlashcards: g.flashcards,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Subject < stats[j].Subject
	})
	return stats, nil
}
