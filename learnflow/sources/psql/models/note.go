package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultSubject = "other"

type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Note struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      int          `json:"user_id" gorm:"not null;index"`
	User        User         `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Title       string       `json:"title" gorm:"type:varchar(255);not null"`
	Content     string       `json:"content" gorm:"type:text;not null"`
	Subject     string       `json:"subject" gorm:"type:varchar(100);default:other"`
	Tags        []string     `json:"tags" gorm:"serializer:json;type:text"`
	Attachments []Attachment `json:"attachments" gorm:"serializer:json;type:text"`
	Flashcards  []Flashcard  `json:"flashcards" gorm:"serializer:json;type:text"`
	AIGenerated bool         `json:"ai_generated"`
	AIModel     string       `json:"ai_model,omitempty" gorm:"type:varchar(64)"`
	CreatedAt   time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "notes"
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// NormalizeTags lowercases and trims every tag; empty results are
// dropped. Applied on every write that touches tags.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}
