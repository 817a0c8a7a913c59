package repository

import (
	"errors"
	"time"

	"campusmate-backend/internal/note/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	Create(note *domain.Note) error
	FindByID(id string) (*domain.Note, error)
	FindByUserID(userID string, limit, offset int) ([]*domain.Note, int64, error)
	Update(note *domain.Note) error
	Delete(id string) error
}

type gormNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &gormNoteRepository{db: db}
}

func (r *gormNoteRepository) Create(note *domain.Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()
	return r.db.Create(note).Error
}

func (r *gormNoteRepository) FindByID(id string) (*domain.Note, error) {
	var note domain.Note
	err := r.db.Where("id = ?", id).First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

func (r *gormNoteRepository) FindByUserID(userID string, limit, offset int) ([]*domain.Note, int64, error) {
	var notes []*domain.Note
	var total int64

	query := r.db.Model(&domain.Note{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("pinned DESC, updated_at DESC").
		Limit(limit).Offset(offset).Find(&notes).Error
	return notes, total, err
}

func (r *gormNoteRepository) Update(note *domain.Note) error {
	note.UpdatedAt = time.Now()
	return r.db.Save(note).Error
}

func (r *gormNoteRepository) Delete(id string) error {
	return r.db.Delete(&domain.Note{}, "id = ?", id).Error
}
