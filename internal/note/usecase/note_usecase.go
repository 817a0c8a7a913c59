package usecase

import (
	"errors"

	"campusmate-backend/internal/note/domain"
	"campusmate-backend/internal/note/repository"
)

// NoteUsecase defines the interface for note business logic
type NoteUsecase interface {
	CreateNote(userID, title, content string, tags []string) (*domain.Note, error)
	GetNoteByID(userID, noteID string) (*domain.Note, error)
	GetUserNotes(userID string, limit, offset int) ([]*domain.Note, int64, error)
	UpdateNote(userID, noteID string, updates NoteUpdateRequest) (*domain.Note, error)
	DeleteNote(userID, noteID string) error
}

// NoteUpdateRequest represents the fields that can be updated
type NoteUpdateRequest struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
	Pinned  *bool     `json:"pinned,omitempty"`
}

type noteUsecase struct {
	noteRepo repository.NoteRepository
}

func NewNoteUsecase(noteRepo repository.NoteRepository) NoteUsecase {
	return &noteUsecase{
		noteRepo: noteRepo,
	}
}

func (u *noteUsecase) CreateNote(userID, title, content string, tags []string) (*domain.Note, error) {
	note := &domain.Note{
		UserID:  userID,
		Title:   title,
		Content: content,
		Tags:    tags,
	}
	if err := u.noteRepo.Create(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (u *noteUsecase) GetNoteByID(userID, noteID string) (*domain.Note, error) {
	note, err := u.noteRepo.FindByID(noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, errors.New("note not found")
	}
	if note.UserID != userID {
		return nil, errors.New("unauthorized")
	}
	return note, nil
}

func (u *noteUsecase) GetUserNotes(userID string, limit, offset int) ([]*domain.Note, int64, error) {
	return u.noteRepo.FindByUserID(userID, limit, offset)
}

func (u *noteUsecase) UpdateNote(userID, noteID string, updates NoteUpdateRequest) (*domain.Note, error) {
	note, err := u.GetNoteByID(userID, noteID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil {
		note.Title = *updates.Title
	}
	if updates.Content != nil {
		note.Content = *updates.Content
	}
	if updates.Tags != nil {
		note.Tags = *updates.Tags
	}
	if updates.Pinned != nil {
		note.Pinned = *updates.Pinned
	}

	if err := u.noteRepo.Update(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (u *noteUsecase) DeleteNote(userID, noteID string) error {
	if _, err := u.GetNoteByID(userID, noteID); err != nil {
		return err
	}
	return u.noteRepo.Delete(noteID)
}
