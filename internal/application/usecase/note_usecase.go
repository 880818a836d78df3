package usecase

import (
	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/ports"
	"github.com/kiranfashion/console/internal/domain/entity"
)

// NoteUseCase manages staff notes.
type NoteUseCase struct {
	*CrudUseCase[entity.Note, dto.NoteInput]
}

// NewNoteUseCase builds the use case.
func NewNoteUseCase(backend ports.Backend) *NoteUseCase {
	return &NoteUseCase{CrudUseCase: NewCrudUseCase(backend.Notes())}
}
