package dto

// NoteInput is the payload for POST /notes and PUT /notes/:id.
type NoteInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
