package model

import "time"

const PaperAnalyzedEvent = "paper.analyzed"

// PaperEvent is published after a paper row has been inserted.
type PaperEvent struct {
	Type       string    `json:"type"`
	PaperID    uint      `json:"paper_id"`
	Title      string    `json:"title"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"upload_date"`
}
