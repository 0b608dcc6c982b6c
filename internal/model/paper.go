package model

import "time"

// MethodologyPlaceholder is stored for every paper; methodology is never computed.
const MethodologyPlaceholder = "Methodology extracted"

// Paper is one uploaded document with its derived metadata and analyses.
// Rows are written once and never updated.
type Paper struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Authors      string    `json:"authors"`
	Abstract     string    `json:"abstract"`
	Content      string    `json:"content"`
	Summary      string    `json:"summary"`
	ResearchGaps string    `json:"research_gaps"`
	Methodology  string    `json:"methodology"`
	KeyFindings  string    `json:"key_findings"`
	Filename     string    `json:"filename"`
	UploadDate   time.Time `gorm:"autoCreateTime;index" json:"upload_date"`
}

func (Paper) TableName() string {
	return "papers"
}
