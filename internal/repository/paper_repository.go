package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"paperlens/internal/model"
)

const newestFirst = "upload_date DESC, id DESC"

// '!' is used as the LIKE escape character because backslash needs
// different quoting in MySQL and the other dialects.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type PaperRepository struct {
	db *gorm.DB
}

func NewPaperRepository(db *gorm.DB) *PaperRepository {
	return &PaperRepository{db: db}
}

// Migrate creates the papers table if it does not exist. Safe to call repeatedly.
func (r *PaperRepository) Migrate() error {
	if err := r.db.AutoMigrate(&model.Paper{}); err != nil {
		return fmt.Errorf("migrate papers table failed: %w", err)
	}
	return nil
}

func (r *PaperRepository) Create(paper *model.Paper) error {
	if err := r.db.Create(paper).Error; err != nil {
		return fmt.Errorf("create paper failed: %w", err)
	}
	return nil
}

func (r *PaperRepository) List() ([]model.Paper, error) {
	list := []model.Paper{}
	if err := r.db.Order(newestFirst).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list papers failed: %w", err)
	}
	return list, nil
}

func (r *PaperRepository) GetByID(id uint) (*model.Paper, error) {
	var paper model.Paper
	if err := r.db.First(&paper, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get paper failed: %w", err)
	}
	return &paper, nil
}

// Search matches query as a case-insensitive literal substring of title,
// authors, abstract or summary. An empty query matches nothing. Both sides
// are folded by the database, so sqlite folds ASCII only.
func (r *PaperRepository) Search(query string) ([]model.Paper, error) {
	list := []model.Paper{}
	if query == "" {
		return list, nil
	}

	pattern := "%" + likeEscaper.Replace(query) + "%"
	err := r.db.
		Where("LOWER(title) LIKE LOWER(?) ESCAPE '!'", pattern).
		Or("LOWER(authors) LIKE LOWER(?) ESCAPE '!'", pattern).
		Or("LOWER(abstract) LIKE LOWER(?) ESCAPE '!'", pattern).
		Or("LOWER(summary) LIKE LOWER(?) ESCAPE '!'", pattern).
		Order(newestFirst).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("search papers failed: %w", err)
	}
	return list, nil
}
