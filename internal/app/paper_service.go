package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"paperlens/internal/metrics"
	"paperlens/internal/model"
	"paperlens/internal/pkg/filename"
	"paperlens/internal/repository"
)

const (
	unknownTitle    = "Unknown Title"
	unknownAuthors  = "Unknown Authors"
	missingAbstract = "No abstract found"

	fallbackUploadName = "upload.pdf"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoFile            = errors.New("no file selected")
	ErrNotPDF            = errors.New("please upload a PDF file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrNoExtractableText = errors.New("could not extract text from PDF")
	ErrPaperNotFound     = errors.New("paper not found")
)

type TextExtractor interface {
	ExtractFile(path string) string
}

type PaperEventPublisher interface {
	PublishPaperEvent(ctx context.Context, event model.PaperEvent) error
}

type PaperService struct {
	repo      *repository.PaperRepository
	analysis  *AnalysisService
	extractor TextExtractor
	publisher PaperEventPublisher
	uploadDir string
	maxBytes  int64
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

type PaperServiceOptions struct {
	UploadDir string
	MaxBytes  int64
	// Publisher is optional.
	Publisher PaperEventPublisher
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

func NewPaperService(
	repo *repository.PaperRepository,
	analysis *AnalysisService,
	extractor TextExtractor,
	opts PaperServiceOptions,
) *PaperService {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaperService{
		repo:      repo,
		analysis:  analysis,
		extractor: extractor,
		publisher: opts.Publisher,
		uploadDir: opts.UploadDir,
		maxBytes:  opts.MaxBytes,
		logger:    logger,
		metrics:   opts.Metrics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// UploadInput is one submitted file.
type UploadInput struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// Upload runs the full pipeline for one file: validate, save, extract,
// analyze, insert, clean up. Validation failures return one of the Err*
// sentinels and store nothing.
func (s *PaperService) Upload(ctx context.Context, input UploadInput) (*model.Paper, error) {
	if strings.TrimSpace(input.Filename) == "" || input.Body == nil {
		s.metrics.UploadRejected("no_file")
		return nil, ErrNoFile
	}
	if !strings.HasSuffix(strings.ToLower(input.Filename), ".pdf") {
		s.metrics.UploadRejected("not_pdf")
		return nil, ErrNotPDF
	}
	if s.maxBytes > 0 && input.Size > s.maxBytes {
		s.metrics.UploadRejected("too_large")
		return nil, ErrFileTooLarge
	}

	name := filename.Secure(input.Filename)
	if name == "" {
		name = fallbackUploadName
	}
	tempPath := filepath.Join(s.uploadDir, uuid.NewString()+"-"+name)
	if err := saveUpload(tempPath, input.Body); err != nil {
		return nil, err
	}

	content := s.extractor.ExtractFile(tempPath)
	if strings.TrimSpace(content) == "" {
		// The file stays on disk; the upload sweeper removes it later.
		s.logger.Warn("no extractable text in upload",
			zap.String("filename", name),
			zap.String("path", tempPath),
		)
		s.metrics.UploadRejected("no_text")
		return nil, ErrNoExtractableText
	}

	title, authors, abstract := FrontMatter(content)

	paper := &model.Paper{
		Title:        title,
		Authors:      authors,
		Abstract:     abstract,
		Content:      content,
		Summary:      s.analysis.Summarize(ctx, content),
		ResearchGaps: s.analysis.AnalyzeResearchGaps(ctx, content),
		Methodology:  model.MethodologyPlaceholder,
		KeyFindings:  s.analysis.ExtractKeyFindings(ctx, content),
		Filename:     name,
		UploadDate:   s.now(),
	}
	if err := s.repo.Create(paper); err != nil {
		return nil, err
	}

	if err := os.Remove(tempPath); err != nil {
		s.logger.Warn("remove processed upload failed", zap.String("path", tempPath), zap.Error(err))
	}

	s.metrics.PaperStored()
	s.logger.Info("paper stored",
		zap.Uint("paper_id", paper.ID),
		zap.String("filename", name),
		zap.Int("content_chars", len(content)),
	)
	s.publish(ctx, paper)
	return paper, nil
}

func (s *PaperService) List() ([]model.Paper, error) {
	return s.repo.List()
}

func (s *PaperService) Get(id uint) (*model.Paper, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	paper, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if paper == nil {
		return nil, ErrPaperNotFound
	}
	return paper, nil
}

func (s *PaperService) Search(query string) ([]model.Paper, error) {
	return s.repo.Search(query)
}

func (s *PaperService) publish(ctx context.Context, paper *model.Paper) {
	if s.publisher == nil {
		return
	}
	event := model.PaperEvent{
		Type:       model.PaperAnalyzedEvent,
		PaperID:    paper.ID,
		Title:      paper.Title,
		Filename:   paper.Filename,
		UploadDate: paper.UploadDate,
	}
	if err := s.publisher.PublishPaperEvent(ctx, event); err != nil {
		s.logger.Warn("publish paper event failed", zap.Uint("paper_id", paper.ID), zap.Error(err))
	}
}

// FrontMatter takes lines 0, 1 and 2 of the extracted text as title, authors
// and abstract. It is a best-effort heuristic.
func FrontMatter(content string) (title, authors, abstract string) {
	lines := strings.Split(content, "\n")
	title, authors, abstract = unknownTitle, unknownAuthors, missingAbstract
	if len(lines) > 0 {
		title = lines[0]
	}
	if len(lines) > 1 {
		authors = lines[1]
	}
	if len(lines) > 2 {
		abstract = lines[2]
	}
	return title, authors, abstract
}

func saveUpload(path string, body io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload file failed: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write upload file failed: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close upload file failed: %w", err)
	}
	return nil
}
