package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"careergap/internal/extract"
	"careergap/internal/parsing"
	"careergap/internal/shared/storage/object"
	"careergap/internal/shared/telemetry"
)

const MaxUploadBytes = 10 << 20 // 10MB

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("only PDF files are supported")
	ErrTooLarge     = errors.New("file exceeds 10MB limit")
	ErrNoText       = errors.New("failed to extract text from the uploaded file")
)

// Parser turns résumé text into structured data.
type Parser interface {
	ParseResume(ctx context.Context, text string) parsing.Resume
}

// Service contains business logic for résumés.
type Service struct {
	Repo   Repo
	Store  object.Store
	Parser Parser
	// Extract defaults to extract.PDFText.
	Extract func(ctx context.Context, data []byte) (string, error)
	Now     func() time.Time
}

type UploadInput struct {
	UserID   string
	FileName string
	Title    string
	Data     []byte
}

// Upload validates a PDF, stores it, extracts and parses its text and
// records the résumé.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Resume, error) {
	if in.UserID == "" || strings.TrimSpace(in.FileName) == "" || len(in.Data) == 0 {
		return Resume{}, ErrInvalidInput
	}
	if len(in.Data) > MaxUploadBytes {
		return Resume{}, ErrTooLarge
	}
	if !strings.EqualFold(filepath.Ext(in.FileName), ".pdf") || !extract.IsPDF(in.Data) {
		return Resume{}, ErrUnsupported
	}

	text, err := s.extract(ctx, in.Data)
	if err != nil {
		telemetry.Warn("resume.extract_failed", map[string]any{"user_id": in.UserID, "error": err})
		return Resume{}, fmt.Errorf("%w: %v", ErrNoText, err)
	}

	obj, err := s.Store.Put(ctx, in.UserID, in.FileName, bytes.NewReader(in.Data))
	if err != nil {
		return Resume{}, fmt.Errorf("store resume: %w", err)
	}

	parsed := s.Parser.ParseResume(ctx, text)
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = in.FileName
	}
	res := Resume{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		Title:        title,
		FileKey:      obj.Key,
		OriginalText: text,
		ParsedData:   parsed,
		CreatedAt:    s.now(),
	}
	if err := s.Repo.Create(ctx, res); err != nil {
		if derr := s.Store.Delete(ctx, obj.Key); derr != nil {
			telemetry.Warn("resume.cleanup_failed", map[string]any{"key": obj.Key, "error": derr})
		}
		return Resume{}, err
	}
	telemetry.Info("resume.uploaded", map[string]any{
		"user_id":     in.UserID,
		"resume_id":   res.ID,
		"text_length": len(text),
		"parse_error": parsed.Error,
	})
	return res, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	return s.Repo.GetByID(ctx, userID, id)
}

// Latest returns the user's most recent résumé.
func (s *Service) Latest(ctx context.Context, userID string) (Resume, error) {
	return s.Repo.Latest(ctx, userID)
}

func (s *Service) List(ctx context.Context, userID string, limit int) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID, limit)
}

// Delete removes the record and then its stored file.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	res, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	if res.FileKey != "" {
		if err := s.Store.Delete(ctx, res.FileKey); err != nil {
			telemetry.Warn("resume.file_delete_failed", map[string]any{"key": res.FileKey, "error": err})
		}
	}
	return nil
}

func (s *Service) extract(ctx context.Context, data []byte) (string, error) {
	if s.Extract != nil {
		return s.Extract(ctx, data)
	}
	return extract.PDFText(ctx, data)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
