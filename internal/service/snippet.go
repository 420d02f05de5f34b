// Package service contains the business logic layer of the application.
//
// Handlers parse HTTP and write responses; services validate, enforce
// ownership and uniqueness rules, and orchestrate; repositories read and
// write storage. Services accept plain values and return domain errors
// from the apperror package — they know nothing about HTTP or SQL.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippethub/internal/apperror"
	"github.com/sakif/snippethub/internal/model"
	"github.com/sakif/snippethub/internal/repository"
)

// Validation limits for snippet fields.
const (
	MaxTitleLength = 50
	MaxCodeLength  = 1000
)

// SnippetService handles business logic for code snippets.
type SnippetService struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
}

// NewSnippetService creates a SnippetService. The caller decides which
// repository implementation to inject (sqlite in production, a mock in
// tests).
func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		logger: logger,
	}
}

// CreateSnippetInput carries the client-supplied fields for Create.
type CreateSnippetInput struct {
	Title    string
	Code     string
	Language string
	Tags     []string
}

// UpdateSnippetInput carries the fields supplied to Update. Nil pointers
// mean "leave unchanged" — a partial update never touches fields the
// client didn't send.
type UpdateSnippetInput struct {
	Title    *string
	Code     *string
	Language *string
	Tags     *[]string
}

// Create validates and saves a new snippet owned by ownerID.
//
// The duplicate-title lookup before the insert exists only to produce a
// friendly error without a failed write; it is not atomic with the
// insert. The UNIQUE index in storage is the real guard, and the
// repository reports its violation as the same duplicate-title error, so
// a concurrent identical Create loses cleanly.
func (s *SnippetService) Create(ctx context.Context, in CreateSnippetInput, ownerID string) (*model.Snippet, error) {
	title := strings.TrimSpace(in.Title)

	if title == "" {
		return nil, apperror.MissingField("title")
	}
	if in.Code == "" {
		return nil, apperror.MissingField("code")
	}
	if in.Language == "" {
		return nil, apperror.MissingField("language")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if len(in.Code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}
	if !model.ValidLanguage(in.Language) {
		return nil, apperror.ValidationFailed("language",
			fmt.Sprintf("language must be one of: %s", strings.Join(model.Languages, ", ")))
	}

	exists, err := s.repo.ExistsByTitleAndOwner(ctx, title, ownerID)
	if err != nil {
		return nil, fmt.Errorf("creating snippet: %w", err)
	}
	if exists {
		return nil, apperror.DuplicateTitle()
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	snippet := &model.Snippet{
		Title:     title,
		Code:      in.Code,
		Language:  in.Language,
		Tags:      tags,
		CreatedBy: ownerID,
	}

	if err := s.repo.Create(ctx, snippet); err != nil {
		if apperrorIs(err) {
			return nil, err
		}
		s.logger.Error("failed to create snippet",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("owner", ownerID),
	)

	return snippet, nil
}

// List returns every snippet with its owner's display name. No filtering
// and no pagination — the full result set every call.
func (s *SnippetService) List(ctx context.Context) ([]model.SnippetWithOwner, error) {
	snippets, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Get returns one snippet with its owner's display name.
func (s *SnippetService) Get(ctx context.Context, id string) (*model.SnippetWithOwner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}
	return s.repo.GetWithOwner(ctx, id)
}

// Update applies the supplied fields to an existing snippet.
//
// The ownership check runs before any validation of the new values, so a
// non-owner always gets forbidden, never a validation error. A supplied
// title identical to the current one skips the duplicate check — a no-op
// rename can never collide with itself.
func (s *SnippetService) Update(ctx context.Context, id, requesterID string, in UpdateSnippetInput) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if snippet.CreatedBy != requesterID {
		return nil, apperror.Forbidden("You can only edit your own snippets")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "title must not be empty")
		}
		if len(title) > MaxTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
		}
		if title != snippet.Title {
			exists, err := s.repo.ExistsByTitleAndOwner(ctx, title, requesterID)
			if err != nil {
				return nil, fmt.Errorf("updating snippet: %w", err)
			}
			if exists {
				return nil, apperror.DuplicateTitle()
			}
		}
		snippet.Title = title
	}

	if in.Code != nil {
		if *in.Code == "" {
			return nil, apperror.ValidationFailed("code", "code must not be empty")
		}
		if len(*in.Code) > MaxCodeLength {
			return nil, apperror.ValidationFailed("code",
				fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
		}
		snippet.Code = *in.Code
	}

	if in.Language != nil {
		if !model.ValidLanguage(*in.Language) {
			return nil, apperror.ValidationFailed("language",
				fmt.Sprintf("language must be one of: %s", strings.Join(model.Languages, ", ")))
		}
		snippet.Language = *in.Language
	}

	if in.Tags != nil {
		tags := *in.Tags
		if tags == nil {
			tags = []string{}
		}
		snippet.Tags = tags
	}

	if err := s.repo.Update(ctx, snippet); err != nil {
		if apperrorIs(err) {
			return nil, err
		}
		s.logger.Error("failed to update snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated", slog.String("id", snippet.ID))

	return snippet, nil
}

// Delete removes a snippet. Only its owner may do so.
func (s *SnippetService) Delete(ctx context.Context, id, requesterID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if snippet.CreatedBy != requesterID {
		return apperror.Forbidden("You can only delete your own snippets")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}
