// Package services – GenerationService
//
// This file implements the metadata generation pipeline: build a prompt from
// the entity's stored source material, run one buffered completion, extract
// the JSON payload, validate it against the task's contract, merge it into
// the entity, and persist. A validation failure aborts before any store
// write, so an entity never carries a partial bundle. There is no internal
// retry; a failed generation surfaces to the caller, who decides whether to
// re-invoke.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/techiral/go-content-backend/internal/domain"
	"github.com/techiral/go-content-backend/internal/extract"
	"github.com/techiral/go-content-backend/internal/llm"
	"github.com/techiral/go-content-backend/internal/prompt"
	"github.com/techiral/go-content-backend/internal/store"
)

// GenerationService coordinates the prompt → completion → extraction →
// persistence pipeline for videos and blogs.
type GenerationService struct {
	// Store is the active persistence backend.
	Store store.Store
	// LLM runs buffered completions.
	LLM llm.Completer
}

// NewGenerationService constructs a GenerationService.
func NewGenerationService(st store.Store, c llm.Completer) *GenerationService {
	return &GenerationService{Store: st, LLM: c}
}

// GenerateVideoMetadata produces the full metadata bundle for a video from
// its transcript and persists the merged result.
func (s *GenerationService) GenerateVideoMetadata(ctx context.Context, id string) (*domain.Video, error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "GenerateVideoMetadata",
		trace.WithAttributes(attribute.String("video.id", id)),
	)
	defer span.End()

	v, err := s.Store.LoadVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err := s.LLM.Complete(ctx, "", prompt.VideoMetadata(v.Title, v.Transcript))
	if err != nil {
		return nil, err
	}

	b, err := decodeBundle(raw, extract.ContractFullMetadata)
	if err != nil {
		return nil, err
	}

	v.ApplyBundle(b)
	if err := s.Store.SaveVideo(ctx, v); err != nil {
		return nil, fmt.Errorf("persist video %s: %w", id, err)
	}
	return v, nil
}

// GenerateBlogMetadata produces the full metadata bundle for a blog from its
// content and persists the merged result.
func (s *GenerationService) GenerateBlogMetadata(ctx context.Context, id string) (*domain.Blog, error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "GenerateBlogMetadata",
		trace.WithAttributes(attribute.String("blog.id", id)),
	)
	defer span.End()

	b, err := s.Store.LoadBlog(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err := s.LLM.Complete(ctx, "", prompt.BlogMetadata(b.Title, b.Content))
	if err != nil {
		return nil, err
	}

	bundle, err := decodeBundle(raw, extract.ContractFullMetadata)
	if err != nil {
		return nil, err
	}

	b.ApplyBundle(bundle)
	if err := s.Store.SaveBlog(ctx, b); err != nil {
		return nil, fmt.Errorf("persist blog %s: %w", id, err)
	}
	return b, nil
}

// GenerateFAQs produces a fresh FAQ set for a video, replacing whatever the
// video currently carries.
func (s *GenerationService) GenerateFAQs(ctx context.Context, id string) (*domain.Video, error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "GenerateFAQs",
		trace.WithAttributes(attribute.String("video.id", id)),
	)
	defer span.End()

	v, err := s.Store.LoadVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err := s.LLM.Complete(ctx, "", prompt.FAQs(v.Title, v.Transcript))
	if err != nil {
		return nil, err
	}

	b, err := decodeBundle(raw, extract.ContractFAQs)
	if err != nil {
		return nil, err
	}

	v.FAQs = b.FAQs
	if err := s.Store.SaveVideo(ctx, v); err != nil {
		return nil, fmt.Errorf("persist video %s: %w", id, err)
	}
	return v, nil
}

// GenerateMoreFAQs asks for FAQs beyond the ones already stored and appends
// only the novel ones, de-duplicated by normalized question text.
func (s *GenerationService) GenerateMoreFAQs(ctx context.Context, id string) (*domain.Video, error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "GenerateMoreFAQs",
		trace.WithAttributes(attribute.String("video.id", id)),
	)
	defer span.End()

	v, err := s.Store.LoadVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	existing := make([]string, 0, len(v.FAQs))
	for _, f := range v.FAQs {
		existing = append(existing, f.Question)
	}

	raw, err := s.LLM.Complete(ctx, "", prompt.MoreFAQs(v.Title, v.Transcript, existing))
	if err != nil {
		return nil, err
	}

	b, err := decodeBundle(raw, extract.ContractFAQs)
	if err != nil {
		return nil, err
	}

	v.FAQs = extract.MergeFAQs(v.FAQs, b.FAQs)
	if err := s.Store.SaveVideo(ctx, v); err != nil {
		return nil, fmt.Errorf("persist video %s: %w", id, err)
	}
	return v, nil
}

// decodeBundle maps an extraction result onto service errors.
func decodeBundle(raw string, c extract.Contract) (domain.MetadataBundle, error) {
	res := extract.Bundle(raw, c)
	switch res.Status {
	case extract.StatusOK:
		return res.Bundle, nil
	case extract.StatusIncomplete:
		return domain.MetadataBundle{}, &IncompleteOutputError{Missing: res.Missing}
	default:
		return domain.MetadataBundle{}, ErrMalformedOutput
	}
}
