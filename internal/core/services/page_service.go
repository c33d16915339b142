package services

import (
	"context"
	"fmt"
	"os"

	"dandiscope/internal/core/domain"
	"dandiscope/internal/core/ports"
	"dandiscope/pkg/workspace"
)

// PageService writes the index page linking every generated plot.
type PageService struct {
	checkpoints  ports.CheckpointStore
	pageRenderer ports.PageRenderer
	workspace    *workspace.Workspace
}

// NewPageService creates a new index page service
func NewPageService(checkpoints ports.CheckpointStore, renderer ports.PageRenderer, ws *workspace.Workspace) *PageService {
	return &PageService{
		checkpoints:  checkpoints,
		pageRenderer: renderer,
		workspace:    ws,
	}
}

// PageRequest represents a request to build the index page
type PageRequest struct {
	// Reserved for future options (e.g., grouping links by modality)
}

// PageResponse carries the page path and the links it offers
type PageResponse struct {
	Path  string
	Links []domain.PageLink
}

// Execute derives the link list from the viewer rows checkpoint and renders
// the selector page. The overview link always comes first, then one link
// per subject in ascending order.
func (s *PageService) Execute(ctx context.Context, req PageRequest) (*PageResponse, error) {
	rows, err := s.checkpoints.LoadViewerRows()
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer rows checkpoint: %w", err)
	}

	links := []domain.PageLink{
		{Label: "Modality X Subject", Path: s.workspace.PlotHref(domain.OverviewPlotFile)},
	}
	for _, subject := range domain.Subjects(rows) {
		links = append(links, domain.PageLink{
			Label: subject,
			Path:  s.workspace.PlotHref(subject + ".html"),
		})
	}

	path := s.workspace.IndexPagePath()
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create index page: %w", err)
	}
	defer f.Close()

	if err := s.pageRenderer.RenderIndex(links, f); err != nil {
		return nil, err
	}

	return &PageResponse{Path: path, Links: links}, nil
}
