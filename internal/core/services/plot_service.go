package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dandiscope/internal/core/domain"
	"dandiscope/internal/core/ports"
	"dandiscope/pkg/workspace"
)

// PlotService shapes checkpointed tables into grids and renders them as
// HTML artifacts in the workspace plots directory.
type PlotService struct {
	checkpoints ports.CheckpointStore
	renderer    ports.GridRenderer
	workspace   *workspace.Workspace
}

// NewPlotService creates a new plot service
func NewPlotService(checkpoints ports.CheckpointStore, renderer ports.GridRenderer, ws *workspace.Workspace) *PlotService {
	return &PlotService{
		checkpoints: checkpoints,
		renderer:    renderer,
		workspace:   ws,
	}
}

// PlotRequest selects the modalities of the overview grid
type PlotRequest struct {
	OverviewModalities []string
}

// PlotResponse lists the artifacts written, overview first
type PlotResponse struct {
	Artifacts []string
}

// Execute renders the overview grid and every subject grid
func (s *PlotService) Execute(ctx context.Context, req PlotRequest) (*PlotResponse, error) {
	overview, err := s.GenerateOverview(ctx, req.OverviewModalities)
	if err != nil {
		return nil, err
	}

	subjects, err := s.GenerateSubjectPlots(ctx)
	if err != nil {
		return nil, err
	}

	return &PlotResponse{Artifacts: append([]string{overview}, subjects...)}, nil
}

// GenerateOverview renders the modality-by-subject count grid from the
// records checkpoint and returns the artifact path
func (s *PlotService) GenerateOverview(ctx context.Context, modalities []string) (string, error) {
	records, err := s.checkpoints.LoadRecords()
	if err != nil {
		return "", fmt.Errorf("failed to load records checkpoint: %w", err)
	}

	grid := domain.BuildOverviewGrid(records, modalities)
	path := s.workspace.PlotPath(domain.OverviewPlotFile)
	if err := s.renderTo(grid, path); err != nil {
		return "", err
	}
	return path, nil
}

// GenerateSubjectPlots renders one interactive stain-by-sample grid per
// subject from the viewer rows checkpoint and returns the artifact paths
func (s *PlotService) GenerateSubjectPlots(ctx context.Context) ([]string, error) {
	rows, err := s.checkpoints.LoadViewerRows()
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer rows checkpoint: %w", err)
	}

	var artifacts []string
	for _, subject := range domain.Subjects(rows) {
		grid := domain.BuildSubjectGrid(subject, rows)
		path := s.workspace.PlotPath(subject + ".html")
		if err := s.renderTo(grid, path); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, path)
	}
	return artifacts, nil
}

func (s *PlotService) renderTo(grid domain.Grid, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create plots directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	defer f.Close()
	return s.renderer.Render(grid, f)
}
