package services

import (
	"context"
	"fmt"

	"dandiscope/internal/core/domain"
	"dandiscope/internal/core/ports"
)

// ViewerService refines the harvested table to viewable assets, resolves
// their storage URLs, and builds one viewer link per asset plus one overlap
// link per (subject, sample) group.
type ViewerService struct {
	datasetRepo ports.DatasetRepository
	checkpoints ports.CheckpointStore
}

// NewViewerService creates a new viewer URL service
func NewViewerService(datasetRepo ports.DatasetRepository, checkpoints ports.CheckpointStore) *ViewerService {
	return &ViewerService{
		datasetRepo: datasetRepo,
		checkpoints: checkpoints,
	}
}

// BuildViewerRowsRequest carries the refine filter and viewer parameters
type BuildViewerRowsRequest struct {
	Modalities   []string
	Extension    string
	Backend      string
	ViewerBase   string
	SourcePrefix string
	Contrast     float64
	Intensity    float64
	RangeMin     int
	RangeMax     int
}

// BuildViewerRowsResponse represents the augmented viewer table
type BuildViewerRowsResponse struct {
	Rows     []domain.ViewerRow
	Refined  int
	Resolved int
}

// Execute loads the records checkpoint, refines it, resolves content URLs,
// and writes the viewer rows checkpoint. Row order is the contract here:
// groups ascend by (subject, sample), members keep listing order, and each
// group's overlap row comes last, colored in member order.
func (s *ViewerService) Execute(ctx context.Context, req BuildViewerRowsRequest) (*BuildViewerRowsResponse, error) {
	records, err := s.checkpoints.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("failed to load records checkpoint: %w", err)
	}

	// Refine to the viewable slice of the table
	var refined []domain.AssetRecord
	for _, rec := range records {
		if rec.HasModality(req.Modalities) && rec.Extension == req.Extension {
			refined = append(refined, rec)
		}
	}

	// Resolve each refined asset's storage URL. An unresolvable URL is a
	// data condition: the viewer link still gets built around the empty
	// source, exactly as a missing layer would surface in the viewer.
	resolved := 0
	pending := make([]domain.ViewerRow, 0, len(refined))
	for _, rec := range refined {
		contentURL, err := s.datasetRepo.ResolveContentURL(ctx, rec.AssetID, req.Backend)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve content URL for asset %s: %w", rec.AssetID, err)
		}
		if contentURL != "" {
			resolved++
		}
		pending = append(pending, domain.ViewerRow{
			AssetID:  rec.AssetID,
			Subject:  rec.Subject,
			Sample:   rec.Sample,
			Stain:    rec.Stain,
			Modality: rec.Modality,
			URL:      contentURL,
		})
	}

	rows, err := s.buildRows(pending, req)
	if err != nil {
		return nil, err
	}

	if err := s.checkpoints.SaveViewerRows(rows); err != nil {
		return nil, fmt.Errorf("failed to save viewer rows checkpoint: %w", err)
	}

	return &BuildViewerRowsResponse{
		Rows:     rows,
		Refined:  len(refined),
		Resolved: resolved,
	}, nil
}

// buildRows replaces each pending row's content URL with a single-layer
// viewer link and appends one multi-layer overlap link per group.
func (s *ViewerService) buildRows(pending []domain.ViewerRow, req BuildViewerRowsRequest) ([]domain.ViewerRow, error) {
	var rows []domain.ViewerRow

	for _, group := range domain.GroupBySubjectSample(pending) {
		// Individual links, one per asset
		for _, member := range group.Rows {
			name := domain.LayerName(member.Subject, member.Sample, member.Stain, member.Modality)
			layer := domain.NewImageLayer(req.SourcePrefix+member.URL, name, req.RangeMin, req.RangeMax)

			viewerURL, err := domain.NewViewerConfig([]domain.Layer{layer}).EncodeURL(req.ViewerBase)
			if err != nil {
				return nil, fmt.Errorf("failed to build viewer URL for asset %s: %w", member.AssetID, err)
			}

			rows = append(rows, domain.ViewerRow{
				AssetID:  member.AssetID,
				Subject:  member.Subject,
				Sample:   member.Sample,
				Stain:    member.Stain,
				Modality: member.Modality,
				URL:      viewerURL,
			})
		}

		// Overlap link combining every member with a distinct color.
		// Palette index i must follow member index i.
		palette := domain.PriorityPalette(len(group.Rows))
		layers := make([]domain.Layer, 0, len(group.Rows))
		for i, member := range group.Rows {
			shader, err := domain.NewShaderParams(palette[i], req.Contrast, req.Intensity)
			if err != nil {
				return nil, fmt.Errorf("failed to build overlay shader for asset %s: %w", member.AssetID, err)
			}
			name := domain.LayerName(member.Subject, member.Sample, member.Stain, member.Modality)
			layers = append(layers, domain.NewShadedLayer(req.SourcePrefix+member.URL, name, shader.GLSL()))
		}

		overlapURL, err := domain.NewViewerConfig(layers).EncodeURL(req.ViewerBase)
		if err != nil {
			return nil, fmt.Errorf("failed to build overlap URL for %s/%s: %w", group.Subject, group.Sample, err)
		}

		rows = append(rows, domain.ViewerRow{
			Subject:  group.Subject,
			Sample:   group.Sample,
			Stain:    domain.OverlapStain,
			Modality: group.Rows[0].Modality,
			URL:      overlapURL,
		})
	}

	return rows, nil
}
