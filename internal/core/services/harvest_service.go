package services

import (
	"context"
	"fmt"

	"dandiscope/internal/core/domain"
	"dandiscope/internal/core/ports"
)

// HarvestService lists a dataset version and parses every asset path into a
// normalized record table.
type HarvestService struct {
	datasetRepo ports.DatasetRepository
	checkpoints ports.CheckpointStore
}

// NewHarvestService creates a new harvest service
func NewHarvestService(datasetRepo ports.DatasetRepository, checkpoints ports.CheckpointStore) *HarvestService {
	return &HarvestService{
		datasetRepo: datasetRepo,
		checkpoints: checkpoints,
	}
}

// HarvestRequest represents a request to harvest one dataset version
type HarvestRequest struct {
	DatasetID string
	Version   string
}

// HarvestResponse represents the harvested record table
type HarvestResponse struct {
	Records []domain.AssetRecord
}

// Execute lists the dataset's assets, parses each path into a record, and
// writes the records checkpoint. Parse absences stay empty fields; one
// descriptor always yields exactly one record.
func (s *HarvestService) Execute(ctx context.Context, req HarvestRequest) (*HarvestResponse, error) {
	// Validate request
	if req.DatasetID == "" {
		return nil, fmt.Errorf("dataset ID is required")
	}
	if req.Version == "" {
		return nil, fmt.Errorf("dataset version is required")
	}

	// List every asset of the dataset version
	descriptors, err := s.datasetRepo.ListAssets(ctx, req.DatasetID, req.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	// Parse each descriptor into a record
	records := make([]domain.AssetRecord, 0, len(descriptors))
	for _, desc := range descriptors {
		records = append(records, domain.ParseAsset(desc))
	}

	// Checkpoint the table so later stages can resume from it
	if err := s.checkpoints.SaveRecords(records); err != nil {
		return nil, fmt.Errorf("failed to save records checkpoint: %w", err)
	}

	return &HarvestResponse{Records: records}, nil
}
