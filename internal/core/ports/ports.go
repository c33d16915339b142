package ports

import (
	"context"
	"io"

	"dandiscope/internal/core/domain"
)

// DatasetRepository defines the port for the remote archive listing
type DatasetRepository interface {
	// ListAssets returns every asset descriptor of the dataset version,
	// in the archive's listing order
	ListAssets(ctx context.Context, datasetID, version string) ([]domain.AssetDescriptor, error)

	// ResolveContentURL returns the asset's content URL for the given
	// storage backend hint. An empty string with a nil error means no
	// matching backend reference exists (a data condition, not a failure)
	ResolveContentURL(ctx context.Context, assetID, backend string) (string, error)
}

// GridRenderer defines the port for turning a shaped grid into an artifact
type GridRenderer interface {
	// Render writes the grid as a self-contained HTML document
	Render(grid domain.Grid, w io.Writer) error
}

// PageRenderer defines the port for the index page
type PageRenderer interface {
	// RenderIndex writes the page-of-pages linking every generated plot
	RenderIndex(links []domain.PageLink, w io.Writer) error
}

// CheckpointStore defines the port for stage checkpoints. Checkpoints are
// write-once-read-once handoffs between pipeline stages, not a concurrency
// mechanism.
type CheckpointStore interface {
	// SaveRecords persists the harvested table
	SaveRecords(records []domain.AssetRecord) error

	// LoadRecords returns the harvested table
	LoadRecords() ([]domain.AssetRecord, error)

	// RecordsExist checks whether a harvest checkpoint is present
	RecordsExist() bool

	// SaveViewerRows persists the URL-augmented table
	SaveViewerRows(rows []domain.ViewerRow) error

	// LoadViewerRows returns the URL-augmented table
	LoadViewerRows() ([]domain.ViewerRow, error)

	// ViewerRowsExist checks whether a viewer checkpoint is present
	ViewerRowsExist() bool
}
