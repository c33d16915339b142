package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"dandiscope/internal/core/domain"
)

// MockDatasetRepository is a mock implementation of the DatasetRepository
// interface for testing
type MockDatasetRepository struct {
	mu          sync.Mutex
	descriptors []domain.AssetDescriptor
	contentURLs map[string]string
	listCalls   []string
	resolved    []string
	shouldFail  bool
	failError   error
}

// NewMockDatasetRepository creates a new mock dataset repository
func NewMockDatasetRepository() *MockDatasetRepository {
	return &MockDatasetRepository{
		contentURLs: make(map[string]string),
	}
}

// SetDescriptors seeds the listing result
func (m *MockDatasetRepository) SetDescriptors(descriptors []domain.AssetDescriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.descriptors = descriptors
}

// SetContentURL seeds the resolution result for one asset
func (m *MockDatasetRepository) SetContentURL(assetID, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contentURLs[assetID] = url
}

// ListAssets returns the seeded descriptors in order
func (m *MockDatasetRepository) ListAssets(ctx context.Context, datasetID, version string) ([]domain.AssetDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls = append(m.listCalls, datasetID+"/"+version)
	if m.shouldFail {
		if m.failError != nil {
			return nil, m.failError
		}
		return nil, fmt.Errorf("listing failed for %s", datasetID)
	}

	descriptors := make([]domain.AssetDescriptor, len(m.descriptors))
	copy(descriptors, m.descriptors)
	return descriptors, nil
}

// ResolveContentURL returns the seeded URL for the asset, or "" when none
// was seeded (mirroring the no-matching-backend data condition)
func (m *MockDatasetRepository) ResolveContentURL(ctx context.Context, assetID, backend string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resolved = append(m.resolved, assetID)
	if m.shouldFail {
		if m.failError != nil {
			return "", m.failError
		}
		return "", fmt.Errorf("resolution failed for %s", assetID)
	}
	return m.contentURLs[assetID], nil
}

// SetShouldFail makes subsequent calls fail
func (m *MockDatasetRepository) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

// GetListCalls returns the dataset/version keys passed to ListAssets
func (m *MockDatasetRepository) GetListCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.listCalls))
	copy(calls, m.listCalls)
	return calls
}

// GetResolved returns the asset IDs passed to ResolveContentURL, in call order
func (m *MockDatasetRepository) GetResolved() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	resolved := make([]string, len(m.resolved))
	copy(resolved, m.resolved)
	return resolved
}

// Reset clears all seeded data and call tracking
func (m *MockDatasetRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.descriptors = nil
	m.contentURLs = make(map[string]string)
	m.listCalls = nil
	m.resolved = nil
	m.shouldFail = false
	m.failError = nil
}

// --- MockGridRenderer ---

// MockGridRenderer captures rendered grids instead of producing HTML
type MockGridRenderer struct {
	mu         sync.Mutex
	grids      []domain.Grid
	output     string
	shouldFail bool
	failError  error
}

// NewMockGridRenderer creates a new mock grid renderer
func NewMockGridRenderer() *MockGridRenderer {
	return &MockGridRenderer{
		output: "<html>mock grid</html>",
	}
}

// Render records the grid and writes placeholder output
func (m *MockGridRenderer) Render(grid domain.Grid, w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.grids = append(m.grids, grid)
	if m.shouldFail {
		if m.failError != nil {
			return m.failError
		}
		return fmt.Errorf("render failed for %s", grid.Title)
	}

	_, err := io.WriteString(w, m.output)
	return err
}

// SetShouldFail makes subsequent renders fail
func (m *MockGridRenderer) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

// GetGrids returns every grid handed to Render, in call order
func (m *MockGridRenderer) GetGrids() []domain.Grid {
	m.mu.Lock()
	defer m.mu.Unlock()
	grids := make([]domain.Grid, len(m.grids))
	copy(grids, m.grids)
	return grids
}

// Reset clears captured grids and failure state
func (m *MockGridRenderer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grids = nil
	m.shouldFail = false
	m.failError = nil
}

// --- MockPageRenderer ---

// MockPageRenderer captures index-page links instead of producing HTML
type MockPageRenderer struct {
	mu         sync.Mutex
	links      [][]domain.PageLink
	shouldFail bool
	failError  error
}

// NewMockPageRenderer creates a new mock page renderer
func NewMockPageRenderer() *MockPageRenderer {
	return &MockPageRenderer{}
}

// RenderIndex records the links and writes placeholder output
func (m *MockPageRenderer) RenderIndex(links []domain.PageLink, w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	captured := make([]domain.PageLink, len(links))
	copy(captured, links)
	m.links = append(m.links, captured)

	if m.shouldFail {
		if m.failError != nil {
			return m.failError
		}
		return fmt.Errorf("index render failed")
	}

	_, err := io.WriteString(w, "<html>mock index</html>")
	return err
}

// SetShouldFail makes subsequent renders fail
func (m *MockPageRenderer) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

// GetLinks returns the link lists handed to RenderIndex, in call order
func (m *MockPageRenderer) GetLinks() [][]domain.PageLink {
	m.mu.Lock()
	defer m.mu.Unlock()
	links := make([][]domain.PageLink, len(m.links))
	copy(links, m.links)
	return links
}

// --- MockCheckpointStore ---

// MockCheckpointStore holds checkpoints in memory
type MockCheckpointStore struct {
	mu         sync.Mutex
	records    []domain.AssetRecord
	rows       []domain.ViewerRow
	hasRecords bool
	hasRows    bool
	shouldFail bool
	failError  error
}

// NewMockCheckpointStore creates a new in-memory checkpoint store
func NewMockCheckpointStore() *MockCheckpointStore {
	return &MockCheckpointStore{}
}

// SaveRecords stores the harvested table
func (m *MockCheckpointStore) SaveRecords(records []domain.AssetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return m.failure("save records")
	}
	m.records = make([]domain.AssetRecord, len(records))
	copy(m.records, records)
	m.hasRecords = true
	return nil
}

// LoadRecords returns the stored table
func (m *MockCheckpointStore) LoadRecords() ([]domain.AssetRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return nil, m.failure("load records")
	}
	if !m.hasRecords {
		return nil, fmt.Errorf("no records checkpoint")
	}
	records := make([]domain.AssetRecord, len(m.records))
	copy(records, m.records)
	return records, nil
}

// RecordsExist checks for a stored harvest table
func (m *MockCheckpointStore) RecordsExist() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasRecords
}

// SaveViewerRows stores the augmented table
func (m *MockCheckpointStore) SaveViewerRows(rows []domain.ViewerRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return m.failure("save viewer rows")
	}
	m.rows = make([]domain.ViewerRow, len(rows))
	copy(m.rows, rows)
	m.hasRows = true
	return nil
}

// LoadViewerRows returns the stored augmented table
func (m *MockCheckpointStore) LoadViewerRows() ([]domain.ViewerRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return nil, m.failure("load viewer rows")
	}
	if !m.hasRows {
		return nil, fmt.Errorf("no viewer checkpoint")
	}
	rows := make([]domain.ViewerRow, len(m.rows))
	copy(rows, m.rows)
	return rows, nil
}

// ViewerRowsExist checks for a stored augmented table
func (m *MockCheckpointStore) ViewerRowsExist() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasRows
}

// SetShouldFail makes subsequent store operations fail
func (m *MockCheckpointStore) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

func (m *MockCheckpointStore) failure(op string) error {
	if m.failError != nil {
		return m.failError
	}
	return fmt.Errorf("checkpoint %s failed", op)
}
