package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dandiscope/internal/core/domain"
	"dandiscope/internal/core/ports/mocks"
	"dandiscope/pkg/workspace"
)

func newTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()

	t.Setenv("XDG_DATA_HOME", t.TempDir())
	dir := t.TempDir()

	ws, err := workspace.New(filepath.Join(dir, "plots"), filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("Failed to create workspace: %v", err)
	}
	if err := ws.Initialize(); err != nil {
		t.Fatalf("Failed to initialize workspace: %v", err)
	}
	return ws
}

func seedPlotCheckpoints(store *mocks.MockCheckpointStore) {
	store.SaveRecords([]domain.AssetRecord{
		testRecord("a1", "MITU01", "178", "LEC", "SPIM", "ome.zarr"),
		testRecord("a2", "MITU01", "178", "NeuN", "SPIM", "ome.zarr"),
		testRecord("a3", "MITU02", "001", "YO", "OCT", "ome.zarr"),
	})
	store.SaveViewerRows([]domain.ViewerRow{
		{AssetID: "a1", Subject: "MITU01", Sample: "178", Stain: "LEC", Modality: "SPIM", URL: "https://viewer/1"},
		{AssetID: "a2", Subject: "MITU01", Sample: "178", Stain: "NeuN", Modality: "SPIM", URL: "https://viewer/2"},
		{Subject: "MITU01", Sample: "178", Stain: domain.OverlapStain, Modality: "SPIM", URL: "https://viewer/3"},
		{AssetID: "a3", Subject: "MITU02", Sample: "001", Stain: "YO", Modality: "OCT", URL: "https://viewer/4"},
		{Subject: "MITU02", Sample: "001", Stain: domain.OverlapStain, Modality: "OCT", URL: "https://viewer/5"},
	})
}

func TestPlotService_Execute(t *testing.T) {
	ws := newTestWorkspace(t)
	mockStore := mocks.NewMockCheckpointStore()
	seedPlotCheckpoints(mockStore)
	mockRenderer := mocks.NewMockGridRenderer()

	service := NewPlotService(mockStore, mockRenderer, ws)

	resp, err := service.Execute(context.Background(), PlotRequest{OverviewModalities: []string{"SPIM", "OCT"}})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	wantArtifacts := []string{
		ws.PlotPath(domain.OverviewPlotFile),
		ws.PlotPath("MITU01.html"),
		ws.PlotPath("MITU02.html"),
	}
	if len(resp.Artifacts) != len(wantArtifacts) {
		t.Fatalf("Expected %d artifacts, got %d", len(wantArtifacts), len(resp.Artifacts))
	}
	for i, want := range wantArtifacts {
		if resp.Artifacts[i] != want {
			t.Errorf("Artifact %d = %q, want %q", i, resp.Artifacts[i], want)
		}
		data, err := os.ReadFile(want)
		if err != nil {
			t.Errorf("Artifact %q not written: %v", want, err)
			continue
		}
		if string(data) != "<html>mock grid</html>" {
			t.Errorf("Artifact %q content = %q", want, string(data))
		}
	}

	grids := mockRenderer.GetGrids()
	if len(grids) != 3 {
		t.Fatalf("Expected 3 rendered grids, got %d", len(grids))
	}
	if grids[0].Title != domain.OverviewTitle {
		t.Errorf("First grid title = %q, want %q", grids[0].Title, domain.OverviewTitle)
	}
	if grids[0].Interactive {
		t.Error("Overview grid should not be interactive")
	}
	if grids[1].Title != "MITU01 - Stain x Sample" {
		t.Errorf("Second grid title = %q, want %q", grids[1].Title, "MITU01 - Stain x Sample")
	}
	if !grids[1].Interactive || !grids[2].Interactive {
		t.Error("Subject grids should be interactive")
	}
}

func TestPlotService_GenerateOverview_FiltersModalities(t *testing.T) {
	ws := newTestWorkspace(t)
	mockStore := mocks.NewMockCheckpointStore()
	seedPlotCheckpoints(mockStore)
	mockRenderer := mocks.NewMockGridRenderer()

	service := NewPlotService(mockStore, mockRenderer, ws)

	_, err := service.GenerateOverview(context.Background(), []string{"SPIM"})
	if err != nil {
		t.Fatalf("GenerateOverview failed: %v", err)
	}

	grids := mockRenderer.GetGrids()
	if len(grids) != 1 {
		t.Fatalf("Expected 1 grid, got %d", len(grids))
	}
	if len(grids[0].Stains) != 1 || grids[0].Stains[0] != "SPIM" {
		t.Errorf("Overview modalities = %v, want [SPIM]", grids[0].Stains)
	}
	if len(grids[0].Samples) != 1 || grids[0].Samples[0] != "MITU01" {
		t.Errorf("Overview subjects = %v, want [MITU01]", grids[0].Samples)
	}
}

func TestPlotService_GenerateOverview_MissingCheckpoint(t *testing.T) {
	service := NewPlotService(mocks.NewMockCheckpointStore(), mocks.NewMockGridRenderer(), newTestWorkspace(t))

	_, err := service.GenerateOverview(context.Background(), []string{"SPIM"})
	if err == nil {
		t.Fatal("Expected error when records checkpoint is missing")
	}
}

func TestPlotService_GenerateSubjectPlots_MissingCheckpoint(t *testing.T) {
	service := NewPlotService(mocks.NewMockCheckpointStore(), mocks.NewMockGridRenderer(), newTestWorkspace(t))

	_, err := service.GenerateSubjectPlots(context.Background())
	if err == nil {
		t.Fatal("Expected error when viewer rows checkpoint is missing")
	}
}

func TestPlotService_Execute_RenderFailure(t *testing.T) {
	ws := newTestWorkspace(t)
	mockStore := mocks.NewMockCheckpointStore()
	seedPlotCheckpoints(mockStore)
	mockRenderer := mocks.NewMockGridRenderer()
	mockRenderer.SetShouldFail(true, nil)

	service := NewPlotService(mockStore, mockRenderer, ws)

	if _, err := service.Execute(context.Background(), PlotRequest{OverviewModalities: []string{"SPIM"}}); err == nil {
		t.Fatal("Expected error when rendering fails")
	}
}
