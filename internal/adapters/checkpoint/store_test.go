package checkpoint

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"dandiscope/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(
		filepath.Join(dir, "checkpoints", "records.json"),
		filepath.Join(dir, "checkpoints", "viewer_rows.json"),
	)
}

func TestStore_SaveAndLoadRecords(t *testing.T) {
	store := newTestStore(t)

	records := []domain.AssetRecord{
		{
			AssetID:   "abc-123",
			Subject:   "MITU01",
			Sample:    "178",
			Stain:     "LEC",
			Modality:  "SPIM",
			Extension: "ome.zarr",
			Path:      "sub-MITU01/ses-1/micr/sub-MITU01_sample-178_stain-LEC_SPIM.ome.zarr",
			Modified:  time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC),
			Extra:     map[string]string{"ses": "1"},
		},
		{
			AssetID:  "def-456",
			Subject:  "MITU02",
			Modality: "OCT",
			Modified: time.Date(2023, 4, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	if store.RecordsExist() {
		t.Error("RecordsExist() = true before save")
	}

	if err := store.SaveRecords(records); err != nil {
		t.Fatalf("SaveRecords() returned error: %v", err)
	}

	if !store.RecordsExist() {
		t.Error("RecordsExist() = false after save")
	}

	loaded, err := store.LoadRecords()
	if err != nil {
		t.Fatalf("LoadRecords() returned error: %v", err)
	}

	if !reflect.DeepEqual(loaded, records) {
		t.Errorf("LoadRecords() = %+v, want %+v", loaded, records)
	}
}

func TestStore_SaveAndLoadViewerRows(t *testing.T) {
	store := newTestStore(t)

	rows := []domain.ViewerRow{
		{
			AssetID:  "abc-123",
			Subject:  "MITU01",
			Sample:   "178",
			Stain:    "LEC",
			Modality: "SPIM",
			URL:      "https://neuroglancer-demo.appspot.com/#!%7B%7D",
		},
		{
			Subject:  "MITU01",
			Sample:   "178",
			Stain:    domain.OverlapStain,
			Modality: "SPIM",
			URL:      "https://neuroglancer-demo.appspot.com/#!%7B%22x%22%3A1%7D",
		},
	}

	if store.ViewerRowsExist() {
		t.Error("ViewerRowsExist() = true before save")
	}

	if err := store.SaveViewerRows(rows); err != nil {
		t.Fatalf("SaveViewerRows() returned error: %v", err)
	}

	if !store.ViewerRowsExist() {
		t.Error("ViewerRowsExist() = false after save")
	}

	loaded, err := store.LoadViewerRows()
	if err != nil {
		t.Fatalf("LoadViewerRows() returned error: %v", err)
	}

	if !reflect.DeepEqual(loaded, rows) {
		t.Errorf("LoadViewerRows() = %+v, want %+v", loaded, rows)
	}
}

func TestStore_LoadRecords_Missing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadRecords()
	if err == nil {
		t.Fatal("expected error loading missing records checkpoint, got nil")
	}
	if !strings.Contains(err.Error(), "no records checkpoint") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestStore_LoadViewerRows_Missing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadViewerRows()
	if err == nil {
		t.Fatal("expected error loading missing viewer rows checkpoint, got nil")
	}
}

func TestStore_LoadRecords_Corrupt(t *testing.T) {
	dir := t.TempDir()
	recordsPath := filepath.Join(dir, "records.json")
	store := NewStore(recordsPath, filepath.Join(dir, "viewer_rows.json"))

	if err := os.WriteFile(recordsPath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to seed corrupt checkpoint: %v", err)
	}

	_, err := store.LoadRecords()
	if err == nil {
		t.Fatal("expected error loading corrupt checkpoint, got nil")
	}
}

func TestStore_SaveRecords_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	recordsPath := filepath.Join(dir, "deep", "nested", "records.json")
	store := NewStore(recordsPath, filepath.Join(dir, "viewer_rows.json"))

	if err := store.SaveRecords([]domain.AssetRecord{}); err != nil {
		t.Fatalf("SaveRecords() returned error: %v", err)
	}

	if _, err := os.Stat(recordsPath); err != nil {
		t.Fatalf("expected checkpoint file to exist: %v", err)
	}
}

func TestStore_WritesIndentedJSON(t *testing.T) {
	store := newTestStore(t)

	records := []domain.AssetRecord{{AssetID: "abc", Path: "sub-A/file.txt"}}
	if err := store.SaveRecords(records); err != nil {
		t.Fatalf("SaveRecords() returned error: %v", err)
	}

	data, err := os.ReadFile(store.recordsPath)
	if err != nil {
		t.Fatalf("failed to read checkpoint: %v", err)
	}

	if !strings.Contains(string(data), "\n  ") {
		t.Error("checkpoint should be written with indentation")
	}
}
