package domain

import (
	"sort"
	"time"

	"dandiscope/pkg/assetname"
)

// AssetDescriptor identifies one remote asset as returned by the archive
// listing. Descriptors are immutable once retrieved; the AssetID is the
// stable handle used for content-URL resolution, so downstream rows never
// depend on listing position.
type AssetDescriptor struct {
	AssetID  string    `json:"asset_id"`
	Path     string    `json:"path"`
	Modified time.Time `json:"modified"`
}

// AssetRecord is one normalized table row derived from exactly one
// descriptor. Anticipated filename keys get named fields; anything else
// lands in Extra. Empty strings mean the field was absent, which is a data
// condition rather than an error.
type AssetRecord struct {
	AssetID   string            `json:"asset_id"`
	Subject   string            `json:"subject,omitempty"`
	Session   string            `json:"session,omitempty"`
	Sample    string            `json:"sample,omitempty"`
	Stain     string            `json:"stain,omitempty"`
	Task      string            `json:"task,omitempty"`
	Run       string            `json:"run,omitempty"`
	Chunk     string            `json:"chunk,omitempty"`
	Modality  string            `json:"modality,omitempty"`
	Extension string            `json:"extension"`
	Path      string            `json:"path"`
	Modified  time.Time         `json:"modified"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// NewAssetRecord folds parsed filename fields and descriptor attributes into
// a record. Assignment order is significant and must not change: key-value
// pairs apply first (later duplicates overwrite earlier ones), then the
// path-derived subject when present, then the path, then the derived
// modality when present, then extension and modified unconditionally.
func NewAssetRecord(desc AssetDescriptor, fields assetname.Fields) AssetRecord {
	rec := AssetRecord{AssetID: desc.AssetID}

	for _, kv := range fields.KeyValues {
		rec.applyKeyValue(kv.Key, kv.Value)
	}

	if fields.Subject != "" {
		rec.Subject = fields.Subject
	}
	rec.Path = desc.Path
	if fields.Modality != "" {
		rec.Modality = fields.Modality
	}
	rec.Extension = fields.Extension
	rec.Modified = desc.Modified

	return rec
}

// ParseAsset parses the descriptor's path and folds the result into a
// record.
func ParseAsset(desc AssetDescriptor) AssetRecord {
	return NewAssetRecord(desc, assetname.Parse(desc.Path))
}

func (r *AssetRecord) applyKeyValue(key, value string) {
	switch key {
	case "sub", "subject":
		r.Subject = value
	case "ses", "session":
		r.Session = value
	case "sample":
		r.Sample = value
	case "stain":
		r.Stain = value
	case "task":
		r.Task = value
	case "run":
		r.Run = value
	case "chunk":
		r.Chunk = value
	case "modality":
		r.Modality = value
	case "extension":
		r.Extension = value
	case "path", "modified":
		// Always replaced by the descriptor values during the fold.
	default:
		if r.Extra == nil {
			r.Extra = map[string]string{}
		}
		r.Extra[key] = value
	}
}

// HasModality reports whether the record's modality is one of the given set.
func (r *AssetRecord) HasModality(modalities []string) bool {
	for _, m := range modalities {
		if r.Modality == m {
			return true
		}
	}
	return false
}

// OverlapStain is the sentinel stain label carried by synthetic rows whose
// URL combines every stain of a (subject, sample) group into one view.
const OverlapStain = "OVERLAP"

// ViewerRow is one row of the augmented table produced by the URL-building
// stage: either a per-asset row carrying its descriptor ID, or a synthetic
// overlap row (empty AssetID, Stain set to OverlapStain).
type ViewerRow struct {
	AssetID  string `json:"asset_id,omitempty"`
	Subject  string `json:"subject"`
	Sample   string `json:"sample"`
	Stain    string `json:"stain"`
	Modality string `json:"modality"`
	URL      string `json:"url"`
}

// IsOverlap reports whether the row is a synthetic overlap row.
func (v ViewerRow) IsOverlap() bool {
	return v.Stain == OverlapStain
}

// RowGroup is one (subject, sample) partition of viewer rows, preserving the
// original row order of its members.
type RowGroup struct {
	Subject string
	Sample  string
	Rows    []ViewerRow
}

// GroupBySubjectSample partitions rows by (subject, sample) and returns the
// groups in ascending (subject, sample) order. Row order inside each group
// follows the input order, which is what keeps palette colors aligned with
// overlay layers downstream.
func GroupBySubjectSample(rows []ViewerRow) []RowGroup {
	byKey := map[[2]string]*RowGroup{}
	var keys [][2]string

	for _, row := range rows {
		key := [2]string{row.Subject, row.Sample}
		group, ok := byKey[key]
		if !ok {
			group = &RowGroup{Subject: row.Subject, Sample: row.Sample}
			byKey[key] = group
			keys = append(keys, key)
		}
		group.Rows = append(group.Rows, row)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	groups := make([]RowGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, *byKey[key])
	}
	return groups
}
