package assetname

import (
	"strings"
)

// KeyValue is one hyphenated token extracted from a filename stem,
// e.g. "stain-NeuN" becomes {Key: "stain", Value: "NeuN"}.
type KeyValue struct {
	Key   string
	Value string
}

// Fields holds everything recoverable from a single asset path. Any field
// may be empty: malformed or absent parts degrade to missing values, never
// to errors.
type Fields struct {
	Name      string
	KeyValues []KeyValue
	Subject   string
	Modality  string
	Extension string
}

// Parse extracts all structured fields from an asset path. It is pure and
// idempotent: the same path always yields the same Fields.
func Parse(path string) Fields {
	name := baseName(path)
	return Fields{
		Name:      name,
		KeyValues: ExtractKeyValues(name),
		Subject:   ExtractSubject(path),
		Modality:  ExtractModality(name, path),
		Extension: ExtractExtension(name),
	}
}

// ExtractKeyValues splits the filename stem (everything before the first
// dot) on underscores and turns each token containing a hyphen into a
// key-value pair, splitting at the first hyphen so values keep any later
// hyphens. Tokens without a hyphen are discarded. Pairs are returned in
// token order; duplicate keys are the caller's concern (last one wins when
// folded into a record).
func ExtractKeyValues(name string) []KeyValue {
	stem, _, _ := strings.Cut(name, ".")

	var pairs []KeyValue
	for _, token := range strings.Split(stem, "_") {
		key, value, ok := strings.Cut(token, "-")
		if !ok {
			continue
		}
		pairs = append(pairs, KeyValue{Key: key, Value: value})
	}
	return pairs
}

// ExtractSubject scans every path segment except the final filename for the
// first one starting with "sub-" and returns the remainder after the marker.
// Returns "" when no segment matches.
func ExtractSubject(path string) string {
	parts := strings.Split(path, "/")
	for _, part := range parts[:len(parts)-1] {
		if strings.HasPrefix(part, "sub-") {
			return strings.TrimPrefix(part, "sub-")
		}
	}
	return ""
}

// ExtractModality returns the terminal underscore token of the filename stem,
// which in this naming convention carries the acquisition modality
// (e.g. "sub-01_stain-NeuN_SPIM.ome.zarr" yields "SPIM").
//
// The token is only trusted when the filename itself contains both an
// underscore and the "sub-" marker, and the full path continues past the
// first "sub-" occurrence with at least one more segment. Anything else
// returns "".
func ExtractModality(name, path string) string {
	if !strings.Contains(name, "_") || !strings.Contains(name, "sub-") {
		return ""
	}

	_, after, ok := strings.Cut(path, "sub-")
	if !ok || !strings.Contains(after, "/") {
		return ""
	}

	tokens := strings.Split(name, "_")
	modality, _, _ := strings.Cut(tokens[len(tokens)-1], ".")
	return modality
}

// ExtractExtension returns everything after the first dot of the filename,
// preserving compound extensions like "ome.zarr". Returns "" when the name
// has no dot.
func ExtractExtension(name string) string {
	_, ext, _ := strings.Cut(name, ".")
	return ext
}

func baseName(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}
