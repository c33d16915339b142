package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Fixed viewer constants. The spatial scale is meters per voxel, identical
// on all three axes for this archive's volumes.
const (
	LayerTypeImage    = "image"
	LayerTabRendering = "rendering"
	ViewerLayout      = "yz"
	GPUMemoryLimit    = int64(5000000000)
	VoxelScaleMeters  = 0.0000036
	DimensionUnit     = "m"
)

// Dimension is one spatial axis scale, serialized as a [value, unit] pair.
type Dimension [2]any

// Dimensions is the fixed three-axis physical scale of a viewer config.
// Field order matters: the serialized object lists z, y, x.
type Dimensions struct {
	Z Dimension `json:"z"`
	Y Dimension `json:"y"`
	X Dimension `json:"x"`
}

// DefaultDimensions returns the archive's fixed voxel scale on all axes.
func DefaultDimensions() Dimensions {
	scale := Dimension{VoxelScaleMeters, DimensionUnit}
	return Dimensions{Z: scale, Y: scale, X: scale}
}

// NormalizedRange is the display range applied to a single-stain layer.
type NormalizedRange struct {
	Range [2]int `json:"range"`
}

// ShaderControls wraps the normalized display range of a layer.
type ShaderControls struct {
	Normalized NormalizedRange `json:"normalized"`
}

// Layer describes one renderable image source. Exactly one of
// ShaderControls (single-asset view) or Shader (multi-asset overlay) is
// populated; the serialized key order follows the field order here.
type Layer struct {
	Type           string          `json:"type"`
	Source         string          `json:"source"`
	Tab            string          `json:"tab"`
	ShaderControls *ShaderControls `json:"shaderControls,omitempty"`
	Shader         string          `json:"shader,omitempty"`
	Name           string          `json:"name"`
}

// NewImageLayer builds a single-asset layer with a normalized display range.
func NewImageLayer(source, name string, rangeMin, rangeMax int) Layer {
	return Layer{
		Type:   LayerTypeImage,
		Source: source,
		Tab:    LayerTabRendering,
		ShaderControls: &ShaderControls{
			Normalized: NormalizedRange{Range: [2]int{rangeMin, rangeMax}},
		},
		Name: name,
	}
}

// NewShadedLayer builds an overlay layer carrying a generated shader
// expression instead of a display range.
func NewShadedLayer(source, name, shader string) Layer {
	return Layer{
		Type:   LayerTypeImage,
		Source: source,
		Tab:    LayerTabRendering,
		Shader: shader,
		Name:   name,
	}
}

// LayerName composes the standard layer label from record fields.
func LayerName(subject, sample, stain, modality string) string {
	return fmt.Sprintf("%s-%s-%s-%s", subject, sample, stain, modality)
}

// ViewerConfig is the structure the external viewer consumes, transported as
// a percent-encoded JSON fragment. This system serializes it and never reads
// it back.
type ViewerConfig struct {
	Dimensions     Dimensions `json:"dimensions"`
	Layers         []Layer    `json:"layers"`
	GPUMemoryLimit int64      `json:"gpuMemoryLimit"`
	Layout         string     `json:"layout"`
}

// NewViewerConfig assembles a config around the given layers with the fixed
// scale, memory limit and layout.
func NewViewerConfig(layers []Layer) ViewerConfig {
	return ViewerConfig{
		Dimensions:     DefaultDimensions(),
		Layers:         layers,
		GPUMemoryLimit: GPUMemoryLimit,
		Layout:         ViewerLayout,
	}
}

// EncodeURL serializes the config and appends it, percent-encoded, to the
// viewer base URL. The result round-trips through standard percent-decoding
// and JSON parsing.
func (c ViewerConfig) EncodeURL(baseURL string) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to serialize viewer config: %w", err)
	}
	return baseURL + url.PathEscape(string(data)), nil
}
