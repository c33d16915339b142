package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// The first three overlay channels always map to the primary display
// channels, so red, green and blue come first in every palette.
var priorityColors = []string{"#FF0000", "#00FF00", "#0000FF"}

// extendedPalette supplies additional categorical colors once the primary
// triple is exhausted.
var extendedPalette = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// PriorityPalette returns exactly n hex colors: the first n of red, green,
// blue for n <= 3, and the full triple followed by n-3 colors from the
// extended palette for larger n, cycling when the extension runs out.
func PriorityPalette(n int) []string {
	if n <= 0 {
		return []string{}
	}
	if n <= len(priorityColors) {
		return append([]string{}, priorityColors[:n]...)
	}

	palette := append([]string{}, priorityColors...)
	for i := 0; i < n-len(priorityColors); i++ {
		palette = append(palette, extendedPalette[i%len(extendedPalette)])
	}
	return palette
}

// ShaderParams carries everything the GLSL serializer needs: the layer color
// decoded into 0-1 channel floats plus the contrast and intensity
// multipliers. Keeping the numbers structured here keeps formatting concerns
// out of the URL-building logic.
type ShaderParams struct {
	R         float64
	G         float64
	B         float64
	Contrast  float64
	Intensity float64
}

// NewShaderParams decodes a "#RRGGBB" color into channel floats.
func NewShaderParams(hexColor string, contrast, intensity float64) (ShaderParams, error) {
	if len(hexColor) != 7 || hexColor[0] != '#' {
		return ShaderParams{}, fmt.Errorf("failed to decode color %q: want #RRGGBB", hexColor)
	}

	channels := [3]float64{}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(hexColor[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return ShaderParams{}, fmt.Errorf("failed to decode color %q: %w", hexColor, err)
		}
		channels[i] = float64(v) / 255.0
	}

	return ShaderParams{
		R:         channels[0],
		G:         channels[1],
		B:         channels[2],
		Contrast:  contrast,
		Intensity: intensity,
	}, nil
}

const glslTemplate = `
    #uicontrol float brightness slider(min=0.0, max=100.0, default=50.0)  // Brightness control UI
    void main() {
        // Normalize the data and adjust by contrast and brightness multipliers
        float intensity = toNormalized(getDataValue()) * %s;  // Adjust contrast
        float brightness_adjusted = intensity * (brightness / 50.0);  // Brightness adjustment, scaled around default 50
        
        // Define the RGB color based on the given hex color and apply intensity and brightness
        vec3 result = vec3(%s, %s, %s) * brightness_adjusted * %s;
        
        // Emit the final RGB color
        emitRGB(result);
    }
    `

// GLSL renders the shader expression consumed by the viewer's rendering
// pipeline. The expression exposes a 0-100 brightness slider defaulting to
// 50, scales the normalized data value by the contrast multiplier, and
// multiplies the fixed RGB triple by the brightness-adjusted intensity.
func (p ShaderParams) GLSL() string {
	return fmt.Sprintf(glslTemplate,
		formatShaderFloat(p.Contrast),
		formatShaderFloat(p.R),
		formatShaderFloat(p.G),
		formatShaderFloat(p.B),
		formatShaderFloat(p.Intensity),
	)
}

// formatShaderFloat renders a float in shortest round-trip form, keeping a
// trailing .0 on integral values so 100 stays a GLSL float literal.
func formatShaderFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
