package runner

import (
	"fmt"
	"strings"
)

// shaderModels lists recognized "shader model >=/<" tokens in ascending
// order, mirroring the original's model_strings table.
var shaderModels = []string{"2_0", "3_0", "4_0", "4_1", "5_0", "5_1", "6_0"}

// CompileOption is one of the named compile-option keywords a
// "[require] options:" line may list.
type CompileOption int

const (
	OptionRowMajor CompileOption = 1 << iota
	OptionColumnMajor
	OptionBackcompat
	OptionUnboundedDescriptorArrays
)

// ShaderCap is a named capability flag a "[require]" section can
// demand, grounded on the original's shader_cap_names table.
type ShaderCap int

const (
	CapClipPlanes ShaderCap = iota
	CapDepthBounds
	CapFloat64
	CapFog
	CapGeometryShader
	CapInt64
	CapPointSize
	CapROV
	CapWaveOps
)

var shaderCapNames = map[string]ShaderCap{
	"clip-planes":     CapClipPlanes,
	"depth-bounds":    CapDepthBounds,
	"float64":         CapFloat64,
	"fog":             CapFog,
	"geometry-shader": CapGeometryShader,
	"int64":           CapInt64,
	"point-size":      CapPointSize,
	"rov":             CapROV,
	"wave-ops":        CapWaveOps,
}

// RequireDirective accumulates the constraints declared across a
// "[require]" section's body lines.
type RequireDirective struct {
	MinModel string
	MaxModel string
	Options  CompileOption
	Caps     map[ShaderCap]bool
}

// parseRequireLine folds one "[require]" body line into d (creating it
// on first use) and returns the updated directive.
func parseRequireLine(d *RequireDirective, line string) (*RequireDirective, error) {
	if d == nil {
		d = &RequireDirective{}
	}
	if d.Caps == nil {
		d.Caps = map[ShaderCap]bool{}
	}

	switch {
	case strings.HasPrefix(line, "shader model >="):
		model := strings.TrimSpace(strings.TrimPrefix(line, "shader model >="))
		if !validModel(model) {
			return d, fmt.Errorf("unknown shader model %q", model)
		}
		d.MinModel = model
		return d, nil
	case strings.HasPrefix(line, "shader model <"):
		model := strings.TrimSpace(strings.TrimPrefix(line, "shader model <"))
		if !validModel(model) {
			return d, fmt.Errorf("unknown shader model %q", model)
		}
		d.MaxModel = model
		return d, nil
	case strings.HasPrefix(line, "options:"):
		rest := strings.Fields(strings.TrimPrefix(line, "options:"))
		d.Options = 0
		for _, name := range rest {
			switch name {
			case "none":
			case "row-major":
				d.Options |= OptionRowMajor
			case "column-major":
				d.Options |= OptionColumnMajor
			case "backcompat":
				d.Options |= OptionBackcompat
			case "unbounded-descriptor-arrays":
				d.Options |= OptionUnboundedDescriptorArrays
			default:
				return d, fmt.Errorf("unknown compile option %q", name)
			}
		}
		return d, nil
	default:
		sc, ok := shaderCapNames[strings.TrimSpace(line)]
		if !ok {
			return d, fmt.Errorf("unknown require directive %q", line)
		}
		d.Caps[sc] = true
		return d, nil
	}
}

func validModel(s string) bool {
	for _, m := range shaderModels {
		if m == s {
			return true
		}
	}
	return false
}
