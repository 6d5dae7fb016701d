// Package profile implements the static profile catalog (spec.md §6.1):
// looking up a target name like "ps_5_0" yields the stage, shader-model
// version, and feature-level it compiles against. Grounded on
// get_target_info's profiles[] table in the original toolchain.
package profile

// Stage is the shader pipeline stage a profile targets.
type Stage uint8

const (
	StageVertex Stage = iota
	StagePixel
	StageCompute
	StageHull
	StageDomain
	StageGeometry
	StageEffect
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StagePixel:
		return "pixel"
	case StageCompute:
		return "compute"
	case StageHull:
		return "hull"
	case StageDomain:
		return "domain"
	case StageGeometry:
		return "geometry"
	case StageEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// Descriptor is the result of a catalog lookup, per spec.md §6.1:
// "{stage, major, minor, level_major, level_minor, software_flag}".
type Descriptor struct {
	Name       string
	Stage      Stage
	Major      uint8
	Minor      uint8
	LevelMajor uint8
	LevelMinor uint8
	Software   bool
}

// Legacy reports whether this profile targets the legacy assembly
// back end (major version < 4), per spec.md §4.7's closing paragraph.
func (d Descriptor) Legacy() bool {
	return d.Major < 4
}

var catalog = buildCatalog()

// Lookup resolves a profile name against the static catalog, returning
// false if the name is not recognized.
func Lookup(name string) (Descriptor, bool) {
	d, ok := catalog[name]
	return d, ok
}

func buildCatalog() map[string]Descriptor {
	m := map[string]Descriptor{}
	add := func(name string, stage Stage, major, minor, levelMajor, levelMinor uint8, sw bool) {
		m[name] = Descriptor{Name: name, Stage: stage, Major: major, Minor: minor, LevelMajor: levelMajor, LevelMinor: levelMinor, Software: sw}
	}

	add("cs_4_0", StageCompute, 4, 0, 0, 0, false)
	add("cs_4_1", StageCompute, 4, 1, 0, 0, false)
	add("cs_5_0", StageCompute, 5, 0, 0, 0, false)

	add("ds_5_0", StageDomain, 5, 0, 0, 0, false)

	add("fx_2_0", StageEffect, 2, 0, 0, 0, false)
	add("fx_4_0", StageEffect, 4, 0, 0, 0, false)
	add("fx_4_1", StageEffect, 4, 1, 0, 0, false)
	add("fx_5_0", StageEffect, 5, 0, 0, 0, false)

	add("gs_4_0", StageGeometry, 4, 0, 0, 0, false)
	add("gs_4_1", StageGeometry, 4, 1, 0, 0, false)
	add("gs_5_0", StageGeometry, 5, 0, 0, 0, false)

	add("hs_5_0", StageHull, 5, 0, 0, 0, false)

	// Pixel shader models 1-3, including the 2.a/2.b disambiguated
	// minor-version encodings and the sm.sw software variants.
	add("ps_1_0", StagePixel, 1, 0, 0, 0, false)
	add("ps_1_1", StagePixel, 1, 1, 0, 0, false)
	add("ps_1_2", StagePixel, 1, 2, 0, 0, false)
	add("ps_1_3", StagePixel, 1, 3, 0, 0, false)
	add("ps_1_4", StagePixel, 1, 4, 0, 0, false)
	add("ps_2_0", StagePixel, 2, 0, 0, 0, false)
	add("ps_2_a", StagePixel, 2, 1, 0, 0, false)
	add("ps_2_b", StagePixel, 2, 2, 0, 0, false)
	add("ps_2_sw", StagePixel, 2, 0, 0, 0, true)
	add("ps_3_0", StagePixel, 3, 0, 0, 0, false)
	add("ps_3_sw", StagePixel, 3, 0, 0, 0, true)
	add("ps_4_0", StagePixel, 4, 0, 0, 0, false)
	add("ps_4_0_level_9_0", StagePixel, 4, 0, 9, 0, false)
	add("ps_4_0_level_9_1", StagePixel, 4, 0, 9, 1, false)
	add("ps_4_0_level_9_3", StagePixel, 4, 0, 9, 3, false)
	add("ps_4_1", StagePixel, 4, 1, 0, 0, false)
	add("ps_5_0", StagePixel, 5, 0, 0, 0, false)

	add("vs_1_0", StageVertex, 1, 0, 0, 0, false)
	add("vs_1_1", StageVertex, 1, 1, 0, 0, false)
	add("vs_2_0", StageVertex, 2, 0, 0, 0, false)
	add("vs_2_a", StageVertex, 2, 1, 0, 0, false)
	add("vs_2_sw", StageVertex, 2, 0, 0, 0, true)
	add("vs_3_0", StageVertex, 3, 0, 0, 0, false)
	add("vs_3_sw", StageVertex, 3, 0, 0, 0, true)
	add("vs_4_0", StageVertex, 4, 0, 0, 0, false)
	add("vs_4_0_level_9_0", StageVertex, 4, 0, 9, 0, false)
	add("vs_4_0_level_9_1", StageVertex, 4, 0, 9, 1, false)
	add("vs_4_0_level_9_3", StageVertex, 4, 0, 9, 3, false)
	add("vs_4_1", StageVertex, 4, 1, 0, 0, false)
	add("vs_5_0", StageVertex, 5, 0, 0, 0, false)

	return m
}
