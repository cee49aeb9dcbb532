package shader

import (
	"fmt"
	"sort"
	"strings"
)

// Attribute semantics with a fixed location. Any other semantic is not bound.
const (
	AttribPosition  = "POSITION"
	AttribNormal    = "NORMAL"
	AttribTexCoord0 = "TEXCOORD_0"
)

// Fixed attribute locations bound before every link.
const (
	LocationPosition uint32 = iota
	LocationNormal
	LocationTexCoord0
)

// AttribLocation returns the fixed location of a recognized vertex attribute semantic.
//
// Parameters:
//   - semantic: the glTF attribute semantic
//
// Returns:
//   - uint32: the location
//   - bool: false when the semantic is not recognized
func AttribLocation(semantic string) (uint32, bool) {
	switch semantic {
	case AttribPosition:
		return LocationPosition, true
	case AttribNormal:
		return LocationNormal, true
	case AttribTexCoord0:
		return LocationTexCoord0, true
	default:
		return 0, false
	}
}

// Flags selects one permutation of a shader template. The zero value enables nothing.
type Flags struct {
	Position  bool
	Normal    bool
	TexCoord0 bool

	BaseColorTexture         bool
	MetallicRoughnessTexture bool
	OcclusionTexture         bool
	EmissiveTexture          bool

	// IBL enables image based lighting from the environment maps.
	IBL bool
	// LOD is set when the driver supports explicit LOD sampling of the radiance map.
	LOD bool
	// Lights is the number of active point lights.
	Lights int

	// Extra holds additional integer defines. Zero values are omitted like any other inactive flag.
	Extra map[string]int
}

// SetAttribute marks a recognized vertex attribute as present.
//
// Parameters:
//   - semantic: the glTF attribute semantic
//
// Returns:
//   - bool: false when the semantic is not one of the recognized attributes
func (f *Flags) SetAttribute(semantic string) bool {
	switch semantic {
	case AttribPosition:
		f.Position = true
	case AttribNormal:
		f.Normal = true
	case AttribTexCoord0:
		f.TexCoord0 = true
	default:
		return false
	}
	return true
}

// Define is a single preprocessor definition.
type Define struct {
	Name  string
	Value int
}

func (d Define) String() string {
	return fmt.Sprintf("#define %s %d", d.Name, d.Value)
}

func boolDefine(name string, on bool) Define {
	if on {
		return Define{Name: name, Value: 1}
	}
	return Define{Name: name}
}

// Defines lists the active definitions. Inactive flags are omitted and the result is sorted by its
// rendered line so logically equal flag sets yield identical output.
//
// Returns:
//   - []Define: the active defines in canonical order
func (f Flags) Defines() []Define {
	all := []Define{
		boolDefine("HAVE_POSITION", f.Position),
		boolDefine("HAVE_NORMAL", f.Normal),
		boolDefine("HAVE_TEXCOORD_0", f.TexCoord0),
		boolDefine("HAVE_BASE_COLOR_TEXTURE", f.BaseColorTexture),
		boolDefine("HAVE_METALLIC_ROUGHNESS_TEXTURE", f.MetallicRoughnessTexture),
		boolDefine("HAVE_OCCLUSION_TEXTURE", f.OcclusionTexture),
		boolDefine("HAVE_EMISSIVE_TEXTURE", f.EmissiveTexture),
		boolDefine("HAVE_IBL", f.IBL),
		boolDefine("HAVE_LOD", f.LOD),
		{Name: "HAVE_LIGHTS", Value: f.Lights},
	}
	for name, v := range f.Extra {
		all = append(all, Define{Name: name, Value: v})
	}

	active := all[:0]
	for _, d := range all {
		if d.Value != 0 {
			active = append(active, d)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].String() < active[j].String()
	})
	return active
}

// Header renders the canonical define block: one "#define NAME VALUE" line per active flag, sorted,
// joined with newlines.
//
// Returns:
//   - string: the header text, empty when no flag is active
func (f Flags) Header() string {
	defs := f.Defines()
	lines := make([]string, len(defs))
	for i, d := range defs {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// Key returns the cache key of this permutation of the named template.
//
// Parameters:
//   - name: the template name
//
// Returns:
//   - string: the template name and the canonical header separated by a space
func (f Flags) Key(name string) string {
	return name + " " + f.Header()
}
