package material

import "github.com/go-gl/mathgl/mgl32"

// MaterialBuilderOption is a functional option for configuring a Material via NewMaterial.
type MaterialBuilderOption func(*material)

func withIndex(index int) MaterialBuilderOption {
	return func(m *material) {
		m.index = index
	}
}

// WithBaseColorFactor sets the RGBA multiplier of the base color.
//
// Parameters:
//   - c: the base color factor
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color factor to a material
func WithBaseColorFactor(c mgl32.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.baseColorFactor = c
	}
}

// WithMetallicFactor sets the metalness multiplier.
//
// Parameters:
//   - f: the metallic factor, 0 for dielectrics and 1 for metals
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic factor to a material
func WithMetallicFactor(f float32) MaterialBuilderOption {
	return func(m *material) {
		m.metallicFactor = f
	}
}

// WithRoughnessFactor sets the roughness multiplier.
//
// Parameters:
//   - f: the roughness factor
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness factor to a material
func WithRoughnessFactor(f float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughnessFactor = f
	}
}

// WithEmissiveFactor sets the emitted RGB multiplier.
//
// Parameters:
//   - c: the emissive factor
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive factor to a material
func WithEmissiveFactor(c mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.emissiveFactor = c
	}
}

// WithTexture sets the texture bound to a slot. A nil binding clears the slot.
//
// Parameters:
//   - slot: the texture slot
//   - b: the texture binding
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture to a material
func WithTexture(slot Slot, b *TextureBinding) MaterialBuilderOption {
	return func(m *material) {
		if slot >= 0 && slot < slotCount {
			m.textures[slot] = b
		}
	}
}
