package material

import (
	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Slot identifies one of the material's texture inputs. Slots bind in declaration order.
type Slot int

const (
	SlotBaseColor Slot = iota
	SlotMetallicRoughness
	SlotOcclusion
	SlotEmissive

	slotCount
)

// Uniform returns the sampler uniform the slot binds to.
func (s Slot) Uniform() string {
	switch s {
	case SlotBaseColor:
		return "albedoSampler"
	case SlotMetallicRoughness:
		return "metallicRoughnessSampler"
	case SlotOcclusion:
		return "occlusionSampler"
	case SlotEmissive:
		return "emissiveSampler"
	}
	return ""
}

// TextureBinding is a texture together with the sampler state applied when it is bound.
type TextureBinding struct {
	Texture *renderer.Texture
	Sampler common.SamplerStagingData
}

// material is the implementation of the Material interface.
type material struct {
	index           int
	baseColorFactor mgl32.Vec4
	metallicFactor  float32
	roughnessFactor float32
	emissiveFactor  mgl32.Vec3
	textures        [slotCount]*TextureBinding
}

// Material defines the surface inputs of a draw: scalar factors set as uniforms and up to four
// textures, each of which enables a permutation flag.
type Material interface {
	// Index returns the document material index, or -1 for the default material.
	//
	// Returns:
	//   - int: the material index
	Index() int

	// BaseColorFactor returns the linear RGBA multiplier of the base color.
	//
	// Returns:
	//   - mgl32.Vec4: the factor
	BaseColorFactor() mgl32.Vec4

	// MetallicFactor returns the metalness multiplier.
	//
	// Returns:
	//   - float32: the factor
	MetallicFactor() float32

	// RoughnessFactor returns the roughness multiplier.
	//
	// Returns:
	//   - float32: the factor
	RoughnessFactor() float32

	// EmissiveFactor returns the emitted RGB multiplier.
	//
	// Returns:
	//   - mgl32.Vec3: the factor
	EmissiveFactor() mgl32.Vec3

	// Texture returns the binding of a slot, or nil when the material has no texture there.
	//
	// Parameters:
	//   - slot: the texture slot
	//
	// Returns:
	//   - *TextureBinding: the binding or nil
	Texture(slot Slot) *TextureBinding

	// ApplyFlags enables the texture flags of every present slot.
	//
	// Parameters:
	//   - flags: the flag set to update
	ApplyFlags(flags *shader.Flags)

	// Bind sets the factor uniforms and binds each present texture at consecutive units starting at
	// firstUnit, pointing its sampler uniform at the unit. A program must be in use.
	//
	// Parameters:
	//   - device: the device to bind on
	//   - firstUnit: the first free texture unit
	//
	// Returns:
	//   - int: the next free texture unit
	Bind(device renderer.Device, firstUnit int) int
}

var _ Material = &material{}

// NewMaterial creates a material with the glTF defaults (white base color, fully metallic and rough,
// no emission, no textures) and applies options.
//
// Parameters:
//   - options: functional options for the material
//
// Returns:
//   - Material: the new material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		index:           -1,
		baseColorFactor: mgl32.Vec4{1, 1, 1, 1},
		metallicFactor:  1,
		roughnessFactor: 1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Default returns the material used by primitives without one.
func Default() Material {
	return NewMaterial()
}

// FromDocument resolves a document material. Texture references resolve through the document's
// texture table to the image's uploaded texture, so materials sharing an image share the handle.
//
// Parameters:
//   - doc: the validated document
//   - index: the material index
//   - images: the uploaded texture of each document image
//
// Returns:
//   - Material: the resolved material
//   - error: MalformedDocument if a texture has no source image
func FromDocument(doc *loader.Document, index int, images []*renderer.Texture) (Material, error) {
	src := doc.Materials[index]
	opts := []MaterialBuilderOption{withIndex(index)}

	if pbr := src.PbrMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			opts = append(opts, WithBaseColorFactor(mgl32.Vec4(*pbr.BaseColorFactor)))
		}
		if pbr.MetallicFactor != nil {
			opts = append(opts, WithMetallicFactor(*pbr.MetallicFactor))
		}
		if pbr.RoughnessFactor != nil {
			opts = append(opts, WithRoughnessFactor(*pbr.RoughnessFactor))
		}
	}
	if src.EmissiveFactor != nil {
		opts = append(opts, WithEmissiveFactor(mgl32.Vec3(*src.EmissiveFactor)))
	}

	for slot, info := range slotInfos(&src) {
		if info == nil {
			continue
		}
		binding, err := resolveTexture(doc, info.Index, images)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithTexture(slot, binding))
	}
	return NewMaterial(opts...), nil
}

func slotInfos(m *loader.Material) map[Slot]*loader.TextureInfo {
	out := map[Slot]*loader.TextureInfo{
		SlotOcclusion: m.OcclusionTexture,
		SlotEmissive:  m.EmissiveTexture,
	}
	if pbr := m.PbrMetallicRoughness; pbr != nil {
		out[SlotBaseColor] = pbr.BaseColorTexture
		out[SlotMetallicRoughness] = pbr.MetallicRoughnessTexture
	}
	return out
}

// resolveTexture maps a texture index to its image's texture and its sampler state, with absent
// sampler fields defaulting to linear filtering and repeat wrapping.
func resolveTexture(doc *loader.Document, index int, images []*renderer.Texture) (*TextureBinding, error) {
	tex := doc.Textures[index]
	if tex.Source == nil || *tex.Source >= len(images) {
		return nil, common.NewError(common.KindMalformedDocument, "textures.source", index, "texture has no source image")
	}

	sampler := common.DefaultSampler
	if tex.Sampler != nil {
		s := doc.Samplers[*tex.Sampler]
		sampler.MagFilter = int32(common.ValueOr(s.MagFilter, common.FilterLinear))
		sampler.MinFilter = int32(common.ValueOr(s.MinFilter, common.FilterLinear))
		sampler.WrapS = int32(common.ValueOr(s.WrapS, common.WrapRepeat))
		sampler.WrapT = int32(common.ValueOr(s.WrapT, common.WrapRepeat))
	}
	return &TextureBinding{Texture: images[*tex.Source], Sampler: sampler}, nil
}

func (m *material) Index() int {
	return m.index
}

func (m *material) BaseColorFactor() mgl32.Vec4 {
	return m.baseColorFactor
}

func (m *material) MetallicFactor() float32 {
	return m.metallicFactor
}

func (m *material) RoughnessFactor() float32 {
	return m.roughnessFactor
}

func (m *material) EmissiveFactor() mgl32.Vec3 {
	return m.emissiveFactor
}

func (m *material) Texture(slot Slot) *TextureBinding {
	if slot < 0 || slot >= slotCount {
		return nil
	}
	return m.textures[slot]
}

func (m *material) ApplyFlags(flags *shader.Flags) {
	flags.BaseColorTexture = m.textures[SlotBaseColor] != nil
	flags.MetallicRoughnessTexture = m.textures[SlotMetallicRoughness] != nil
	flags.OcclusionTexture = m.textures[SlotOcclusion] != nil
	flags.EmissiveTexture = m.textures[SlotEmissive] != nil
}

func (m *material) Bind(device renderer.Device, firstUnit int) int {
	device.SetUniformVec4("baseColorFactor", m.baseColorFactor)
	device.SetUniformFloat("metallicFactor", m.metallicFactor)
	device.SetUniformFloat("roughnessFactor", m.roughnessFactor)
	device.SetUniformVec3("emissiveFactor", m.emissiveFactor)

	unit := firstUnit
	for slot, b := range m.textures {
		if b == nil {
			continue
		}
		sampler := b.Sampler
		device.BindTexture(unit, b.Texture, &sampler)
		device.SetUniformInt(Slot(slot).Uniform(), int32(unit))
		unit++
	}
	return unit
}
