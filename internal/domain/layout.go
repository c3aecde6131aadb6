package domain

import "workshop/internal/textnorm"

// ShapeFamily is the layout strategy for a piece.
type ShapeFamily string

const (
	ShapeKitchenSet   ShapeFamily = "kitchen_set"
	ShapeComponentSet ShapeFamily = "component_set"
	ShapeBox          ShapeFamily = "box"
)

var (
	kitchenKeywords  = []string{"kitchen", "cocina"}
	wardrobeKeywords = []string{"closet", "wardrobe", "armario", "ropero", "guardarropa"}
)

// ResolveShapeFamily picks the family for a free-form furniture type.
// Anything that is not a kitchen or a wardrobe falls back to a box.
func ResolveShapeFamily(furnitureType string) ShapeFamily {
	switch {
	case textnorm.ContainsAny(furnitureType, kitchenKeywords...):
		return ShapeKitchenSet
	case textnorm.ContainsAny(furnitureType, wardrobeKeywords...):
		return ShapeComponentSet
	default:
		return ShapeBox
	}
}

// Valid reports whether f is one of the known families.
func (f ShapeFamily) Valid() bool {
	switch f {
	case ShapeKitchenSet, ShapeComponentSet, ShapeBox:
		return true
	}
	return false
}

// ComponentKind names a physical piece of a layout.
type ComponentKind string

const (
	KindBaseCabinet   ComponentKind = "base_cabinet"
	KindUpperCabinet  ComponentKind = "upper_cabinet"
	KindDoor          ComponentKind = "door"
	KindDrawer        ComponentKind = "drawer"
	KindShelf         ComponentKind = "shelf"
	KindSidePanel     ComponentKind = "side_panel"
	KindCenterDivider ComponentKind = "center_divider"
	KindHangingRod    ComponentKind = "hanging_rod"
)

// Vec3 is a point in centimeters. X runs along the length, Y is vertical and
// Z runs along the depth.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LayoutComponent is one placed piece. Position is the center of the piece
// relative to the bottom corner of the bounding volume.
type LayoutComponent struct {
	Kind     ComponentKind `json:"kind"`
	Label    string        `json:"label,omitempty"`
	WidthCm  float64       `json:"width_cm"`
	HeightCm float64       `json:"height_cm"`
	DepthCm  float64       `json:"depth_cm"`
	Position Vec3          `json:"position"`
	Material string        `json:"material"`
	ColorHex string        `json:"color_hex"`
}

// LayoutWarningCode identifies a layout warning.
type LayoutWarningCode string

// WarningLayoutTruncated marks pieces that were requested but did not fit.
const WarningLayoutTruncated LayoutWarningCode = "layout_truncated"

// LayoutWarning reports requested pieces the generator could not place.
type LayoutWarning struct {
	Code      LayoutWarningCode `json:"code"`
	Kind      ComponentKind     `json:"kind"`
	Requested int               `json:"requested"`
	Placed    int               `json:"placed"`
	Message   string            `json:"message"`
}

// ModelFormatGLTFURL marks an ExternalModel served as a GLB/GLTF file.
const ModelFormatGLTFURL = "gltf_url"

// ExternalModel is a mesh produced by an external text-to-3D provider.
type ExternalModel struct {
	Format   string `json:"format"`
	URL      string `json:"url"`
	Provider string `json:"provider"`
}

// Layout is the parametric 3D description of a piece. Kitchen cabinets are
// listed in Modules; every other piece is listed in Components.
type Layout struct {
	ShapeFamily ShapeFamily       `json:"shape_family"`
	Name        string            `json:"name,omitempty"`
	BoundingCm  Dimensions3D      `json:"bounding_cm"`
	Material    string            `json:"material"`
	ColorHex    string            `json:"color_hex"`
	VolumeCm3   float64           `json:"volume_cm3"`
	Modules     []LayoutComponent `json:"modules,omitempty"`
	Components  []LayoutComponent `json:"components,omitempty"`
	Warnings    []LayoutWarning   `json:"warnings,omitempty"`
	// ExternalModel is set on layout-only requests when a text-to-3D
	// provider produced a mesh for the piece.
	ExternalModel *ExternalModel `json:"external_model,omitempty"`
}

// Count returns how many pieces of kind the layout holds across modules and
// components.
func (l Layout) Count(kind ComponentKind) int {
	n := 0
	for _, c := range l.Modules {
		if c.Kind == kind {
			n++
		}
	}
	for _, c := range l.Components {
		if c.Kind == kind {
			n++
		}
	}
	return n
}
