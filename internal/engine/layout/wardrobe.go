package layout

import (
	"fmt"
	"math"

	"workshop/internal/domain"
)

const (
	panelThickness   = 2.0
	minWardrobeDepth = 40.0
	maxWardrobeDepth = 80.0
	dividerMinSpan   = 120.0
	shelfMargin      = 10.0
	shelfMinSpacing  = 25.0
	shelfMaxSpacing  = 45.0
	minShelves       = 3
	rodMinHeight     = 160.0
	rodTopClearance  = 40.0
	rodMaxY          = 170.0
	rodHeight        = 1.5
	rodDepth         = 3.0
	rodMaterial      = "Metal"
	rodColorHex      = "#999999"
	wardrobeDoorMinW = 30.0
	wardrobeDoorGap  = 10.0
	wardrobeDrawerH  = 20.0
	wardrobeDrawerW  = 40.0
	wardrobeDrawerD  = 30.0
	drawerSideGap    = 4.0
)

func wardrobeDepth(requested float64) float64 {
	return math.Max(minWardrobeDepth, math.Min(maxWardrobeDepth, requested))
}

// wardrobe builds the carcass (side panels, optional divider, shelves and a
// hanging rod) and then the doors and the left drawer column. dims.Width is
// the already clamped carcass depth.
func wardrobe(b *builder, dims domain.Dimensions3D, spec domain.Specification) {
	span, depth, height := dims.Length, dims.Width, dims.Height
	midY := height / 2
	back := depth / 2
	clear := span - 2*panelThickness

	side := math.Min(panelThickness, span/2)
	b.components = append(b.components,
		b.piece(domain.KindSidePanel, "left", side, height, depth,
			domain.Vec3{X: side / 2, Y: midY, Z: back}),
		b.piece(domain.KindSidePanel, "right", side, height, depth,
			domain.Vec3{X: span - side/2, Y: midY, Z: back}),
	)
	if span > dividerMinSpan {
		b.components = append(b.components, b.piece(domain.KindCenterDivider, "divider", panelThickness, height, depth,
			domain.Vec3{X: math.Round(span / 2), Y: midY, Z: back}))
	}

	usable := height - shelfMargin
	spacing := math.Max(shelfMinSpacing, math.Min(shelfMaxSpacing, math.Floor(usable/6)))
	shelves := max(minShelves, int(math.Floor(usable/spacing)))
	// Shelves are derived from the height, so ones that would poke through
	// the top are dropped without a warning.
	for i := 0; i < shelves && clear > 0; i++ {
		y := shelfMargin + spacing*float64(i+1)
		if y+panelThickness/2 > height {
			break
		}
		b.components = append(b.components, b.piece(domain.KindShelf, fmt.Sprintf("shelf-%d", i+1), clear, panelThickness, depth,
			domain.Vec3{X: panelThickness + clear/2, Y: y, Z: back}))
	}

	if height > rodMinHeight && clear > 0 {
		rod := b.piece(domain.KindHangingRod, "rod", clear, rodHeight, rodDepth,
			domain.Vec3{X: panelThickness + clear/2, Y: math.Min(height-rodTopClearance, rodMaxY), Z: back})
		rod.Material = rodMaterial
		rod.ColorHex = rodColorHex
		b.components = append(b.components, rod)
	}

	placedDoors := 0
	doorH := height - wardrobeDoorGap
	if spec.DoorCount > 0 && doorH > 0 {
		w := math.Max(wardrobeDoorMinW, math.Floor(clear/float64(spec.DoorCount)))
		for i := 0; i < spec.DoorCount; i++ {
			if panelThickness+float64(i+1)*w > span-panelThickness {
				break
			}
			placedDoors++
			b.components = append(b.components, b.piece(domain.KindDoor, fmt.Sprintf("door-%d", placedDoors), w, doorH, doorThickness,
				domain.Vec3{X: panelThickness + w/2 + float64(i)*w, Y: midY, Z: depth - doorThickness/2}))
		}
	}
	b.truncated(domain.KindDoor, spec.DoorCount, placedDoors)

	placedDrawers := 0
	if spec.DrawerCount > 0 {
		w := math.Max(wardrobeDrawerW, math.Floor(clear/2)-drawerSideGap)
		d := math.Max(wardrobeDrawerD, math.Min(depth-drawerBackGap, drawerMaxDepth))
		x := panelThickness + w/2 + drawerSideGap
		fitsWidth := panelThickness+drawerSideGap+w <= span-panelThickness
		for i := 0; fitsWidth && i < spec.DrawerCount; i++ {
			y := drawerMargin + wardrobeDrawerH/2 + float64(i)*(wardrobeDrawerH+drawerGap)
			if y+wardrobeDrawerH/2 > height-drawerMargin {
				break
			}
			placedDrawers++
			b.components = append(b.components, b.piece(domain.KindDrawer, fmt.Sprintf("drawer-%d", placedDrawers), w, wardrobeDrawerH, d,
				domain.Vec3{X: x, Y: y, Z: depth - d/2}))
		}
	}
	b.truncated(domain.KindDrawer, spec.DrawerCount, placedDrawers)
}
