package layout

import (
	"fmt"
	"math"

	"workshop/internal/domain"
)

const (
	moduleWidth    = 60.0
	baseHeight     = 90.0
	baseDepth      = 60.0
	upperHeight    = 72.0
	upperDepth     = 35.0
	counterGap     = 45.0
	kitchenDoorW   = 30.0
	doorThickness  = 2.0
	doorInset      = 4.0
	kitchenDrawerH = 18.0
	kitchenDrawerW = 40.0
	drawerMinDepth = 40.0
	drawerMaxDepth = 55.0
	drawerBackGap  = 6.0
	drawerMargin   = 10.0
	drawerGap      = 5.0
)

// kitchen tiles the run length with base cabinets, adds upper cabinets when
// the height clears the counter gap, then hangs doors and stacks drawers.
func kitchen(b *builder, dims domain.Dimensions3D, spec domain.Specification) {
	count := max(1, int(math.Floor(dims.Length/moduleWidth)))
	width := math.Min(moduleWidth, dims.Length)
	bHeight := math.Min(baseHeight, dims.Height)
	bDepth := math.Min(baseDepth, dims.Width)
	uDepth := math.Min(upperDepth, dims.Width)
	hasUpper := dims.Height > baseHeight+counterGap+upperHeight

	var bases, uppers []domain.LayoutComponent
	for i := 0; i < count; i++ {
		x := float64(i)*moduleWidth + width/2
		base := b.piece(domain.KindBaseCabinet, fmt.Sprintf("base-%d", i+1), width, bHeight, bDepth,
			domain.Vec3{X: x, Y: bHeight / 2, Z: bDepth / 2})
		bases = append(bases, base)
		b.modules = append(b.modules, base)
		if hasUpper {
			upper := b.piece(domain.KindUpperCabinet, fmt.Sprintf("upper-%d", i+1), width, upperHeight, uDepth,
				domain.Vec3{X: x, Y: baseHeight + counterGap + upperHeight/2, Z: uDepth / 2})
			uppers = append(uppers, upper)
			b.modules = append(b.modules, upper)
		}
	}

	drawers, hosts := kitchenDrawers(b, bases, spec.DrawerCount)

	// Doors go on upper cabinets first, then on base cabinets without
	// drawers, filling from the far end of the run.
	targets := append([]domain.LayoutComponent(nil), uppers...)
	for i := len(bases) - 1; i >= 0; i-- {
		if !hosts[i] {
			targets = append(targets, bases[i])
		}
	}
	placedDoors := 0
	for _, m := range targets {
		if placedDoors == spec.DoorCount {
			break
		}
		h := m.HeightCm - doorInset
		if h <= 0 {
			continue
		}
		w := math.Min(kitchenDoorW, m.WidthCm)
		t := math.Min(doorThickness, m.DepthCm)
		placedDoors++
		b.components = append(b.components, b.piece(domain.KindDoor, fmt.Sprintf("door-%d", placedDoors), w, h, t,
			domain.Vec3{X: m.Position.X, Y: m.Position.Y, Z: m.DepthCm - t/2}))
	}
	b.truncated(domain.KindDoor, spec.DoorCount, placedDoors)

	b.components = append(b.components, drawers...)
	b.truncated(domain.KindDrawer, spec.DrawerCount, len(drawers))
}

// kitchenDrawers stacks drawers bottom-up in the first third of the base
// cabinets. hosts marks the cabinets that received at least one drawer.
func kitchenDrawers(b *builder, bases []domain.LayoutComponent, requested int) ([]domain.LayoutComponent, map[int]bool) {
	hosts := map[int]bool{}
	if requested <= 0 {
		return nil, hosts
	}
	var out []domain.LayoutComponent
	limit := max(1, int(math.Ceil(float64(len(bases))/3)))
	for i, m := range bases[:min(limit, len(bases))] {
		w := math.Min(math.Max(kitchenDrawerW, math.Floor(m.WidthCm/2)), m.WidthCm)
		d := math.Min(math.Max(drawerMinDepth, math.Min(m.DepthCm-drawerBackGap, drawerMaxDepth)), m.DepthCm)
		x := math.Max(m.Position.X-w/4, m.Position.X-m.WidthCm/2+w/2)
		bottom := m.Position.Y - m.HeightCm/2
		top := m.Position.Y + m.HeightCm/2
		for y := bottom + drawerMargin + kitchenDrawerH/2; len(out) < requested && y+kitchenDrawerH/2 <= top-drawerMargin; y += kitchenDrawerH + drawerGap {
			hosts[i] = true
			out = append(out, b.piece(domain.KindDrawer, fmt.Sprintf("drawer-%d", len(out)+1), w, kitchenDrawerH, d,
				domain.Vec3{X: x, Y: y, Z: m.DepthCm - d/2}))
		}
	}
	return out, hosts
}
