// Package mouse maps screen coordinates back to UI elements so click
// handling stays out of the view code.
package mouse

import (
	"time"
)

const doubleClickWindow = 400 * time.Millisecond

// Rect is a rectangular screen region.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit region with caller data, typically the list
// index or pane name the region stands for.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap is the set of clickable regions for the current frame. The
// view rebuilds it on every render.
type HitMap struct {
	regions []Region
}

func NewHitMap() *HitMap {
	return &HitMap{regions: make([]Region, 0, 16)}
}

// Clear drops all regions before a re-render.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Add registers a clickable region.
func (h *HitMap) Add(id string, rect Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: rect, Data: data})
}

// Test returns the topmost region containing the point, or nil.
// Later additions win, matching paint order.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return &h.regions[i]
		}
	}
	return nil
}

// Click is a resolved left-button press.
type Click struct {
	Region *Region
	Double bool
}

// Handler resolves clicks against the hit map and tracks timing for
// double-click detection.
type Handler struct {
	HitMap *HitMap

	lastID   string
	lastRect Rect
	lastTime time.Time
}

func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// HandleClick resolves a left click. Two clicks on the same region
// within the double-click window report Double; the second click
// resets the state so a third click starts over. Regions sharing an
// ID (every list row does) are told apart by their rect.
func (h *Handler) HandleClick(x, y int) Click {
	region := h.HitMap.Test(x, y)
	click := Click{Region: region}
	if region == nil {
		return click
	}

	now := time.Now()
	if region.ID == h.lastID && region.Rect == h.lastRect &&
		now.Sub(h.lastTime) < doubleClickWindow {
		click.Double = true
		h.lastID = ""
		h.lastRect = Rect{}
		h.lastTime = time.Time{}
	} else {
		h.lastID = region.ID
		h.lastRect = region.Rect
		h.lastTime = now
	}
	return click
}
