package geoid

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
)

// catalogEntry is one grid of a Catalog, indexed by its query domain.
type catalogEntry struct {
	name     string
	priority int
	grid     *MemoryGrid
	bounds   rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *catalogEntry) Bounds() rtreego.Rect {
	return e.bounds
}

// Catalog answers height queries from several grids. Grids are consulted in
// the order they were added; the first grid covering a point with a defined
// height wins.
//
// Example:
//
//	cat := geoid.NewCatalog()
//	cat.Add("JPGEO2024", jpgeo)
//	cat.Add("GSIGEO2011", gsigeo)
//	h := cat.GetHeight(138.2839817085188, 37.12378643088312)
type Catalog struct {
	mu      sync.RWMutex
	entries []*catalogEntry
	rtree   *rtreego.Rtree
}

func NewCatalog() *Catalog {
	return &Catalog{
		rtree: rtreego.NewTree(2, 25, 50),
	}
}

// Add registers g under name with lower priority than the grids added before.
func (c *Catalog) Add(name string, g *MemoryGrid) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.name == name {
			return fmt.Errorf("catalog: duplicate grid %q", name)
		}
	}

	b := g.GridInfo().Bounds()
	rect, err := rtreego.NewRect(
		rtreego.Point{b.Min[0], b.Min[1]},
		[]float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]},
	)
	if err != nil {
		return fmt.Errorf("catalog: grid %q: %w", name, err)
	}

	entry := &catalogEntry{
		name:     name,
		priority: len(c.entries),
		grid:     g,
		bounds:   rect,
	}
	c.entries = append(c.entries, entry)
	c.rtree.Insert(entry)
	Logf("geoid: catalog: added %s covering lng [%g, %g) lat [%g, %g)", name, b.Min[0], b.Max[0], b.Min[1], b.Max[1])
	return nil
}

// lookupTolerance is the half-size of the rectangle used to probe the R-tree.
const lookupTolerance = 1e-9

func (c *Catalog) covering(lng, lat float64) []*catalogEntry {
	if math.IsNaN(lng) || math.IsNaN(lat) || math.IsInf(lng, 0) || math.IsInf(lat, 0) {
		return nil
	}
	probe, err := rtreego.NewRect(
		rtreego.Point{lng - lookupTolerance, lat - lookupTolerance},
		[]float64{2 * lookupTolerance, 2 * lookupTolerance},
	)
	if err != nil {
		return nil
	}

	c.mu.RLock()
	spatials := c.rtree.SearchIntersect(probe)
	c.mu.RUnlock()

	result := make([]*catalogEntry, 0, len(spatials))
	for _, s := range spatials {
		e := s.(*catalogEntry)
		// the R-tree works on closed rectangles, grids cover half-open ones
		if e.grid.GridInfo().Contains(lng, lat) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].priority < result[j].priority
	})
	return result
}

// GetHeight returns the first defined height at (lng, lat), or NaN.
func (c *Catalog) GetHeight(lng, lat float64) float64 {
	for _, e := range c.covering(lng, lat) {
		if h := e.grid.GetHeight(lng, lat); !math.IsNaN(h) {
			return h
		}
	}
	return math.NaN()
}

// GetHeights applies GetHeight to each (lngs[i], lats[i]) pair.
func (c *Catalog) GetHeights(lngs, lats []float64) ([]float64, error) {
	return Heights(c, lngs, lats)
}

// Covering lists the grids whose domain contains (lng, lat), by priority.
func (c *Catalog) Covering(lng, lat float64) []string {
	entries := c.covering(lng, lat)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Grid returns the grid registered under name.
func (c *Catalog) Grid(name string) (*MemoryGrid, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries {
		if e.name == name {
			return e.grid, true
		}
	}
	return nil, false
}

// Names lists the registered grids by priority.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
