package geoid

import "fmt"

// GeoidModel describes one of the gridded geoid models published by GSI.
type GeoidModel struct {
	Name    string
	Stem    string // file name without extension
	XNum    int
	YNum    int
	XMin    float32
	YMin    float32
	Version string
}

var (
	/*
	 * GSIGEO2011 ver2.2: Japan,
	 * 1'x1.5' grid from 120E 20N, 1201 columns, 1801 rows
	 */
	GSIGEO2011 = GeoidModel{Name: "GSIGEO2011", Stem: "gsigeo2011_ver2_2", XNum: 1201, YNum: 1801, XMin: 120, YMin: 20, Version: "ver2.2"}
	/*
	 * GSIGEO2024 beta: Japan and surrounding seas,
	 * 1'x1.5' grid from 120E 15N, 1601 columns, 2101 rows
	 */
	GSIGEO2024Beta = GeoidModel{Name: "GSIGEO2024beta", Stem: "gsigeo2024_beta", XNum: 1601, YNum: 2101, XMin: 120, YMin: 15, Version: "ver-beta"}
	/*
	 * JPGEO2024: successor of GSIGEO2011 on the 2024 beta lattice
	 */
	JPGEO2024 = GeoidModel{Name: "JPGEO2024", Stem: "jpgeo2024", XNum: 1601, YNum: 2101, XMin: 120, YMin: 15}
	/*
	 * Hrefconv2024: height reference conversion parameters, lattice not checked
	 */
	HREFCONV2024 = GeoidModel{Name: "Hrefconv2024", Stem: "hrefconv2024"}
)

// KnownModels lists the well-known models, newest first.
var KnownModels = []GeoidModel{JPGEO2024, HREFCONV2024, GSIGEO2024Beta, GSIGEO2011}

// LookupModel finds a well-known model by name or file stem.
func LookupModel(name string) (GeoidModel, bool) {
	for _, m := range KnownModels {
		if m.Name == name || m.Stem == name {
			return m, true
		}
	}
	return GeoidModel{}, false
}

// Check verifies that info matches the lattice of the model. A model with a
// zero XNum accepts any lattice.
func (m GeoidModel) Check(info GridInfo) error {
	if m.XNum == 0 {
		return nil
	}
	if info.xNum != m.XNum || info.yNum != m.YNum {
		return fmt.Errorf("%s: expected %dx%d grid, got %dx%d", m.Name, m.XNum, m.YNum, info.xNum, info.yNum)
	}
	if info.xDenom != asciiXDenom || info.yDenom != asciiYDenom {
		return fmt.Errorf("%s: expected interval 1/%d x 1/%d, got 1/%d x 1/%d", m.Name, asciiXDenom, asciiYDenom, info.xDenom, info.yDenom)
	}
	if info.xMin != m.XMin || info.yMin != m.YMin {
		return fmt.Errorf("%s: expected origin (%g, %g), got (%g, %g)", m.Name, m.XMin, m.YMin, info.xMin, info.yMin)
	}
	if m.Version != "" && info.version != m.Version {
		return fmt.Errorf("%s: expected version %q, got %q", m.Name, m.Version, info.version)
	}
	return nil
}
