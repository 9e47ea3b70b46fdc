// Command geoidconv converts geoid models between file formats.
//
// Usage:
//
//	geoidconv [flags] input [output]
//
// The input format is taken from the input suffix (.asc, .isg, .bin,
// .bin.gz, .bin.zst, .bin.lz4); the output format from the output suffix
// unless -format is given.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flywave/go-geoid"
	"github.com/flywave/go-geoid/internal/version"
)

// referencePoint is a point in central Japan used to sanity check models.
var referencePoint = [2]float64{138.2839817085188, 37.12378643088312}

var (
	format       = flag.String("format", "", "output format: bin, gz, zst or lz4 (default: from output suffix)")
	showInfo     = flag.Bool("info", false, "print grid metadata and statistics")
	plotFile     = flag.String("plot", "", "write a heat map of the model to this file")
	plotStep     = flag.Int("plot-step", 4, "heat map decimation step")
	versionLabel = flag.String("version-label", "", "override the model version label of ISG input")
	lenient      = flag.Bool("lenient", false, "pad or truncate ASCII input with a wrong sample count")
	quiet        = flag.Bool("quiet", false, "suppress library logging")
	showVersion  = flag.Bool("version", false, "print version and exit")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] input [output]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return nil
	}
	if *quiet {
		geoid.SetLogger(nil)
	}

	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		flag.Usage()
		return errors.New("expected an input and an optional output")
	}

	g, err := readInput(args[0])
	if err != nil {
		return err
	}

	if *showInfo {
		printInfo(g)
	}
	printReference(g)

	if *plotFile != "" {
		opts := geoid.DefaultHeatMapOptions()
		opts.Title = g.GridInfo().Version()
		opts.Step = *plotStep
		if err := geoid.WriteHeatMap(g, *plotFile, opts); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
	}

	if len(args) < 2 {
		return nil
	}
	output := args[1]
	if *format != "" {
		f, err := geoid.ParseFormat(*format)
		if err != nil {
			return err
		}
		output = withFormat(output, f)
	}
	if err := geoid.SaveModel(output, g); err != nil {
		return err
	}

	// read back what was written
	g2, err := geoid.OpenModel(output)
	if err != nil {
		return fmt.Errorf("verify %s: %w", output, err)
	}
	printReference(g2)
	return nil
}

func readInput(path string) (*geoid.MemoryGrid, error) {
	f, err := geoid.FormatFromName(path)
	if err != nil {
		return nil, err
	}

	switch f {
	case geoid.FormatASCII:
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		opts := geoid.DefaultASCIIOptions()
		opts.Lenient = *lenient
		return geoid.ReadASCIIWithOptions(file, opts)
	case geoid.FormatISG:
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		opts := geoid.DefaultISGOptions()
		opts.Version = *versionLabel
		return geoid.ReadISGWithOptions(file, opts)
	}
	return geoid.OpenModel(path)
}

// withFormat replaces the model suffix of path with the suffix of f.
func withFormat(path string, f geoid.Format) string {
	if cur, err := geoid.FormatFromName(path); err == nil {
		ext := cur.Ext()
		path = path[:len(path)-len(ext)]
	} else {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path + f.Ext()
}

func printInfo(g *geoid.MemoryGrid) {
	info := g.GridInfo()
	b := info.Bounds()
	fmt.Printf("version:  %s\n", info.Version())
	fmt.Printf("kind:     %d\n", info.Kind())
	fmt.Printf("lattice:  %d x %d\n", info.XNum(), info.YNum())
	fmt.Printf("interval: 1/%d deg x 1/%d deg\n", info.XDenom(), info.YDenom())
	fmt.Printf("domain:   lng [%g, %g) lat [%g, %g)\n", b.Min[0], b.Max[0], b.Min[1], b.Max[1])

	s := geoid.Summarize(g)
	fmt.Printf("nodes:    %d (%d without data)\n", s.Nodes, s.NoData)
	if s.Valid() > 0 {
		fmt.Printf("height:   min %.4f max %.4f mean %.4f stddev %.4f\n", s.Min, s.Max, s.Mean, s.StdDev)
	}
}

func printReference(g *geoid.MemoryGrid) {
	lng, lat := referencePoint[0], referencePoint[1]
	fmt.Printf("Input: (lng: %v, lat: %v) -> Geoid height: %v\n", lng, lat, g.GetHeight(lng, lat))
}
