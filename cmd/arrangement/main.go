package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tdewolff/argp"
	"github.com/tdewolff/arrangement"
	"github.com/tdewolff/arrangement/geomio"
	"github.com/tdewolff/arrangement/render"
	"go.uber.org/zap"
)

type Relate struct {
	Format  string `short:"f" default:"text" desc:"Input format: text, geojson, or wkt"`
	Project string `short:"p" desc:"Reproject coordinates between EPSG codes, as from:to"`
	Verbose bool   `short:"v" desc:"Log sweep events"`
	Input   string `index:"0" default:"-" desc:"Input file"`
}

type Split struct {
	Format  string `short:"f" default:"text" desc:"Input format: text, geojson, or wkt"`
	Project string `short:"p" desc:"Reproject coordinates between EPSG codes, as from:to"`
	Verbose bool   `short:"v" desc:"Log sweep events"`
	Output  string `short:"o" desc:"Output file, .geojson or .wkt"`
	Input   string `index:"0" default:"-" desc:"Input file"`
}

type Crossings struct {
	Format  string `short:"f" default:"text" desc:"Input format: text, geojson, or wkt"`
	Project string `short:"p" desc:"Reproject coordinates between EPSG codes, as from:to"`
	Verbose bool   `short:"v" desc:"Log sweep events"`
	Output  string `short:"o" desc:"Output file, .geojson"`
	Input   string `index:"0" default:"-" desc:"Input file"`
}

type Check struct {
	Format  string `short:"f" default:"text" desc:"Input format: text, geojson, or wkt"`
	Project string `short:"p" desc:"Reproject coordinates between EPSG codes, as from:to"`
	Verbose bool   `short:"v" desc:"Log sweep events"`
	Input   string `index:"0" default:"-" desc:"Input file"`
}

type Render struct {
	Format  string `short:"f" default:"text" desc:"Input format: text, geojson, or wkt"`
	Project string `short:"p" desc:"Reproject coordinates between EPSG codes, as from:to"`
	Verbose bool   `short:"v" desc:"Log sweep events"`
	Width   int    `short:"w" default:"800" desc:"Image width in pixels"`
	Output  string `short:"o" desc:"Output file, .svg or .png"`
	Input   string `index:"0" default:"-" desc:"Input file"`
}

var ErrNotSimple = errors.New("segments are not simple")

func main() {
	root := argp.NewCmd(&Relate{}, "Exact intersections and overlaps of line segments")
	root.AddCmd(&Split{}, "split", "Split segments at every point where they meet")
	root.AddCmd(&Crossings{}, "crossings", "List the points where two or more segments meet")
	root.AddCmd(&Check{}, "check", "Check that segments only meet at shared endpoints")
	root.AddCmd(&Render{}, "render", "Draw segments, fragments, and crossings to an image")
	root.Parse()
	root.PrintHelp()
}

// source reads segments from a file or standard input.
type source struct {
	format  string
	project string
	verbose bool
	input   string
	stdin   io.Reader
}

func (s source) logger() *zap.Logger {
	if s.verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func (s source) transform() (geomio.Transform, error) {
	if s.project == "" {
		return nil, nil
	}
	from, to, ok := strings.Cut(s.project, ":")
	if !ok {
		return nil, errors.Newf("bad projection %q, expected from:to", s.project)
	}
	fromCode, err := strconv.Atoi(from)
	if err != nil {
		return nil, errors.Wrapf(err, "bad projection %q", s.project)
	}
	toCode, err := strconv.Atoi(to)
	if err != nil {
		return nil, errors.Wrapf(err, "bad projection %q", s.project)
	}
	return geomio.Project(fromCode, toCode), nil
}

func (s source) read() ([]arrangement.Segment, error) {
	t, err := s.transform()
	if err != nil {
		return nil, err
	}

	r := s.stdin
	if s.input != "" && s.input != "-" {
		f, err := os.Open(s.input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	switch s.format {
	case "", "text":
		if t != nil {
			return nil, errors.New("projection requires geojson or wkt input")
		}
		return arrangement.ReadSegments(r)
	case "geojson":
		return geomio.ReadGeoJSON(r, t)
	case "wkt":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return geomio.ParseWKT(string(data), t)
	}
	return nil, errors.Newf("unknown format %q", s.format)
}

// output opens a file for writing, or returns standard output when the filename is empty.
func output(filename string, stdout io.Writer) (io.Writer, func() error, error) {
	if filename == "" || filename == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func (cmd *Relate) Run() error {
	src := source{cmd.Format, cmd.Project, cmd.Verbose, cmd.Input, os.Stdin}
	return relate(src, os.Stdout)
}

func relate(src source, w io.Writer) error {
	segments, err := src.read()
	if err != nil {
		return err
	}
	logger := src.logger()
	defer logger.Sync()

	rel := arrangement.NewRelater(segments, arrangement.WithLogger(logger))
	for {
		r, ok := rel.Next()
		if !ok {
			break
		}
		if _, err := fmt.Fprintln(w, r); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *Split) Run() error {
	src := source{cmd.Format, cmd.Project, cmd.Verbose, cmd.Input, os.Stdin}
	return split(src, cmd.Output, os.Stdout)
}

func split(src source, filename string, stdout io.Writer) error {
	segments, err := src.read()
	if err != nil {
		return err
	}
	logger := src.logger()
	defer logger.Sync()

	fragments := arrangement.Split(segments, arrangement.WithLogger(logger))
	w, closeFn, err := output(filename, stdout)
	if err != nil {
		return err
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".geojson", ".json":
		err = geomio.WriteGeoJSON(w, fragments, nil)
	case ".wkt":
		fragmentSegments := make([]arrangement.Segment, len(fragments))
		for i, f := range fragments {
			fragmentSegments[i] = f.Segment
		}
		var s string
		if s, err = geomio.MarshalWKT(fragmentSegments); err == nil {
			_, err = fmt.Fprintln(w, s)
		}
	default:
		for _, f := range fragments {
			if _, err = fmt.Fprintln(w, f); err != nil {
				break
			}
		}
	}
	if err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func (cmd *Crossings) Run() error {
	src := source{cmd.Format, cmd.Project, cmd.Verbose, cmd.Input, os.Stdin}
	return crossings(src, cmd.Output, os.Stdout)
}

func crossings(src source, filename string, stdout io.Writer) error {
	segments, err := src.read()
	if err != nil {
		return err
	}
	logger := src.logger()
	defer logger.Sync()

	cs := arrangement.Intersections(segments, arrangement.WithLogger(logger))
	w, closeFn, err := output(filename, stdout)
	if err != nil {
		return err
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".geojson", ".json":
		err = geomio.WriteGeoJSON(w, nil, cs)
	default:
		for _, c := range cs {
			if _, err = fmt.Fprintln(w, c); err != nil {
				break
			}
		}
	}
	if err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func (cmd *Check) Run() error {
	src := source{cmd.Format, cmd.Project, cmd.Verbose, cmd.Input, os.Stdin}
	return check(src, os.Stdout)
}

func check(src source, w io.Writer) error {
	segments, err := src.read()
	if err != nil {
		return err
	}
	logger := src.logger()
	defer logger.Sync()

	if !arrangement.IsSimple(segments, arrangement.WithLogger(logger)) {
		return ErrNotSimple
	}
	_, err = fmt.Fprintln(w, "simple")
	return err
}

func (cmd *Render) Run() error {
	if cmd.Output == "" {
		return argp.ShowUsage
	}
	src := source{cmd.Format, cmd.Project, cmd.Verbose, cmd.Input, os.Stdin}
	return draw(src, cmd.Output, cmd.Width)
}

func draw(src source, filename string, width int) error {
	if width <= 0 {
		return errors.New("width must be positive")
	}
	segments, err := src.read()
	if err != nil {
		return err
	}
	logger := src.logger()
	defer logger.Sync()

	d := render.NewDrawing(segments, arrangement.WithLogger(logger))
	logger.Debug("render",
		zap.String("filename", filename),
		zap.Int("fragments", len(d.Fragments)),
		zap.Int("crossings", len(d.Crossings)))
	return render.Write(filename, d, width, render.DefaultStyle)
}
