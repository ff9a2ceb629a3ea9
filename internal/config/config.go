// Package config holds the settings shared by the chromaview commands.
//
// Settings start from the `default:` struct tags, are overridden by a TOML
// file and finally by command-line flags.
package config

import (
	"bytes"
	"encoding"
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/gogpu/chromaview"
	"github.com/gogpu/chromaview/cie"
	"github.com/gogpu/chromaview/view"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Config is the configuration of a chromaview command.
type Config struct {
	// View is the explored color space.
	View view.Kind `toml:"view" default:"LAB"`

	// Width and Height are the framebuffer size in pixels.
	Width  int `toml:"width" default:"255"`
	Height int `toml:"height" default:"255"`

	// Workers is the worker pool size; 0 uses every CPU.
	Workers int `toml:"workers" default:"0"`

	// FPS is the redraw rate of the viewer.
	FPS int `toml:"fps" default:"60"`

	// Scale magnifies the viewer window.
	Scale int `toml:"scale" default:"2"`

	// ChromaScale is the chroma radius reached at the slice edges, in
	// normalized units (1 is a* = 100).
	ChromaScale float64 `toml:"chroma_scale" default:"1"`

	// Depth is the starting depth in [0,1].
	Depth float64 `toml:"depth" default:"0.5"`

	// Color, if set, places the cursor on a "#rrggbb" color and takes
	// precedence over Depth.
	Color string `toml:"color"`

	// Output is the PNG path, or a fmt pattern with one %d verb when
	// rendering several slices.
	Output string `toml:"output" default:"slice.png"`

	// Slices is the number of depth slices rendered headlessly, spread
	// evenly over (0,1).
	Slices int `toml:"slices" default:"1"`
}

// Default returns the configuration described by the default tags.
func Default() Config {
	var c Config
	if err := SetFromDefaultTags(&c); err != nil {
		panic(err)
	}
	return c
}

// Load reads path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if err := c.Decode(data); err != nil {
		return c, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Decode overrides c with the TOML document data.
func (c *Config) Decode(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(c)
}

// Encode returns c as a TOML document.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// RegisterFlags binds every setting to a flag of fs. Flag defaults are the
// current values of c, so flags override whatever was loaded.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.TextVar(&c.View, "view", c.View, "color space to explore (LAB or CAM02)")
	fs.IntVar(&c.Width, "width", c.Width, "framebuffer width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "framebuffer height in pixels")
	fs.IntVar(&c.Workers, "workers", c.Workers, "worker pool size (0 = all CPUs)")
	fs.IntVar(&c.FPS, "fps", c.FPS, "redraw rate")
	fs.IntVar(&c.Scale, "scale", c.Scale, "window magnification")
	fs.Float64Var(&c.ChromaScale, "chroma", c.ChromaScale, "chroma radius at the slice edges")
	fs.Float64Var(&c.Depth, "depth", c.Depth, "slice depth in [0,1]")
	fs.StringVar(&c.Color, "color", c.Color, "start the cursor on this #rrggbb color")
	fs.StringVar(&c.Output, "o", c.Output, "output PNG path or pattern")
	fs.IntVar(&c.Slices, "slices", c.Slices, "number of depth slices to render")
}

// Parse builds the configuration of a command from its arguments: the
// defaults, then the file named by -config, then the remaining flags.
func Parse(name string, args []string) (Config, error) {
	c := Default()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", "", "TOML configuration `file`")
	c.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return c, err
	}

	if *path != "" {
		loaded, err := Load(*path)
		if err != nil {
			return c, err
		}
		// The flags point into c: parsing again puts them over the file.
		c = loaded
		if err := fs.Parse(args); err != nil {
			return c, err
		}
	}
	return c, c.Validate()
}

// Validate checks every setting.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	check(c.View.Valid(), "view %v", c.View)
	check(c.Width > 0 && c.Height > 0, "size %dx%d", c.Width, c.Height)
	check(c.Workers >= 0, "workers %d", c.Workers)
	check(c.FPS > 0, "fps %d", c.FPS)
	check(c.Scale > 0, "scale %d", c.Scale)
	check(c.ChromaScale > 0, "chroma scale %v", c.ChromaScale)
	check(c.Depth >= 0 && c.Depth <= 1, "depth %v outside [0,1]", c.Depth)
	check(c.Slices > 0, "slices %d", c.Slices)
	check(c.Slices <= 1 || strings.Contains(c.Output, "%d"), "output %q needs a %%d verb for %d slices", c.Output, c.Slices)
	if c.Color != "" {
		_, err := c.View.FromHex(c.Color)
		check(err == nil, "color %q", c.Color)
	}
	return errors.Join(errs...)
}

// State returns the starting state: the cursor at the center of the slice,
// or on Color when set.
func (c Config) State() (chromaview.State, error) {
	s := chromaview.State{
		View:        c.View,
		Rep:         c.View.Transform(cie.Triple{0.5, 0.5, c.Depth}, c.ChromaScale),
		ChromaScale: c.ChromaScale,
	}
	if c.Color != "" {
		rep, err := c.View.FromHex(c.Color)
		if err != nil {
			return s, err
		}
		s.Rep = rep
	}
	return s, nil
}

// SliceDepths returns the depths of the headless slices: the configured
// depth for one slice, otherwise n depths centered in n equal intervals.
func (c Config) SliceDepths() []float64 {
	if c.Slices <= 1 {
		return []float64{c.Depth}
	}
	depths := make([]float64, c.Slices)
	for i := range depths {
		depths[i] = (float64(i) + 0.5) / float64(c.Slices)
	}
	return depths
}

// OutputPath returns the output file of slice i.
func (c Config) OutputPath(i int) string {
	if c.Slices <= 1 {
		return c.Output
	}
	return fmt.Sprintf(c.Output, i)
}

// SetFromDefaultTags sets the fields of the struct pointed to by obj from
// their `default:` tags. Fields without a tag keep their value.
func SetFromDefaultTags(obj any) error {
	val := reflect.ValueOf(obj)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: SetFromDefaultTags needs a struct pointer, got %T", obj)
	}
	val = val.Elem()
	typ := val.Type()

	var errs []error
	for i := range typ.NumField() {
		f := typ.Field(i)
		def, ok := f.Tag.Lookup("default")
		if !ok || !f.IsExported() {
			continue
		}
		if err := setString(val.Field(i), def); err != nil {
			errs = append(errs, fmt.Errorf("config: field %s from %q: %w", f.Name, def, err))
		}
	}
	return errors.Join(errs...)
}

func setString(fv reflect.Value, s string) error {
	if tu, ok := fv.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return tu.UnmarshalText([]byte(s))
	}
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(s, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(x)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %v", fv.Kind())
	}
	return nil
}
