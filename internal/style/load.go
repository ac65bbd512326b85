package style

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a style file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%s: unsupported style format (want .toml, .yaml or .yml)", path)
}

// Load reads a style file and overlays it on Default.
func Load(path string) (Style, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Style{}, err
	}
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, fmt.Errorf("failed to read style: %w", err)
	}
	st, err := Parse(data, format)
	if err != nil {
		return Style{}, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}

// Parse decodes data over Default. Keys that are absent keep their default,
// unknown keys are an error. The result is validated.
func Parse(data []byte, format Format) (Style, error) {
	st := Default()
	switch format {
	case FormatTOML:
		meta, err := toml.Decode(string(data), &st)
		if err != nil {
			return Style{}, fmt.Errorf("failed to parse TOML: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return Style{}, fmt.Errorf("unknown style keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// пустой документ - это просто стиль по умолчанию
		if err := dec.Decode(&st); err != nil && !errors.Is(err, io.EOF) {
			return Style{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return Style{}, fmt.Errorf("unsupported style format %q", format)
	}
	if err := st.Validate(); err != nil {
		return Style{}, err
	}
	return st, nil
}

// Validate rejects negative or non-finite sizes and unknown font variants.
func (s Style) Validate() error {
	var errs []error
	check := func(path string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			errs = append(errs, fmt.Errorf("%s: must be a non-negative number, got %v", path, v))
		}
	}
	checkPadding := func(path string, p Padding) {
		check(path+".top", p.Top)
		check(path+".right", p.Right)
		check(path+".bottom", p.Bottom)
		check(path+".left", p.Left)
	}
	checkFont := func(path string, f Font) {
		check(path+".size", f.Size)
		if f.Size == 0 {
			errs = append(errs, fmt.Errorf("%s.size: must be positive", path))
		}
		if strings.TrimSpace(f.Family) == "" {
			errs = append(errs, fmt.Errorf("%s.family: must not be empty", path))
		}
		switch f.Style {
		case FontNormal, FontItalic:
		default:
			errs = append(errs, fmt.Errorf("%s.style: unknown font style %q", path, f.Style))
		}
		switch f.Weight {
		case WeightNormal, WeightBold:
		default:
			errs = append(errs, fmt.Errorf("%s.weight: unknown font weight %q", path, f.Weight))
		}
	}

	checkPadding("frame.padding", s.Frame.Padding)
	checkPadding("title.padding", s.Title.Padding)
	checkFont("title.font", s.Title.Font)
	checkPadding("lifeline.padding", s.Lifeline.Padding)
	checkPadding("lifeline.margin", s.Lifeline.Margin)
	checkFont("lifeline.font", s.Lifeline.Font)
	check("lifeline.box_line_width", s.Lifeline.BoxLineWidth)
	check("lifeline.line_width", s.Lifeline.LineWidth)
	checkPadding("signal.padding", s.Signal.Padding)
	checkPadding("signal.margin", s.Signal.Margin)
	checkFont("signal.font", s.Signal.Font)
	check("signal.line_width", s.Signal.LineWidth)
	check("signal.arrow.width", s.Signal.Arrow.Width)
	check("signal.arrow.height", s.Signal.Arrow.Height)

	return errors.Join(errs...)
}

// Fingerprint is a stable digest of every field, used to key layout caches.
func (s Style) Fingerprint() string {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		// структура из чисел и строк всегда кодируется
		panic(fmt.Errorf("style fingerprint: %w", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// EncodeTOML writes s as a TOML document.
func (s Style) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}
