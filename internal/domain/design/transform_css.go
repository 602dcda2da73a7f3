package design

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	translateRe = regexp.MustCompile(`translate\(\s*([-+]?[\d.eE+-]+)(?:px)?\s*,\s*([-+]?[\d.eE+-]+)(?:px)?\s*\)`)
	rotateRe    = regexp.MustCompile(`rotate\(\s*([-+]?[\d.eE+-]+)(?:deg)?\s*\)`)
	scaleRe     = regexp.MustCompile(`scale\(\s*([-+]?[\d.eE+-]+)\s*(?:,\s*([-+]?[\d.eE+-]+)\s*)?\)`)

	// SVG path data: command letters, numbers, separators
	pathDataRe = regexp.MustCompile(`^[MmLlHhVvCcSsQqTtAaZz0-9eE.,+\-\s]+$`)
)

// ParseTransform reads the editor's CSS form
// "translate(Xpx, Ypx) rotate(Ddeg) scale(sx, sy)". Missing parts default to identity.
func ParseTransform(css string) (Transform, error) {
	t := At(0, 0)
	css = strings.TrimSpace(css)
	if css == "" {
		return t, nil
	}

	matched := false
	if m := translateRe.FindStringSubmatch(css); m != nil {
		x, err := parseNumber(m[1])
		if err != nil {
			return t, err
		}
		y, err := parseNumber(m[2])
		if err != nil {
			return t, err
		}
		t.TranslateX, t.TranslateY = x, y
		matched = true
	}
	if m := rotateRe.FindStringSubmatch(css); m != nil {
		r, err := parseNumber(m[1])
		if err != nil {
			return t, err
		}
		t.Rotation = r
		matched = true
	}
	if m := scaleRe.FindStringSubmatch(css); m != nil {
		sx, err := parseNumber(m[1])
		if err != nil {
			return t, err
		}
		sy := sx
		if m[2] != "" {
			if sy, err = parseNumber(m[2]); err != nil {
				return t, err
			}
		}
		t.ScaleX, t.ScaleY = sx, sy
		matched = true
	}
	if !matched {
		return t, fmt.Errorf("%w: unrecognised transform %q", ErrInvalidElement, css)
	}
	return t, nil
}

// CSS formats the transform in the editor's translate, rotate, scale order
func (t Transform) CSS() string {
	return fmt.Sprintf("translate(%spx, %spx) rotate(%sdeg) scale(%s, %s)",
		formatNumber(t.TranslateX), formatNumber(t.TranslateY),
		formatNumber(t.Rotation), formatNumber(t.ScaleX), formatNumber(t.ScaleY))
}

// ValidPathData reports whether d looks like SVG path data and nothing else
func ValidPathData(d string) bool {
	return strings.TrimSpace(d) != "" && pathDataRe.MatchString(d)
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrInvalidElement, s)
	}
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
