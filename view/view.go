// Package view defines the color spaces that can be explored.
//
// A view maps the normalized UI cube [0,1]³ (two free axes and one depth
// axis) to coordinates in its color space and converts those coordinates to
// and from device sRGB. The set of views is closed: dispatch is a switch on
// [Kind], so the renderer is agnostic to which view is active.
package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/chromaview/cie"
	"github.com/gogpu/chromaview/ciecam02"
)

// Kind identifies a view.
type Kind uint8

const (
	// LAB explores normalized CIELAB: depth is L*, the free axes are a* and b*.
	LAB Kind = iota
	// CAM02 explores CIECAM02 JCh built on the same cube as LAB.
	CAM02

	numKinds
)

// ErrUnknownView is returned by Parse for names that are not a view.
var ErrUnknownView = errors.New("view: unknown view")

// Kinds returns every view in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := range numKinds {
		kinds = append(kinds, k)
	}
	return kinds
}

// String returns the view name.
func (k Kind) String() string {
	switch k {
	case LAB:
		return "LAB"
	case CAM02:
		return "CAM02"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Valid reports whether k is a known view.
func (k Kind) Valid() bool {
	return k < numKinds
}

// Parse returns the view with the given name, ignoring case.
func Parse(name string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownView, name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownView, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Labels returns the human-readable names of the three coordinates.
func (k Kind) Labels() [3]string {
	switch k {
	case CAM02:
		return [3]string{"J", "C", "h"}
	default:
		return [3]string{"L", "a", "b"}
	}
}

// Transform maps a point of the normalized cube to space coordinates.
// chroma is the radius reached at the cube faces.
func (k Kind) Transform(in cie.Triple, chroma float64) cie.Triple {
	lab := cubeToLab(in, chroma)
	switch k {
	case CAM02:
		return cie.LabToJCh(lab).Triple()
	default:
		return lab
	}
}

// Untransform is the inverse of Transform.
func (k Kind) Untransform(rep cie.Triple, chroma float64) cie.Triple {
	switch k {
	case CAM02:
		return labToCube(cie.JChToLab(cie.JChFromTriple(rep)), chroma)
	default:
		return labToCube(rep, chroma)
	}
}

// ToDevice converts space coordinates to device sRGB.
func (k Kind) ToDevice(rep cie.Triple) cie.Result[cie.Triple] {
	switch k {
	case CAM02:
		xyz := ciecam02.Standard().Inverse(cie.JChFromTriple(rep))
		return cie.XYZToSRGB(xyz)
	default:
		return cie.LabToSRGB(rep)
	}
}

// FromDevice converts device sRGB to space coordinates.
func (k Kind) FromDevice(rgb cie.Triple) cie.Result[cie.Triple] {
	xyz := cie.SRGBToXYZ(rgb)
	return cie.Result[cie.Triple]{Val: k.fromXYZ(xyz.Val), InGamut: xyz.InGamut}
}

func (k Kind) fromXYZ(xyz cie.Triple) cie.Triple {
	switch k {
	case CAM02:
		return ciecam02.Standard().Forward(xyz).Triple()
	default:
		return cie.XYZToLab(xyz)
	}
}

// cubeToLab maps (x, y, depth) to (depth, (2x-1)·chroma, (2y-1)·chroma).
func cubeToLab(in cie.Triple, chroma float64) cie.Triple {
	return cie.Triple{
		in[2],
		(2*in[0] - 1) * chroma,
		(2*in[1] - 1) * chroma,
	}
}

func labToCube(lab cie.Triple, chroma float64) cie.Triple {
	return cie.Triple{
		(lab[1]/chroma + 1) / 2,
		(lab[2]/chroma + 1) / 2,
		lab[0],
	}
}
