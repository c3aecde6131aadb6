package domain

import "workshop/internal/textnorm"

// Hinge is the door hinge option. The zero value is the standard hinge.
type Hinge string

const (
	HingeStandard  Hinge = "standard"
	HingeSoftClose Hinge = "soft_close"
	HingeConcealed Hinge = "concealed"
)

// Slide is the drawer slide option. The zero value is the standard slide.
type Slide string

const (
	SlideStandard   Slide = "standard"
	SlideTelescopic Slide = "telescopic"
	SlideSoftClose  Slide = "soft_close"
)

// Finish is the surface finish. The zero value is matte.
type Finish string

const (
	FinishMatte    Finish = "matte"
	FinishGlossy   Finish = "glossy"
	FinishTextured Finish = "textured"
)

var hingeSynonyms = map[string]Hinge{
	"soft_close":   HingeSoftClose,
	"softclose":    HingeSoftClose,
	"cierre_suave": HingeSoftClose,
	"amortiguada":  HingeSoftClose,
	"concealed":    HingeConcealed,
	"hidden":       HingeConcealed,
	"oculta":       HingeConcealed,
	"escondida":    HingeConcealed,
	"standard":     HingeStandard,
	"estandar":     HingeStandard,
	"normal":       HingeStandard,
}

var slideSynonyms = map[string]Slide{
	"telescopic":     SlideTelescopic,
	"telescopica":    SlideTelescopic,
	"full_extension": SlideTelescopic,
	"soft_close":     SlideSoftClose,
	"softclose":      SlideSoftClose,
	"cierre_suave":   SlideSoftClose,
	"standard":       SlideStandard,
	"estandar":       SlideStandard,
	"normal":         SlideStandard,
}

var finishSynonyms = map[string]Finish{
	"glossy":      FinishGlossy,
	"gloss":       FinishGlossy,
	"brillante":   FinishGlossy,
	"lacado":      FinishGlossy,
	"textured":    FinishTextured,
	"texturizado": FinishTextured,
	"texturado":   FinishTextured,
	"matte":       FinishMatte,
	"matt":        FinishMatte,
	"mate":        FinishMatte,
	"satinado":    FinishMatte,
}

// ParseHinge maps English or Spanish spellings onto a Hinge. Unknown input
// yields the standard hinge.
func ParseHinge(s string) Hinge {
	if h, ok := hingeSynonyms[textnorm.Key(s)]; ok {
		return h
	}
	return HingeStandard
}

// ParseSlide maps English or Spanish spellings onto a Slide.
func ParseSlide(s string) Slide {
	if sl, ok := slideSynonyms[textnorm.Key(s)]; ok {
		return sl
	}
	return SlideStandard
}

// ParseFinish maps English or Spanish spellings onto a Finish.
func ParseFinish(s string) Finish {
	if f, ok := finishSynonyms[textnorm.Key(s)]; ok {
		return f
	}
	return FinishMatte
}

// Premium reports soft-close and concealed hinges.
func (h Hinge) Premium() bool { return h == HingeSoftClose || h == HingeConcealed }

// Premium reports telescopic and soft-close slides.
func (s Slide) Premium() bool { return s == SlideTelescopic || s == SlideSoftClose }

// Premium reports glossy and textured finishes.
func (f Finish) Premium() bool { return f == FinishGlossy || f == FinishTextured }

func (h *Hinge) UnmarshalText(b []byte) error {
	*h = ParseHinge(string(b))
	return nil
}

func (s *Slide) UnmarshalText(b []byte) error {
	*s = ParseSlide(string(b))
	return nil
}

func (f *Finish) UnmarshalText(b []byte) error {
	*f = ParseFinish(string(b))
	return nil
}
