package model

// GenerationKind is the kind of asset a generation produces.
type GenerationKind string

const (
	GenerationImage GenerationKind = "image"
	GenerationVideo GenerationKind = "video"
)

// Video sub-kinds, forwarded to the generation backend untouched.
const (
	SubKindTextToVideo  = "text-to-video"
	SubKindImageToVideo = "image-to-video"
)

// Valid reports whether the kind is one the studio can produce.
func (k GenerationKind) Valid() bool {
	return k == GenerationImage || k == GenerationVideo
}

// CreditCost is the authoritative per-generation cost table. Costs are
// fixed per kind and independent of duration and resolution.
func (k GenerationKind) CreditCost() int {
	if k == GenerationVideo {
		return 5
	}
	return 1
}
