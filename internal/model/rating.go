package model

// Bounds for the maturity scale and for the benefit/effort scale.
const (
	LevelMin = 0
	LevelMax = 4
	ScaleMin = 0
	ScaleMax = 2
)

// ValidLevel reports whether v is a legal maturity level.
func ValidLevel(v int) bool { return v >= LevelMin && v <= LevelMax }

// ValidScale reports whether v is a legal benefit or effort value.
func ValidScale(v int) bool { return v >= ScaleMin && v <= ScaleMax }

// Rating is the mutable per-question assessment state. One rating exists
// per catalog question, seeded from the question's defaults at session
// start and edited one field at a time.
type Rating struct {
	Code        string `json:"code"`
	Current     int    `json:"current"` // 0-4
	Target      int    `json:"target"`  // 0-4
	ActionItems string `json:"actionItems"`
	Benefit     int    `json:"benefit"` // 0-2
	Effort      int    `json:"effort"`  // 0-2
}

// RatingPatch is a single-field edit to one rating. Exactly one field
// must be set per request; batch mutation is unsupported.
type RatingPatch struct {
	Current     *int    `json:"current,omitempty"`
	Target      *int    `json:"target,omitempty"`
	ActionItems *string `json:"actionItems,omitempty"`
	Benefit     *int    `json:"benefit,omitempty"`
	Effort      *int    `json:"effort,omitempty"`
}

// Fields returns how many fields the patch sets.
func (p RatingPatch) Fields() int {
	n := 0
	if p.Current != nil {
		n++
	}
	if p.Target != nil {
		n++
	}
	if p.ActionItems != nil {
		n++
	}
	if p.Benefit != nil {
		n++
	}
	if p.Effort != nil {
		n++
	}
	return n
}
