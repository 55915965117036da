package model

// Domain is one of the 8 fixed governance topic areas.
type Domain struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Question is a static catalog entry. The questionnaire ships with the
// binary; questions are never created or edited at runtime.
type Question struct {
	Code           string `json:"code" yaml:"code"`                     // e.g. "GOV 1.3", unique
	Prompt         string `json:"prompt" yaml:"prompt"`                 // the question text
	Description    string `json:"description,omitempty" yaml:"description"` // what the levels mean here
	DomainID       int    `json:"domainId" yaml:"domain"`
	DefaultCurrent int    `json:"defaultCurrent" yaml:"defaultCurrent"` // 0-4
	DefaultTarget  int    `json:"defaultTarget" yaml:"defaultTarget"`   // 0-4
}
