// Package catalog holds the fixed governance questionnaire: 8 domains,
// 30 questions, compiled into the binary. The catalog is read-only at
// runtime; sessions copy its defaults into mutable ratings.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"govassess/internal/model"
)

//go:embed catalog.yaml
var raw []byte

// Expected catalog shape. Load fails if the embedded document drifts.
const (
	DomainCount   = 8
	QuestionCount = 30
)

// Catalog is the parsed, validated questionnaire.
type Catalog struct {
	Domains   []model.Domain
	Questions []model.Question

	byCode map[string]model.Question
	names  map[int]string
}

type document struct {
	Domains   []model.Domain   `yaml:"domains"`
	Questions []model.Question `yaml:"questions"`
}

// Load parses and validates the embedded questionnaire. The document is
// compiled in, so any error here is a build defect, not a runtime
// condition.
func Load() (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	if len(doc.Domains) != DomainCount {
		return nil, fmt.Errorf("catalog: expected %d domains, found %d", DomainCount, len(doc.Domains))
	}
	if len(doc.Questions) != QuestionCount {
		return nil, fmt.Errorf("catalog: expected %d questions, found %d", QuestionCount, len(doc.Questions))
	}

	names := make(map[int]string, len(doc.Domains))
	for _, d := range doc.Domains {
		if d.Name == "" {
			return nil, fmt.Errorf("catalog: domain %d has no name", d.ID)
		}
		if _, dup := names[d.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate domain id %d", d.ID)
		}
		names[d.ID] = d.Name
	}

	byCode := make(map[string]model.Question, len(doc.Questions))
	perDomain := make(map[int]int, len(doc.Domains))
	for _, q := range doc.Questions {
		if q.Code == "" || q.Prompt == "" {
			return nil, fmt.Errorf("catalog: question %q is missing code or prompt", q.Code)
		}
		if _, dup := byCode[q.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate question code %q", q.Code)
		}
		if _, ok := names[q.DomainID]; !ok {
			return nil, fmt.Errorf("catalog: question %q references unknown domain %d", q.Code, q.DomainID)
		}
		if !model.ValidLevel(q.DefaultCurrent) || !model.ValidLevel(q.DefaultTarget) {
			return nil, fmt.Errorf("catalog: question %q has defaults outside 0-%d", q.Code, model.LevelMax)
		}
		byCode[q.Code] = q
		perDomain[q.DomainID]++
	}
	for _, d := range doc.Domains {
		if perDomain[d.ID] == 0 {
			return nil, fmt.Errorf("catalog: domain %d (%s) has no questions", d.ID, d.Name)
		}
	}

	return &Catalog{
		Domains:   doc.Domains,
		Questions: doc.Questions,
		byCode:    byCode,
		names:     names,
	}, nil
}

// MustLoad is Load for main and tests, where a broken catalog cannot be
// handled anyway.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Question returns the catalog entry for a code.
func (c *Catalog) Question(code string) (model.Question, bool) {
	q, ok := c.byCode[code]
	return q, ok
}

// DomainName resolves a domain id to its display name.
func (c *Catalog) DomainName(id int) string {
	return c.names[id]
}
