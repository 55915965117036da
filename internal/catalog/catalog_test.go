package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govassess/internal/model"
)

func TestLoad(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	assert.Len(t, cat.Domains, DomainCount)
	assert.Len(t, cat.Questions, QuestionCount)
}

func TestCatalogIntegrity(t *testing.T) {
	cat := MustLoad()

	seen := make(map[string]bool)
	perDomain := make(map[int]int)
	for _, q := range cat.Questions {
		assert.False(t, seen[q.Code], "duplicate code %q", q.Code)
		seen[q.Code] = true

		assert.NotEmpty(t, q.Prompt, "%s has no prompt", q.Code)
		assert.NotEmpty(t, cat.DomainName(q.DomainID), "%s references unnamed domain %d", q.Code, q.DomainID)
		assert.True(t, model.ValidLevel(q.DefaultCurrent), "%s defaultCurrent out of range", q.Code)
		assert.True(t, model.ValidLevel(q.DefaultTarget), "%s defaultTarget out of range", q.Code)
		perDomain[q.DomainID]++
	}

	for _, d := range cat.Domains {
		assert.Greater(t, perDomain[d.ID], 0, "domain %d (%s) has no questions", d.ID, d.Name)
	}
}

func TestQuestionLookup(t *testing.T) {
	cat := MustLoad()

	q, ok := cat.Question("GOV 1.1")
	require.True(t, ok)
	assert.Equal(t, 1, q.DomainID)

	_, ok = cat.Question("GOV 99.9")
	assert.False(t, ok)
}
