package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapimposteur/internal/render"
	"lapimposteur/internal/spec"
)

func TestAdd_ValidCronExpression(t *testing.T) {
	s := New(nil, render.Options{}, nil)
	err := s.Add([]spec.GeneratorSpec{{Cron: "*/5 * * * * *"}})
	require.NoError(t, err)
}

func TestAdd_InvalidCronExpressionFails(t *testing.T) {
	s := New(nil, render.Options{}, nil)
	err := s.Add([]spec.GeneratorSpec{{Cron: "not a cron expression"}})
	assert.Error(t, err)
}

func TestAdd_MultipleGenerators(t *testing.T) {
	s := New(nil, render.Options{}, nil)
	err := s.Add([]spec.GeneratorSpec{
		{Cron: "*/5 * * * * *"},
		{Cron: "0 */1 * * * *"},
	})
	require.NoError(t, err)
}
