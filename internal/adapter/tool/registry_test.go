package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factlens/internal/domain"
)

type stubTool struct {
	name string
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub" }
func (s *stubTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        s.name,
		Description: "stub",
		Parameters:  json.RawMessage(`{"type":"object"}`),
	}
}
func (s *stubTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return TextResult("ok"), nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(&stubTool{name: "a"}))

	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name())
}

func TestRegistryDuplicateRejected(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(&stubTool{name: "a"}))
	assert.Error(t, r.Register(&stubTool{name: "a"}))
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.Get("missing")
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestRegistryListPreservesOrder(t *testing.T) {
	r := NewRegistry(nil)
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, r.Register(&stubTool{name: name}))
	}

	var names []string
	for _, tl := range r.List() {
		names = append(names, tl.Name())
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)

	var schemaNames []string
	for _, s := range r.Schemas() {
		schemaNames = append(schemaNames, s.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, schemaNames)
}

func TestRegistryWrapsWithSchemaValidation(t *testing.T) {
	r := NewRegistry(testLogger())
	require.NoError(t, r.Register(&stubTool{name: "a"}))

	got, err := r.Get("a")
	require.NoError(t, err)

	// Arguments violating the schema are rejected before reaching the tool.
	result, err := got.Execute(context.Background(), json.RawMessage(`"not an object"`))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
