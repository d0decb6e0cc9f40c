package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeWithDoesNotMutateParent(t *testing.T) {
	base := NewScope("grid = CESM_x1")
	child := base.With("((autotroph_settings)) = sp")
	sibling := base.With("((autotroph_settings)) = diat")

	assert.Equal(t, []string{"grid = CESM_x1"}, base.Keys())
	assert.Equal(t, []string{"grid = CESM_x1", "((autotroph_settings)) = sp"}, child.Keys())
	assert.Equal(t, []string{"grid = CESM_x1", "((autotroph_settings)) = diat"}, sibling.Keys())
	assert.Equal(t, 1, base.Len())
}

func TestScopeKeysReturnsCopy(t *testing.T) {
	scope := NewScope("grid = CESM_x1")
	keys := scope.Keys()
	keys[0] = "changed"
	assert.Equal(t, []string{"grid = CESM_x1"}, scope.Keys())
}

func TestSplitProvidedKey(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantName  string
		wantValue string
		wantOK    bool
	}{
		{name: "spaced", key: "grid = CESM_x1", wantName: "grid", wantValue: "CESM_x1", wantOK: true},
		{name: "compact", key: "ciso_on=.true.", wantName: "ciso_on", wantValue: ".true.", wantOK: true},
		{name: "value with equals", key: "a = b = c", wantName: "a", wantValue: "b = c", wantOK: true},
		{name: "no equals", key: "default", wantOK: false},
		{name: "empty name", key: " = x", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, value, ok := SplitProvidedKey(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantName, name)
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestProvidedKey(t *testing.T) {
	assert.Equal(t, "grid = CESM_x3", ProvidedKey("grid", "CESM_x3"))
}
