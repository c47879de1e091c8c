package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHealthRatio(t *testing.T) {
	raw := map[string]interface{}{
		"name": "nostra",
		"groups": map[string]interface{}{
			"1": map[string]interface{}{"healthRatio": "1.5"},
			"2": map[string]interface{}{"healthRatio": "9.9"},
		},
		"positions": []interface{}{},
	}

	got, err := ExtractHealthRatio(raw)
	require.NoError(t, err)

	assert.Equal(t, "1.5", got["health_ratio"])
	assert.NotContains(t, got, "groups")
	assert.Equal(t, "nostra", got["name"])

	// caller-owned input is left as it was
	assert.Contains(t, raw, "groups")
	assert.NotContains(t, raw, "health_ratio")
}

func TestExtractHealthRatioMissingGroup(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"no groups field": {"name": "p"},
		"null groups":     {"name": "p", "groups": nil},
		"empty groups":    {"name": "p", "groups": map[string]interface{}{}},
		"only group 2":    {"name": "p", "groups": map[string]interface{}{"2": map[string]interface{}{"healthRatio": "3"}}},
		"group 1 without ratio": {"name": "p", "groups": map[string]interface{}{
			"1": map[string]interface{}{"other": true},
		}},
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ExtractHealthRatio(raw)
			require.NoError(t, err)
			require.Contains(t, got, "health_ratio")
			assert.Nil(t, got["health_ratio"])
		})
	}
}

func TestExtractHealthRatioOverridesSuppliedRatio(t *testing.T) {
	got, err := ExtractHealthRatio(map[string]interface{}{
		"healthRatio": "7",
		"groups":      map[string]interface{}{"1": map[string]interface{}{"healthRatio": "2.0"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "2.0", got["health_ratio"])
	assert.NotContains(t, got, "healthRatio")
}

func TestExtractHealthRatioBadShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]interface{}
		path string
	}{
		{name: "groups not an object", raw: map[string]interface{}{"groups": []interface{}{}}, path: "groups"},
		{name: "group 1 not an object", raw: map[string]interface{}{"groups": map[string]interface{}{"1": "x"}}, path: `groups["1"]`},
		{
			name: "ratio not a string",
			raw:  map[string]interface{}{"groups": map[string]interface{}{"1": map[string]interface{}{"healthRatio": 1.5}}},
			path: `groups["1"].healthRatio`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractHealthRatio(tc.raw)
			require.ErrorIs(t, err, ErrSchema)

			verr, ok := err.(*ValidationError)
			require.True(t, ok)
			assert.Equal(t, tc.path, verr.Path)
		})
	}
}
