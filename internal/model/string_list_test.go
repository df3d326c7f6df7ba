package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListValue(t *testing.T) {
	v, err := StringList{"wifi", "parking"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["wifi","parking"]`, v)

	v, err = StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestStringListScan(t *testing.T) {
	cases := []struct {
		name string
		src  any
		want StringList
	}{
		{"json bytes", []byte(`["a","b"]`), StringList{"a", "b"}},
		{"json string", `["x"]`, StringList{"x"}},
		{"pg array", []byte(`{wifi,"live music"}`), StringList{"wifi", "live music"}},
		{"null", nil, StringList{}},
		{"json null", "null", StringList{}},
		{"empty", []byte{}, StringList{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var l StringList
			require.NoError(t, l.Scan(tc.src))
			assert.Equal(t, tc.want, l)
		})
	}

	var l StringList
	assert.Error(t, l.Scan(42))
	assert.Error(t, l.Scan(`["unterminated`))
}
