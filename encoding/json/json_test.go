package json

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnmarshalSyntaxError(t *testing.T) {
	data := []byte("{\n  \"a\": 1,\n  \"b\": }")

	v := map[string]int{}
	err := Unmarshal(data, &v)
	require.Error(t, err)
	require.Contains(t, err.Error(), "syntax error at line 3")
}

func TestUnmarshalTypeError(t *testing.T) {
	data := []byte(`{"duration": "long"}`)

	v := struct {
		Duration float64 `json:"duration"`
	}{}

	err := Unmarshal(data, &v)
	require.Error(t, err)
	require.Contains(t, err.Error(), "expect type 'float64' for 'duration'")
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(map[string]bool{"success": true})
	require.NoError(t, err)
	require.Equal(t, `{"success":true}`, string(data))
}
