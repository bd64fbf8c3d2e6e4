package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_JSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `{"d":"168h"}`, want: 168 * time.Hour},
		{name: "nanoseconds", in: `{"d":1000000000}`, want: time.Second},
		{name: "null", in: `{"d":null}`, want: 0},
		{name: "bad string", in: `{"d":"soon"}`, wantErr: true},
		{name: "bad type", in: `{"d":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				D Duration `json:"d"`
			}
			err := json.Unmarshal([]byte(tt.in), &v)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.D.Duration)
		})
	}
}

func TestDuration_YAML(t *testing.T) {
	var v struct {
		A Duration `yaml:"a"`
		B Duration `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 2m\nb: 5000\n"), &v))
	assert.Equal(t, 2*time.Minute, v.A.Duration)
	assert.Equal(t, 5000*time.Nanosecond, v.B.Duration)

	require.Error(t, yaml.Unmarshal([]byte("a: later\n"), &v))
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
