package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFile(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short flag with separate value", args: []string{"-c", "conf.json", "-a", "localhost"}, want: "conf.json"},
		{name: "long flag with equals", args: []string{"--config=alt.yaml", "-a", "localhost"}, want: "alt.yaml"},
		{name: "long flag with separate value", args: []string{"--config", "/etc/claimcheck.json"}, want: "/etc/claimcheck.json"},
		{name: "unknown flags ignored", args: []string{"-x", "1", "--y=2", "positional"}, want: ""},
		{name: "last one wins", args: []string{"-c", "one.json", "--config", "two.json"}, want: "two.json"},
		{name: "empty args", args: []string{}, want: ""},
		{name: "nil args", args: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFile(tt.args))
		})
	}
}

func TestNewFlagSet_SkipsUnknownFlags(t *testing.T) {
	fs := NewFlagSet("test")
	addr := fs.StringP("addr", "a", ":8080", "listen address")

	err := fs.Parse([]string{"--dsn", "postgres://x", "-a", ":9090", "--verbose"})
	require.NoError(t, err)
	assert.Equal(t, ":9090", *addr)
}

func TestNewFlagSet_ReportsBadValues(t *testing.T) {
	fs := NewFlagSet("test")
	fs.IntP("minutes", "t", 1, "minutes")

	err := fs.Parse([]string{"-t", "many"})
	assert.Error(t, err)
}
