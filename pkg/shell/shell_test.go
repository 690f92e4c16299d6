package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceEnvVars(t *testing.T) {
	t.Setenv("SAMSUNG_DEVICE", "192.168.1.120")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "host: ${SAMSUNG_DEVICE}", "host: 192.168.1.120"},
		{"default used", "port: ${SSTV_PORT:55000}", "port: 55000"},
		{"set beats default", "host: ${SAMSUNG_DEVICE:127.0.0.1}", "host: 192.168.1.120"},
		{"unknown kept", "name: ${NO_SUCH_VAR}", "name: ${NO_SUCH_VAR}"},
		{"no variables", "listen: true", "listen: true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceEnvVars(tt.in))
		})
	}
}
