package shell

import (
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
)

var envRe = regexp.MustCompile(`\${([^}{]+)}`)

// ReplaceEnvVars expands `${VAR}` and `${VAR:default}` in config text.
// Unknown variables without a default are left untouched.
func ReplaceEnvVars(text string) string {
	return envRe.ReplaceAllStringFunc(text, func(match string) string {
		key := match[2 : len(match)-1]

		def, dok := "", false
		if i := strings.IndexByte(key, ':'); i > 0 {
			key, def, dok = key[:i], key[i+1:], true
		}

		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		if dok {
			return def
		}
		return match
	})
}

// RunUntilSignal blocks until SIGINT or SIGTERM.
func RunUntilSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	println("exit with signal:", (<-sigs).String())
}
