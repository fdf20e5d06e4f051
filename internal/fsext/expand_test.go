package fsext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"HOME":                                 "/home/looper",
		"XDG_STATE_HOME":                       "/var/state",
		"LOOPLIST_SUFFIX":                      "logs",
	}
	getenv := func(key string) string { return vars[key] }

	for in, want := range map[string]string{
		"":                                     "",
		"plain/dir":                            "plain/dir",
		"~/.looplist":                          "/home/looper/.looplist",
		"$XDG_STATE_HOME/looplist":             "/var/state/looplist",
		"${XDG_STATE_HOME}/x/$LOOPLIST_SUFFIX": "/var/state/x/logs",
	} {
		got, err := Expand(in, getenv)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := Expand("$(", getenv)
	require.Error(t, err)
}
