// Package env reads environment variables through an interface so callers can
// be tested against a fixed set of values.
package env

import (
	"os"
	"strconv"
)

type Env interface {
	Get(key string) string
	Env() []string
}

type osEnv struct{}

// Get implements Env.
func (o *osEnv) Get(key string) string {
	return os.Getenv(key)
}

// Env implements Env.
func (o *osEnv) Env() []string {
	env := os.Environ()
	if len(env) == 0 {
		return nil
	}
	return env
}

func New() Env {
	return &osEnv{}
}

type mapEnv struct {
	m map[string]string
}

// Get implements Env.
func (m *mapEnv) Get(key string) string {
	return m.m[key]
}

// Env implements Env.
func (m *mapEnv) Env() []string {
	if len(m.m) == 0 {
		return nil
	}
	env := make([]string, 0, len(m.m))
	for k, v := range m.m {
		env = append(env, k+"="+v)
	}
	return env
}

func NewFromMap(m map[string]string) Env {
	if m == nil {
		m = make(map[string]string)
	}
	return &mapEnv{m: m}
}

// Bool reports the boolean value of key. Unset or unparsable values are
// false.
func Bool(e Env, key string) bool {
	v, err := strconv.ParseBool(e.Get(key))
	return err == nil && v
}

// Int returns the integer value of key. ok is false when the key is unset;
// err is set when it holds something other than an integer.
func Int(e Env, key string) (n int, ok bool, err error) {
	raw := e.Get(key)
	if raw == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, err
	}
	return n, true, nil
}
