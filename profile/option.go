//go:build pprof

package profile

import "github.com/pkg/profile"

// option appends a pkg/profile option derived from a Profiler field.
type option func([]func(*profile.Profile)) []func(*profile.Profile)

func collect(opts ...option) []func(*profile.Profile) {
	var c []func(*profile.Profile)

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

func withMode(m string) option {
	return func(c []func(*profile.Profile)) []func(*profile.Profile) {
		if fn, ok := mode[m]; ok {
			c = append(c, fn)
		}

		return c
	}
}

func withPath(p string) option {
	return func(c []func(*profile.Profile)) []func(*profile.Profile) {
		if p != "" {
			c = append(c, profile.ProfilePath(p))
		}

		return c
	}
}

func withQuiet(v bool) option {
	return func(c []func(*profile.Profile)) []func(*profile.Profile) {
		if v {
			c = append(c, profile.Quiet)
		}

		return c
	}
}
