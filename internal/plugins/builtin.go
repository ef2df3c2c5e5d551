package plugins

import (
	consoleinput "github.com/ArionMiles/voxpense/pkg/plugins/inputs/console"
	googleinput "github.com/ArionMiles/voxpense/pkg/plugins/inputs/google"
	consoleoutput "github.com/ArionMiles/voxpense/pkg/plugins/outputs/console"
	googleoutput "github.com/ArionMiles/voxpense/pkg/plugins/outputs/google"
)

// Builtin returns a registry holding every plugin shipped with voxpense.
func Builtin() *Registry {
	r := NewRegistry()
	for _, p := range []InputPlugin{&consoleinput.Plugin{}, &googleinput.Plugin{}} {
		if err := r.RegisterInput(p); err != nil {
			panic(err)
		}
	}
	for _, p := range []OutputPlugin{&consoleoutput.Plugin{}, &googleoutput.Plugin{}} {
		if err := r.RegisterOutput(p); err != nil {
			panic(err)
		}
	}
	return r
}
