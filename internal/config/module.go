package config

import (
	"go.uber.org/fx"
)

// Module provides the *Config loaded from path with overrides applied.
func Module(path Path, overrides ...Override) fx.Option {
	return fx.Module("config",
		fx.Provide(func() (*Config, error) {
			return LoadConfig(path, overrides...)
		}),
	)
}
