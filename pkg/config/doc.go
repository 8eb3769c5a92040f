// Package config loads typed configuration structs from environment
// variables, with an optional .env file picked up once per process.
//
// Config structs declare their variables with env tags:
//
//	type Config struct {
//		RetryDelay time.Duration `env:"REALTIME_RETRY_DELAY" envDefault:"3s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil { ... }
package config
