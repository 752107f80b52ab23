// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// EnvProduction is the environment name that suppresses raw error detail
// in responses.
const EnvProduction = "production"

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// JWTSecret signs and verifies session tokens. The server refuses to
	// start without it.
	JWTSecret string

	// OIDCIssuer is the discovery URL of the external identity provider.
	OIDCIssuer string

	// OIDCAudience is the expected audience of external identity tokens.
	OIDCAudience string

	// Environment selects runtime behavior ("development" or "production").
	Environment string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.JWTSecret, "s", "", "session token signing secret")
	flag.StringVar(&options.OIDCIssuer, "issuer", "", "identity provider issuer url")
	flag.StringVar(&options.OIDCAudience, "audience", "", "identity token audience")
	flag.StringVar(&options.Environment, "env", "development", "runtime environment")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}

	if issuer := os.Getenv("OIDC_ISSUER"); issuer != "" {
		options.OIDCIssuer = issuer
	}

	if audience := os.Getenv("OIDC_AUDIENCE"); audience != "" {
		options.OIDCAudience = audience
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		options.Environment = env
	}

	return options
}

// IsProduction reports whether the server runs in production mode.
func (o *Options) IsProduction() bool {
	return o.Environment == EnvProduction
}
