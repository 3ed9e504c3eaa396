package utils

import (
	"github.com/sysdevguru/stockfolio/env"
)

// Dev returns true if the server is in development mode
func Dev() bool {
	return env.GetVar("NODE_ENV") == "development"
}

// Test returns true if the server is in test mode
func Test() bool {
	return env.GetVar("NODE_ENV") == "test"
}

// Prod returns true if the server is in production mode
func Prod() bool {
	return env.GetVar("NODE_ENV") == "production"
}

var (
	Sha1hash string
	Version  string = "dev"
)
