package env

import (
	"net/url"
	"os"
	"sync"
)

var dVal sync.Map

func RegisterDefault(key, defaultValue string) {
	dVal.Store(key, defaultValue)
}

func GetVar(key string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		if v, _ := dVal.Load(key); v != nil {
			return v.(string)
		} else {
			return ""
		}
	}
	return value
}

// Violation describes a single misconfigured environment variable.
type Violation struct {
	Key     string
	Message string
}

var required = []string{
	"DATABASE_URL",
	"REDIS_HOST",
	"ALPHAVANTAGE_API_KEY",
	"FRONTEND_URL",
}

var modes = map[string]bool{
	"production":  true,
	"development": true,
	"test":        true,
}

// Validate checks the process environment against the configuration
// contract. All violations are returned so the caller can log each one
// before giving up.
func Validate() []Violation {
	violations := []Violation{}

	for _, key := range required {
		if GetVar(key) == "" {
			violations = append(violations, Violation{Key: key, Message: "is required"})
		}
	}

	if v := GetVar("FRONTEND_URL"); v != "" {
		if u, err := url.Parse(v); err != nil || u.Scheme == "" || u.Host == "" {
			violations = append(violations, Violation{Key: "FRONTEND_URL", Message: "must be a valid URL"})
		}
	}

	if mode := GetVar("NODE_ENV"); mode != "" && !modes[mode] {
		violations = append(violations, Violation{Key: "NODE_ENV", Message: "must be one of production, development, test"})
	}

	return violations
}
