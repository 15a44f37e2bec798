package instance

import "os"

// envKeys are checked in order; DYNO is set by Heroku-style platforms.
var envKeys = []string{"VENDORA_INSTANCE_ID", "DYNO"}

// GetID identifies this process in logs and lock ownership: an explicit
// instance id, the platform dyno name, the hostname, then "local".
func GetID() string {
	for _, key := range envKeys {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
