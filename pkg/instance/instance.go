package instance

import (
	"os"

	"github.com/angelmondragon/olist-dashboard/pkg/env"
)

// GetID identifies the running process in logs: OLIST_INSTANCE_ID, then the
// platform dyno name, then the hostname.
func GetID() string {
	if id := env.Get("OLIST_INSTANCE_ID", env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
