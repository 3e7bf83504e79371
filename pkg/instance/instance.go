package instance

import (
	"os"

	"github.com/daghlis/gallery-backend/pkg/env"
)

// ID identifies this process in log lines. GALLERY_INSTANCE_ID wins, then the
// platform's DYNO name, then the hostname.
func ID() string {
	if id, ok := env.First("GALLERY_INSTANCE_ID", "DYNO"); ok {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
