package deps

import (
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/metrics"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	AllowedHosts []string          // Host headers allowed to access /bookmarks
	AllowedCIDRS []string          // IPs allowed to access healthz/readyz/metrics
	TrustProxy   bool              // true if running behind a trusted reverse proxy (e.g., cloudflared)
	MaxBodyBytes int64             // Max accepted request body on POST
	Store        domain.Repository // Persistence collaborator
	Validator    *domain.Validator // Create request validation
	Sanitizer    *domain.Sanitizer // Output sanitization
	Metrics      *metrics.Metrics  // Prometheus collectors
}
