package smoke

import (
	"io"
	"time"

	"github.com/okian/lumina/pkg/logger"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL     string        // Base URL of the storefront
	Queries     int           // Number of search queries to generate
	Workers     int           // Number of concurrent workers
	Rate        float64       // Requests per second across all workers, 0 for unlimited
	Timeout     time.Duration // HTTP request timeout
	CatalogPath string        // Catalog the server was started with, "" for the embedded one
	Seed        uint64        // Seed for query generation
	Verbose     bool          // Log every failed check
	Progress    io.Writer     // Progress bar output, nil to disable
	Logger      logger.Logger // Run log, nil to discard
}

// Stats holds run statistics.
type Stats struct {
	QueriesGenerated  int
	QueriesChecked    int
	QueriesFailed     int
	CategoriesChecked int
	CategoriesFailed  int
	SessionChecked    bool
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

// Failed reports whether any check failed.
func (s *Stats) Failed() bool {
	return s.QueriesFailed > 0 || s.CategoriesFailed > 0 || !s.SessionChecked
}
