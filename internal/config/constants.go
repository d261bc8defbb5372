package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./bookie.db"

	// DefaultLockPath is the default path for the maintenance job lock file
	DefaultLockPath = "./bookie.lock"

	// DefaultGoogleBooksBaseURL is the Google Books volumes API root
	DefaultGoogleBooksBaseURL = "https://www.googleapis.com/books/v1"

	// DefaultEnrichmentBatchSize caps how many books one enrichment run processes
	DefaultEnrichmentBatchSize = 100
)
