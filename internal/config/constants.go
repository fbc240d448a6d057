package config

const (
	// DefaultHost is the listen address used when neither HOST nor IP is set
	DefaultHost = "0.0.0.0"

	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./gym-life.db"

	// DefaultHomePageSize is the number of exercises per page on the home listing
	DefaultHomePageSize = 6

	// DefaultAccountPageSize is the number of exercises per page on each account listing
	DefaultAccountPageSize = 3
)
