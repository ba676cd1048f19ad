package client

// Version information (set by main via ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// UserAgent returns the User-Agent string for API requests
func UserAgent() string {
	return "eventmap/" + Version
}
