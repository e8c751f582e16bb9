// Package config defines configuration structures for the goesdl CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (GOESDL_ prefix)
//   - YAML configuration file
//
// Flags override the environment, which overrides the file.
//
// # Structure
//
//	type Config struct {
//	    BucketURL       string
//	    Satellite       int
//	    Product         string
//	    BaseDir         string
//	    Timezone        string
//	    Before          time.Duration
//	    After           time.Duration
//	    GeoTIFF         bool
//	    Verbose         bool
//	    MetricsFile     string
//	    CreationOptions []string
//	}
package config
