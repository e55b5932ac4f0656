package config

const (
	defaultOutputSuffix   = "_microbial_annotation"
	defaultIndexColumn    = "Unnamed: 0"
	defaultClusterColumn  = "componentindex"
	defaultNoCluster      = -1
	defaultHistoryEnabled = true
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults. Catalogue
// layouts and the tool list are filled in by normalization so a config file
// can replace them wholesale.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputSuffix: defaultOutputSuffix,
			StateDir:     defaultStateDir(),
		},
		Columns: Columns{
			Index:     defaultIndexColumn,
			Cluster:   defaultClusterColumn,
			NoCluster: defaultNoCluster,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
