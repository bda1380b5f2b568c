package domain

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "gild.yaml"

	// SourceMapExt is appended to an output path to name its source map.
	SourceMapExt = ".map"

	// BundleReportFile is written next to bundled output when the analyzer plugin is enabled.
	BundleReportFile = "bundle-report.txt"

	// MetafileName is the machine-readable bundle analysis written next to the report.
	MetafileName = "meta.json"

	// DefaultServerHost is the host the live-reload server binds to.
	DefaultServerHost = "localhost"

	// DefaultServerPort is the port the live-reload server binds to.
	DefaultServerPort = 3000

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
