package sass

var (
	BuildArgs = buildArgs
	FileURL   = fileURL
)
