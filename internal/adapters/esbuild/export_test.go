package esbuild

var (
	Translate   = translate
	ProvideShim = provideShim
	OutputNames = outputNames
)
