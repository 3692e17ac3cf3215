package parser

const (
	// GeneratedFileName is the default name of the generated client file
	GeneratedFileName = "retroqwest_client.go"

	// ContextImportPath is the import path whose Context type marks the optional first parameter
	ContextImportPath = "context"

	// Diagnostic messages
	MsgMissingVerb       = "missing HTTP method attribute"
	MsgMultipleVerbs     = "multiple HTTP method attributes"
	MsgDefaultBody       = "interface methods cannot have a default body"
	MsgMultipleBodies    = "only one json body parameter is allowed"
	MsgResultShape       = "methods must return (T, error)"
	MsgUnnamedParameter  = "parameters must be named"
	MsgVariadicParameter = "variadic parameters are not supported"
	MsgContextPosition   = "context.Context must be the first parameter"
	MsgGeneratedName     = "%s is declared by hand; the generated client declares it"
)
