package utils

const (
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "tree-maker failed"
	// VerboseEnvironmentVariable enables debug logging when set to a true value.
	VerboseEnvironmentVariable = "TREE_MAKER_VERBOSE"
)
