package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file display names.
	MaxFileNameLength = 255

	// MaxFolderDepth bounds parent-chain walks when checking for cycles.
	// Deeper chains are treated as corrupt.
	MaxFolderDepth = 256
)
