package config

// Development turns on debug logging and the debug command. It is enabled by
// MINEFIELD_DEVELOPMENT set to anything but "0", "false" or nothing.
func Development() bool {
	return boolEnv("MINEFIELD_DEVELOPMENT")
}
