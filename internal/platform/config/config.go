package config

import "os"

// Server captures process-level configuration.
type Server struct {
	Addr        string
	DatabaseURL string
	// FlagTokens selects the boolean vocabulary used for the flagged_bool
	// column ("yes/no" or "ja/nein").
	FlagTokens string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("USERAPI_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	flagTokens := os.Getenv("USERAPI_FLAG_TOKENS")
	if flagTokens == "" {
		flagTokens = "yes/no"
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		FlagTokens:  flagTokens,
	}
}
