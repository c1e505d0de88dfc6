package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port      int
	DBDriver  string
	DBDSN     string
	JWTSecret string
	LogLevel  string
	LogJSON   bool

	WSInsecureSkipVerify bool
}

func Load() Config {
	port := 3000
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "mysql"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		Port:                 port,
		DBDriver:             driver,
		DBDSN:                os.Getenv("DB_DSN"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		LogLevel:             logLevel,
		LogJSON:              os.Getenv("LOG_JSON") == "true",
		WSInsecureSkipVerify: os.Getenv("WS_INSECURE_SKIP_VERIFY") == "true",
	}
}
