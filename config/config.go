package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("MA_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("MA_DEBUG") == "true"
}

func GetListen() string {
	return os.Getenv("MA_LISTEN")
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("MA_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 3000
	}
	return port
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("MA_DB_FOLDER")
	if dbFolderPath == "" {
		if IsDebug() {
			return "db"
		}
		return "/etc/members-area"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("MA_LOG_FOLDER")
	if logFolderPath == "" {
		return "/var/log"
	}
	return logFolderPath
}

// GetRedisAddr returns the address of the external Redis used for sessions.
// Empty means an embedded instance is started instead.
func GetRedisAddr() string {
	return os.Getenv("MA_REDIS_ADDR")
}

// GetSessionSecret returns the secret used to authenticate session cookies.
// Empty means a random secret is generated at startup, which invalidates
// existing sessions on restart.
func GetSessionSecret() string {
	return os.Getenv("MA_SESSION_SECRET")
}

// GetSessionMaxAge returns the session lifetime in seconds.
func GetSessionMaxAge() int {
	maxAge, err := strconv.Atoi(os.Getenv("MA_SESSION_MAX_AGE"))
	if err != nil || maxAge <= 0 {
		return 3600
	}
	return maxAge
}

func GetDefaultAdminEmail() string {
	email := os.Getenv("MA_ADMIN_EMAIL")
	if email == "" {
		return "admin@localhost"
	}
	return email
}

func GetDefaultAdminPassword() string {
	password := os.Getenv("MA_ADMIN_PASSWORD")
	if password == "" {
		return "admin"
	}
	return password
}
