package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings holds the target-database connection settings. Loaded once at
// startup and treated as read-only afterwards.
type Settings struct {
	DBType     string `yaml:"db_type" json:"db_type"`
	DBHost     string `yaml:"db_host" json:"db_host"`
	DBPort     int    `yaml:"db_port" json:"db_port"`
	DBName     string `yaml:"db_name" json:"db_name"`
	DBUser     string `yaml:"db_user" json:"db_user"`
	DBPassword string `yaml:"db_password" json:"db_password"`
	DBURI      string `yaml:"db_uri" json:"db_uri"` // full URI override (MongoDB)
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
}

// LoadFile loads YAML settings from path.
func LoadFile(path string) (Settings, error) {
	var s Settings
	f, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(f, &s); err != nil {
		return s, err
	}
	return s, nil
}

// FromEnv overlays environment variables onto s. Unset variables leave the
// existing value alone; unrecognized environment content is ignored.
func FromEnv(s Settings) Settings {
	if v := os.Getenv("DB_TYPE"); v != "" {
		s.DBType = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		s.DBHost = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			s.DBPort = p
		}
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		s.DBName = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		s.DBUser = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		s.DBPassword = v
	}
	if v := os.Getenv("DB_URI"); v != "" {
		s.DBURI = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		s.SQLitePath = v
	}
	return s
}

// Load reads the optional YAML file at path and applies the environment
// overlay. A missing or unreadable file is not an error; the environment
// alone may carry the whole configuration.
func Load(path string) Settings {
	var s Settings
	if path != "" {
		if fromFile, err := LoadFile(path); err == nil {
			s = fromFile
		}
	}
	return FromEnv(s)
}

// NormalizeType lowercases and trims a backend-type string for lookup.
func NormalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// MySQLDSN builds a go-sql-driver DSN. Port defaults to 3306.
func MySQLDSN(s Settings) string {
	port := s.DBPort
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		s.DBUser, s.DBPassword, s.DBHost, port, s.DBName)
}

// PostgresDSN builds a lib/pq URL DSN. Port defaults to 5432.
func PostgresDSN(s Settings) string {
	port := s.DBPort
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		s.DBUser, s.DBPassword, s.DBHost, port, s.DBName)
}

// SQLitePathFor resolves the database file: sqlite_path, else db_name,
// else the literal database.db.
func SQLitePathFor(s Settings) string {
	if s.SQLitePath != "" {
		return s.SQLitePath
	}
	if s.DBName != "" {
		return s.DBName
	}
	return "database.db"
}

// SQLiteDSN builds a modernc.org/sqlite DSN for the resolved file.
func SQLiteDSN(s Settings) string {
	return "file:" + SQLitePathFor(s)
}

// MongoURI builds the MongoDB connection URI. A configured db_uri is used
// verbatim; otherwise an authenticated URI is built when both user and
// password are present, an unauthenticated one when not. Host defaults to
// localhost, port to 27017. The database itself is always selected by name
// from the connected client, never parsed back out of the URI.
func MongoURI(s Settings) string {
	if s.DBURI != "" {
		return s.DBURI
	}
	host := s.DBHost
	if host == "" {
		host = "localhost"
	}
	port := s.DBPort
	if port == 0 {
		port = 27017
	}
	if s.DBUser != "" && s.DBPassword != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d/%s",
			s.DBUser, s.DBPassword, host, port, s.DBName)
	}
	return fmt.Sprintf("mongodb://%s:%d/%s", host, port, s.DBName)
}
