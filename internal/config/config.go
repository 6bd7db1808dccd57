package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	applog "my/internal/log"
)

type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Serve
	ServePort            string
	ServeReadTimeout     time.Duration
	ServeWriteTimeout    time.Duration
	ServeIdleTimeout     time.Duration
	ServeShutdownTimeout time.Duration
	ServeRateLimit       int

	// Highlight
	HighlightBin      string
	HighlightStyle    string
	HighlightFont     string
	HighlightFontSize int
	ClipboardPaste    string
	ClipboardCopy     string

	// Backup
	BackupVolume       string
	BackupDest         string
	BackupSources      []string
	BackupExcludesFile string
	RsyncBin           string

	// Expenses
	ExpensesCategoriesFile string
	ExpensesFormat         string
	ExpensesDelimiter      string
	ExpensesKeyByYear      bool
}

// Output formats accepted by the expenses command.
var ValidFormats = []string{"text", "json", "yaml"}

func Load() *Config {
	home, _ := os.UserHomeDir()
	defaultSources := []string{filepath.Join(home, "Projects"), filepath.Join(home, "Documents")}

	return &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		ServePort:            getEnv("SERVE_PORT", "8080"),
		ServeReadTimeout:     getEnvDuration("SERVE_READ_TIMEOUT", 10*time.Second),
		ServeWriteTimeout:    getEnvDuration("SERVE_WRITE_TIMEOUT", 30*time.Second),
		ServeIdleTimeout:     getEnvDuration("SERVE_IDLE_TIMEOUT", 60*time.Second),
		ServeShutdownTimeout: getEnvDuration("SERVE_SHUTDOWN_TIMEOUT", 10*time.Second),
		ServeRateLimit:       getEnvInt("SERVE_RATE_LIMIT", 0),

		HighlightBin:      getEnv("HIGHLIGHT_BIN", "highlight"),
		HighlightStyle:    getEnv("HIGHLIGHT_STYLE", "github"),
		HighlightFont:     getEnv("HIGHLIGHT_FONT", "Inconsolata"),
		HighlightFontSize: getEnvInt("HIGHLIGHT_FONT_SIZE", 24),
		ClipboardPaste:    getEnv("CLIPBOARD_PASTE_CMD", "pbpaste"),
		ClipboardCopy:     getEnv("CLIPBOARD_COPY_CMD", "pbcopy"),

		BackupVolume:       getEnv("BACKUP_VOLUME", "/Volumes/RhinoDrive"),
		BackupDest:         getEnv("BACKUP_DEST", "/Volumes/RhinoDrive/Backup/"),
		BackupSources:      getEnvList("BACKUP_SOURCES", defaultSources),
		BackupExcludesFile: getEnv("BACKUP_EXCLUDES_FILE", "backup-excludes"),
		RsyncBin:           getEnv("RSYNC_BIN", "rsync"),

		ExpensesCategoriesFile: getEnv("EXPENSES_CATEGORIES_FILE", ""),
		ExpensesFormat:         getEnv("EXPENSES_FORMAT", "text"),
		ExpensesDelimiter:      getEnv("EXPENSES_DELIMITER", ","),
		ExpensesKeyByYear:      getEnvBool("EXPENSES_KEY_BY_YEAR", false),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if err := ValidatePort(c.ServePort); err != nil {
		errors = append(errors, err.Error())
	}
	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"read timeout", c.ServeReadTimeout},
		{"write timeout", c.ServeWriteTimeout},
		{"idle timeout", c.ServeIdleTimeout},
		{"shutdown timeout", c.ServeShutdownTimeout},
	}
	for _, to := range timeouts {
		if to.d < 0 {
			errors = append(errors, fmt.Sprintf("invalid serve %s %v: must not be negative", to.name, to.d))
		}
	}
	if c.ServeRateLimit < 0 {
		errors = append(errors, fmt.Sprintf("invalid serve rate limit %d: must not be negative", c.ServeRateLimit))
	}

	if strings.TrimSpace(c.HighlightBin) == "" {
		errors = append(errors, "highlight binary cannot be empty")
	}
	if c.HighlightFontSize < 1 || c.HighlightFontSize > 200 {
		errors = append(errors, fmt.Sprintf("invalid highlight font size %d: must be between 1 and 200", c.HighlightFontSize))
	}
	if strings.TrimSpace(c.ClipboardPaste) == "" || strings.TrimSpace(c.ClipboardCopy) == "" {
		errors = append(errors, "clipboard paste and copy commands cannot be empty")
	}

	if strings.TrimSpace(c.BackupDest) == "" {
		errors = append(errors, "backup destination cannot be empty")
	}
	if len(c.BackupSources) == 0 {
		errors = append(errors, "at least one backup source is required")
	}
	if strings.TrimSpace(c.RsyncBin) == "" {
		errors = append(errors, "rsync binary cannot be empty")
	}

	if !isValidFormat(c.ExpensesFormat) {
		errors = append(errors, fmt.Sprintf("invalid expenses format '%s': must be one of %v", c.ExpensesFormat, ValidFormats))
	}
	if _, err := c.Delimiter(); err != nil {
		errors = append(errors, err.Error())
	}
	if c.ExpensesCategoriesFile != "" {
		if _, err := os.Stat(c.ExpensesCategoriesFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("expenses categories file does not exist: %s", c.ExpensesCategoriesFile))
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidatePort checks that port is a number in the TCP range.
func ValidatePort(port string) error {
	p, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port '%s': must be a number", port)
	}
	if p < 1 || p > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", p)
	}
	return nil
}

// Delimiter returns the configured expense field delimiter as a rune.
func (c *Config) Delimiter() (rune, error) {
	d := c.ExpensesDelimiter
	if d == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(d)
	if d == "" || size != len(d) || r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid expenses delimiter '%s': must be a single character other than quote or newline", d)
	}
	return r, nil
}

func isValidFormat(f string) bool {
	for _, v := range ValidFormats {
		if f == v {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, expanding $VARS in each item.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(os.ExpandEnv(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
