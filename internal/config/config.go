package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time expresses policy windows as durations

	"github.com/iliyamo/parking-lot-service/internal/fee"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers, ints for hours and percents.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	// BackdatePolicy decides whether operators may record entries with
	// a past timestamp ("allow" or "deny").  BackdateMaxAgeHours bounds
	// the window when allowed; zero means unbounded.
	BackdatePolicy      string
	BackdateMaxAgeHours int

	// OverstayThresholdHours and OverstayPenaltyPercent drive the
	// overstay penalty: stays beyond the threshold bill extra days at
	// rate * (percent-100)/100.  Percent at or below 100 disables it.
	OverstayThresholdHours int
	OverstayPenaltyPercent int
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Policy values fall
// back to safe defaults.
func Load() Config {
	cfg := Config{
		Env:    must("APP_ENV"),      // environment (dev/test/prod)
		Port:   must("APP_PORT"),     // port to bind the HTTP server
		DBUser: must("DB_USER"),      // database user
		DBPass: os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost: must("DB_HOST"),      // database host
		DBPort: must("DB_PORT"),      // database port
		DBName: must("DB_NAME"),      // database name

		BackdatePolicy:      envStr("BACKDATE_POLICY", fee.BackdateAllow),
		BackdateMaxAgeHours: envInt("BACKDATE_MAX_AGE_HOURS", 0),

		// Penalty billing is opt-in: at 100 percent overstayed days
		// bill at the plain daily rate.
		OverstayThresholdHours: envInt("OVERSTAY_THRESHOLD_HOURS", 24),
		OverstayPenaltyPercent: envInt("OVERSTAY_PENALTY_PERCENT", 100),
	}
	if cfg.BackdatePolicy != fee.BackdateAllow && cfg.BackdatePolicy != fee.BackdateDeny {
		log.Fatalf("invalid BACKDATE_POLICY: %q (want allow or deny)", cfg.BackdatePolicy)
	}
	return cfg
}

// EntryPolicy converts the configured backdate settings into the
// validator's policy type.
func (c Config) EntryPolicy() fee.EntryPolicy {
	return fee.EntryPolicy{
		Backdate:    c.BackdatePolicy,
		MaxBackdate: time.Duration(c.BackdateMaxAgeHours) * time.Hour,
	}
}

// FeeOptions converts the configured overstay settings into calculator
// options.
func (c Config) FeeOptions() fee.Options {
	return fee.Options{
		OverstayThreshold:  time.Duration(c.OverstayThresholdHours) * time.Hour,
		PenaltyRatePercent: int64(c.OverstayPenaltyPercent),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
