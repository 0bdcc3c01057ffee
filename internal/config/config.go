package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time parses duration-valued settings
)

// CourseConfig holds the runtime configuration of the Course service.
// Each field corresponds to an environment variable.
type CourseConfig struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	JWTSecret      string        // secret used to sign session tokens
	SrvSession     string        // shared secret for service-to-service calls
	SessionTTLMin  int           // session token time-to-live in minutes
	BcryptCost     int           // bcrypt cost for password hashing
	ReservationTTL time.Duration // seat hold lifetime in the reservation engine
	StoreBackend   string        // "memory" or "mysql"
	DB             DBConfig      // MySQL settings, used when StoreBackend is "mysql"
	AMQPURL        string        // RabbitMQ URL for event publishing (optional)
}

// OrderConfig holds the runtime configuration of the Order service.
type OrderConfig struct {
	Env              string        // application environment
	Port             string        // HTTP port to listen on
	SrvSession       string        // shared secret sent on calls to the Course service
	CourseServiceURL string        // base URL of the Course service
	RPCAttempts      int           // total tries per RPC call
	RPCWait          time.Duration // fixed wait between RPC retries
	PayWindow        time.Duration // deadline for paying a new order
	CancelWindow     time.Duration // deadline for cancelling a new order
	StoreBackend     string        // "memory" or "mysql"
	DB               DBConfig      // MySQL settings, used when StoreBackend is "mysql"
	AMQPURL          string        // RabbitMQ URL for event publishing (optional)
}

// DBConfig groups the MySQL connection settings.
type DBConfig struct {
	User string // database username
	Pass string // database password (optional)
	Host string // database host address
	Port string // database port number
	Name string // database name
}

// LoadCourse reads the Course service configuration.  Required variables
// are enforced by must(); missing values cause the program to exit with
// a fatal log message.
func LoadCourse() CourseConfig {
	cfg := CourseConfig{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		JWTSecret:      must("JWT_SECRET"),
		SrvSession:     must("SRV_SESSION"),
		SessionTTLMin:  envInt("SESSION_TTL_MIN", 60),
		BcryptCost:     envInt("BCRYPT_COST", 10),
		ReservationTTL: envDur("RESERVATION_TTL", 5*time.Minute),
		StoreBackend:   envStr("STORE_BACKEND", "memory"),
		AMQPURL:        os.Getenv("AMQP_URL"),
	}
	if cfg.StoreBackend == "mysql" {
		cfg.DB = loadDB()
	}
	return cfg
}

// LoadOrder reads the Order service configuration.
func LoadOrder() OrderConfig {
	cfg := OrderConfig{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		SrvSession:       must("SRV_SESSION"),
		CourseServiceURL: must("COURSE_SERVICE_URL"),
		RPCAttempts:      envInt("RPC_ATTEMPTS", 3),
		RPCWait:          envDur("RPC_WAIT", time.Second),
		PayWindow:        envDur("PAY_WINDOW", 5*time.Minute),
		CancelWindow:     envDur("CANCEL_WINDOW", 4*time.Minute),
		StoreBackend:     envStr("STORE_BACKEND", "memory"),
		AMQPURL:          os.Getenv("AMQP_URL"),
	}
	if cfg.StoreBackend == "mysql" {
		cfg.DB = loadDB()
	}
	return cfg
}

func loadDB() DBConfig {
	return DBConfig{
		User: must("DB_USER"),
		Pass: os.Getenv("DB_PASS"), // empty allowed
		Host: must("DB_HOST"),
		Port: must("DB_PORT"),
		Name: must("DB_NAME"),
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
