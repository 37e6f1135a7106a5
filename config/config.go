package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultCourtName is the court recorded when a police officer files a case
	DefaultCourtName = "District Court"
	// DefaultReconcileSchedule runs the reconciliation sweep every fifteen minutes
	DefaultReconcileSchedule = "*/15 * * * *"
	// DefaultLedgerTimeout bounds a single ledger registration
	DefaultLedgerTimeout = 5 * time.Second
)

// Ledger modes
const (
	LedgerNone   = "none"
	LedgerHTTP   = "http"
	LedgerFabric = "fabric"
)

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string
	Env          string
	JWTSecret    string

	RedisAddr     string
	RedisPassword string

	LedgerMode    string
	LedgerURL     string
	LedgerTimeout time.Duration
	Fabric        FabricConfig

	SendgridAPIKey string
	MailFrom       string
	CloudinaryURL  string

	ReconcileSchedule string
	DefaultCourtName  string
}

// FabricConfig locates the gateway peer and the client identity used to
// submit audit transactions
type FabricConfig struct {
	PeerEndpoint string
	GatewayPeer  string
	MSPID        string
	CertPath     string
	KeyPath      string
	TLSCertPath  string
	Channel      string
	Chaincode    string
}

// New sets up all config related services
func New() *Config {
	env := getenv("ENV", "local")

	//setup zap logger and replace default logger
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	_ = zap.ReplaceGlobals(logger)

	ledgerTimeout, err := time.ParseDuration(getenv("LEDGER_TIMEOUT", DefaultLedgerTimeout.String()))
	if err != nil {
		zap.S().Warnw("invalid LEDGER_TIMEOUT, using default", "error", err)
		ledgerTimeout = DefaultLedgerTimeout
	}

	return &Config{
		URL:          os.Getenv("DB_URI"),
		DatabaseName: os.Getenv("DB_NAME"),
		BaseURL:      os.Getenv("BASE_URL"),
		Port:         getenv("PORT", "8080"),
		Env:          env,
		JWTSecret:    os.Getenv("JWT_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		LedgerMode:    getenv("LEDGER_MODE", LedgerNone),
		LedgerURL:     os.Getenv("LEDGER_URL"),
		LedgerTimeout: ledgerTimeout,
		Fabric: FabricConfig{
			PeerEndpoint: getenv("FABRIC_PEER_ENDPOINT", "localhost:7051"),
			GatewayPeer:  getenv("FABRIC_GATEWAY_PEER", "peer0.org1.example.com"),
			MSPID:        getenv("FABRIC_MSP_ID", "Org1MSP"),
			CertPath:     os.Getenv("FABRIC_CERT_PATH"),
			KeyPath:      os.Getenv("FABRIC_KEY_PATH"),
			TLSCertPath:  os.Getenv("FABRIC_TLS_CERT_PATH"),
			Channel:      getenv("FABRIC_CHANNEL", "mychannel"),
			Chaincode:    getenv("FABRIC_CHAINCODE", "casetracker"),
		},

		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getenv("MAIL_FROM", "no-reply@casetracker.local"),
		CloudinaryURL:  os.Getenv("CLOUDINARY_URL"),

		ReconcileSchedule: getenv("RECONCILE_SCHEDULE", DefaultReconcileSchedule),
		DefaultCourtName:  getenv("DEFAULT_COURT_NAME", DefaultCourtName),
	}
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// setLogger picks the zap preset for the running environment
func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "development":
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		return cfg.Build()
	default:
		return zap.NewDevelopment()
	}
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().Errorw(message, "status", httpStatusCode, "error", err)
	body := message
	if err != nil {
		body = fmt.Sprintf("%s, %v", message, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"response": body})
}
