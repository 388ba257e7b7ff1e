package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	AuthSecret  string

	GatewayBaseURL     string
	GatewayMerchantID  string
	GatewaySaltKey     string
	GatewaySaltIndex   int
	GatewayCallbackURL string
	GatewayTimeout     time.Duration
	PaymentSuccessURL  string
	PaymentFailureURL  string

	LedgerBaseURL string
	LedgerSheetID string
	LedgerToken   string

	MessagingBaseURL       string
	MessagingToken         string
	MessagingOwnerTemplate string
	MessagingUserTemplate  string

	CartItemTTL          time.Duration
	PaymentPollInterval  time.Duration
	PaymentPollGrace     time.Duration
	WorkerPoolSize       int
	MaxOrdersBatch       int
	SideEffectRetryCount int
	SideEffectRetryDelay time.Duration
	ShutdownTimeout      time.Duration
}

const (
	defaultRunAddress           = ":8080"
	defaultAuthSecret           = "change-me-in-production"
	defaultGatewaySaltIndex     = 1
	defaultGatewayTimeout       = 10 * time.Second
	defaultPaymentSuccessURL    = "http://localhost:3000/payment/success"
	defaultPaymentFailureURL    = "http://localhost:3000/payment/failure"
	defaultOwnerTemplate        = "store-owner-new-order"
	defaultUserTemplate         = "user-order-status"
	defaultCartItemTTL          = 24 * time.Hour
	defaultPaymentPollInterval  = 30 * time.Second
	defaultPaymentPollGrace     = 2 * time.Minute
	defaultWorkerPoolSize       = 4
	defaultMaxOrdersBatch       = 32
	defaultSideEffectRetryCount = 3
	defaultSideEffectRetryDelay = 5 * time.Second
	defaultShutdownTimeout      = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:  getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI: getString(lookup, "DATABASE_URI", ""),
		AuthSecret:  getString(lookup, "AUTH_SECRET", defaultAuthSecret),

		GatewayBaseURL:     getString(lookup, "GATEWAY_BASE_URL", ""),
		GatewayMerchantID:  getString(lookup, "GATEWAY_MERCHANT_ID", ""),
		GatewaySaltKey:     getString(lookup, "GATEWAY_SALT_KEY", ""),
		GatewaySaltIndex:   getInt(lookup, "GATEWAY_SALT_INDEX", defaultGatewaySaltIndex),
		GatewayCallbackURL: getString(lookup, "GATEWAY_CALLBACK_URL", ""),
		GatewayTimeout:     getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),
		PaymentSuccessURL:  getString(lookup, "PAYMENT_SUCCESS_URL", defaultPaymentSuccessURL),
		PaymentFailureURL:  getString(lookup, "PAYMENT_FAILURE_URL", defaultPaymentFailureURL),

		LedgerBaseURL: getString(lookup, "LEDGER_BASE_URL", ""),
		LedgerSheetID: getString(lookup, "LEDGER_SHEET_ID", ""),
		LedgerToken:   getString(lookup, "LEDGER_TOKEN", ""),

		MessagingBaseURL:       getString(lookup, "MESSAGING_BASE_URL", ""),
		MessagingToken:         getString(lookup, "MESSAGING_TOKEN", ""),
		MessagingOwnerTemplate: getString(lookup, "MESSAGING_OWNER_TEMPLATE", defaultOwnerTemplate),
		MessagingUserTemplate:  getString(lookup, "MESSAGING_USER_TEMPLATE", defaultUserTemplate),

		CartItemTTL:          getDuration(lookup, "CART_ITEM_TTL", defaultCartItemTTL),
		PaymentPollInterval:  getDuration(lookup, "PAYMENT_POLL_INTERVAL", defaultPaymentPollInterval),
		PaymentPollGrace:     getDuration(lookup, "PAYMENT_POLL_GRACE", defaultPaymentPollGrace),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		MaxOrdersBatch:       getInt(lookup, "POLL_BATCH_SIZE", defaultMaxOrdersBatch),
		SideEffectRetryCount: getInt(lookup, "SIDE_EFFECT_RETRY_COUNT", defaultSideEffectRetryCount),
		SideEffectRetryDelay: getDuration(lookup, "SIDE_EFFECT_RETRY_DELAY", defaultSideEffectRetryDelay),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("printmart", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.PaymentPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.GatewayBaseURL, "g", cfg.GatewayBaseURL, "Payment gateway base URL")
	fs.StringVar(&cfg.GatewayMerchantID, "merchant-id", cfg.GatewayMerchantID, "Merchant identifier at payment gateway")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing auth tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent settlement workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between settlement polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxOrdersBatch, "poll-batch", cfg.MaxOrdersBatch, "Maximum orders per polling batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PaymentPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxOrdersBatch <= 0 {
		cfg.MaxOrdersBatch = defaultMaxOrdersBatch
	}

	if cfg.PaymentPollInterval <= 0 {
		cfg.PaymentPollInterval = defaultPaymentPollInterval
	}

	if cfg.PaymentPollGrace <= 0 {
		cfg.PaymentPollGrace = defaultPaymentPollGrace
	}

	if cfg.CartItemTTL <= 0 {
		cfg.CartItemTTL = defaultCartItemTTL
	}

	if cfg.SideEffectRetryCount <= 0 {
		cfg.SideEffectRetryCount = defaultSideEffectRetryCount
	}

	if cfg.SideEffectRetryDelay <= 0 {
		cfg.SideEffectRetryDelay = defaultSideEffectRetryDelay
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.GatewayBaseURL == "" {
		return nil, fmt.Errorf("payment gateway base URL must be provided")
	}

	if cfg.GatewayMerchantID == "" {
		return nil, fmt.Errorf("payment gateway merchant id must be provided")
	}

	if cfg.GatewaySaltKey == "" {
		return nil, fmt.Errorf("payment gateway salt key must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
