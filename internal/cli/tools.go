package cli

import (
	"crypto/x509"
	"fmt"
	"os"
	"sectoolkit"
	"sectoolkit/internal/config"
	"sectoolkit/pkg/analysis"
	"sectoolkit/pkg/crypto"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/network"
	"sectoolkit/pkg/serrors"
	"sectoolkit/pkg/storage/postgres"
	"time"
)

func scannerOptions(cfg *config.Config) network.Options {
	return network.Options{
		Timeout:       cfg.Scanner.Timeout,
		Concurrency:   cfg.Scanner.Concurrency,
		RateLimit:     cfg.Scanner.RateLimit,
		GrabBanner:    cfg.Scanner.GrabBanner,
		BannerTimeout: cfg.Scanner.BannerTimeout,
		Retries:       cfg.Scanner.Retries,
	}
}

// newSSLValidator builds a validator from cfg. A non-zero timeout or a CA
// bundle path override the configured ones.
func newSSLValidator(cfg *config.Config, timeout time.Duration, caPath string) (*crypto.SSLValidator, error) {
	opts := crypto.SSLOptions{
		Timeout:       cfg.TLS.Timeout,
		ExpiryWarning: cfg.TLS.ExpiryWarning,
	}
	if timeout > 0 {
		opts.Timeout = timeout
	}

	if caPath == "" {
		caPath = cfg.TLS.RootCAPath
	}

	if caPath != "" {
		data, err := os.ReadFile(caPath)
		if err != nil {
			return nil, fmt.Errorf("could not read CA bundle: %w", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(data) {
			return nil, serrors.With(serrors.ErrBadRequest, "no certificates found in %s", caPath)
		}
		opts.RootCAs = pool
	}

	return crypto.NewSSLValidator(opts), nil
}

func newPasswordAnalyzer(cfg *config.Config, minLength int, wordlistPath string) (*analysis.PasswordAnalyzer, error) {
	opts := analysis.PasswordOptions{MinLength: cfg.Password.MinLength}
	if minLength > 0 {
		opts.MinLength = minLength
	}

	if wordlistPath == "" {
		wordlistPath = cfg.Password.WordlistPath
	}

	if wordlistPath != "" {
		words, err := analysis.LoadWordlist(wordlistPath)
		if err != nil {
			return nil, err //nolint: wrapcheck
		}
		opts.Wordlist = words
	}

	return analysis.NewPasswordAnalyzer(opts), nil
}

// logFlags override the configured log parser settings when set.
type logFlags struct {
	format              string
	rulesPath           string
	bruteForceThreshold int
	scanThreshold       int
	topN                int
}

func newLogParser(cfg *config.Config, flags logFlags) (*analysis.LogParser, error) {
	opts := analysis.LogOptions{
		Format:              domain.LogFormat(cfg.Logs.Format),
		BruteForceThreshold: cfg.Logs.BruteForceThreshold,
		ScanThreshold:       cfg.Logs.ScanThreshold,
		TopN:                cfg.Logs.TopN,
	}
	if flags.format != "" {
		opts.Format = domain.LogFormat(flags.format)
	}

	if flags.bruteForceThreshold > 0 {
		opts.BruteForceThreshold = flags.bruteForceThreshold
	}

	if flags.scanThreshold > 0 {
		opts.ScanThreshold = flags.scanThreshold
	}

	if flags.topN > 0 {
		opts.TopN = flags.topN
	}

	rulesPath := flags.rulesPath
	if rulesPath == "" {
		rulesPath = cfg.Logs.RulesPath
	}

	if rulesPath != "" {
		rules, err := analysis.LoadRules(rulesPath)
		if err != nil {
			return nil, err //nolint: wrapcheck
		}
		opts.ExtraRules = rules
	}

	return analysis.NewLogParser(opts) //nolint: wrapcheck
}

func postgresOptions(cfg *config.Config) postgres.Options {
	return postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		ApplicationName:    sectoolkit.Name,
	}
}
