package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process configuration, read once at startup
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	Upload    UploadConfig
	Printing  PrintingConfig
	Scheduler SchedulerConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
	Payroll   PayrollConfig
	Tax       TaxConfig
	Capital   CapitalConfig
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

type DatabaseConfig struct {
	Driver          string // postgres, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string // file path or ":memory:" for sqlite
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig backs token revocation. Disabled keeps revocations in
// memory, which only works for a single instance.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// JWTConfig signs tokens. RefreshSecret falls back to Secret.
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
}

type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	ShutdownTimeout       time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// StorageConfig selects the document vault backend
type StorageConfig struct {
	Driver         string // s3, minio, memory
	Endpoint       string
	Bucket         string
	Region         string
	AccessKey      string
	SecretKey      string
	UseSSL         bool
	ForcePathStyle bool
	PresignExpiry  time.Duration
}

type UploadConfig struct {
	MaxSize          int64
	AllowedMimeTypes []string
}

// PrintingConfig points at headless Chrome. RemoteURL wins over ChromePath.
type PrintingConfig struct {
	ChromePath    string
	RemoteURL     string
	Timeout       time.Duration
	MaxConcurrent int
}

type SchedulerConfig struct {
	Enabled bool
	// Cron is a robfig/cron spec such as "0 2 * * *". Empty runs every Interval.
	Cron              string
	Interval          time.Duration
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	ReminderDays      int
}

type SwaggerConfig struct {
	Enabled    bool
	AllowedIPs []string
}

// TelemetryConfig covers OTLP traces, metrics and logs plus Pyroscope
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
	DBTraceEnabled    bool
	DBSlowQueryThresh time.Duration
	ProfilingEnabled  bool
	ProfilingServer   string
}

// PAYEBand is one bracket of the monthly PAYE schedule
type PAYEBand struct {
	From float64
	Rate float64
}

// PayrollConfig rates are fractions, 0.06 is 6%
type PayrollConfig struct {
	PensionEmployeeRate    float64
	PensionEmployerRate    float64
	MaternityEmployeeRate  float64
	MaternityEmployerRate  float64
	OccupationalHazardRate float64
	CBHIRate               float64
	PAYEBands              []PAYEBand
}

type TaxConfig struct {
	VATRate         float64
	CITRate         float64
	DividendWHTRate float64
	QITShare        float64
}

type CapitalConfig struct {
	EarlyWithdrawalPenaltyRate float64
	UpcomingUnlockDays         int
}

// searchPaths are tried in order for config.toml
var searchPaths = []string{".", "./backend", "./config", "/app"}

// Load reads an optional .env file and config.toml, then lets BIZ_
// environment variables override both. BIZ_DATABASE_PASSWORD sets
// database.password.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	v.SetEnvPrefix("BIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	bands, err := parseBands(v.GetStringSlice("payroll.paye_bands"))
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		App:       AppConfig{Name: v.GetString("app.name"), Env: v.GetString("app.env"), Port: v.GetString("app.port")},
		Database:  databaseConfig(v),
		Redis:     redisConfig(v),
		JWT:       jwtConfig(v),
		Log:       LogConfig{Level: v.GetString("log.level"), Format: v.GetString("log.format"), Output: v.GetString("log.output")},
		HTTP:      httpConfig(v),
		Storage:   storageConfig(v),
		Upload:    UploadConfig{MaxSize: v.GetInt64("upload.max_size"), AllowedMimeTypes: v.GetStringSlice("upload.allowed_mime_types")},
		Printing:  printingConfig(v),
		Scheduler: schedulerConfig(v),
		Swagger:   SwaggerConfig{Enabled: v.GetBool("swagger.enabled"), AllowedIPs: v.GetStringSlice("swagger.allowed_ips")},
		Telemetry: telemetryConfig(v),
		Payroll:   payrollConfig(v, bands),
		Tax: TaxConfig{
			VATRate:         v.GetFloat64("tax.vat_rate"),
			CITRate:         v.GetFloat64("tax.cit_rate"),
			DividendWHTRate: v.GetFloat64("tax.dividend_wht_rate"),
			QITShare:        v.GetFloat64("tax.qit_share"),
		},
		Capital: CapitalConfig{
			EarlyWithdrawalPenaltyRate: v.GetFloat64("capital.early_withdrawal_penalty_rate"),
			UpcomingUnlockDays:         v.GetInt("capital.upcoming_unlock_days"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func databaseConfig(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Driver:          v.GetString("database.driver"),
		Host:            v.GetString("database.host"),
		Port:            v.GetInt("database.port"),
		User:            v.GetString("database.user"),
		Password:        v.GetString("database.password"),
		DBName:          v.GetString("database.dbname"),
		SSLMode:         v.GetString("database.sslmode"),
		MaxOpenConns:    v.GetInt("database.max_open_conns"),
		MaxIdleConns:    v.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
	}
}

func redisConfig(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Enabled:  v.GetBool("redis.enabled"),
		Host:     v.GetString("redis.host"),
		Port:     v.GetInt("redis.port"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

func jwtConfig(v *viper.Viper) JWTConfig {
	return JWTConfig{
		Secret:                 v.GetString("jwt.secret"),
		RefreshSecret:          v.GetString("jwt.refresh_secret"),
		AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
		RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
		Issuer:                 v.GetString("jwt.issuer"),
	}
}

func httpConfig(v *viper.Viper) HTTPConfig {
	k := func(name string) string { return "http." + name }
	return HTTPConfig{
		ReadTimeout:           v.GetDuration(k("read_timeout")),
		WriteTimeout:          v.GetDuration(k("write_timeout")),
		IdleTimeout:           v.GetDuration(k("idle_timeout")),
		ShutdownTimeout:       v.GetDuration(k("shutdown_timeout")),
		MaxHeaderBytes:        v.GetInt(k("max_header_bytes")),
		MaxBodySize:           v.GetInt64(k("max_body_size")),
		RateLimitEnabled:      v.GetBool(k("rate_limit_enabled")),
		RateLimitRequests:     v.GetInt(k("rate_limit_requests")),
		RateLimitWindow:       v.GetDuration(k("rate_limit_window")),
		AuthRateLimitEnabled:  v.GetBool(k("auth_rate_limit_enabled")),
		AuthRateLimitRequests: v.GetInt(k("auth_rate_limit_requests")),
		AuthRateLimitWindow:   v.GetDuration(k("auth_rate_limit_window")),
		CORSAllowOrigins:      v.GetStringSlice(k("cors_allow_origins")),
		CORSAllowMethods:      v.GetStringSlice(k("cors_allow_methods")),
		CORSAllowHeaders:      v.GetStringSlice(k("cors_allow_headers")),
		TrustedProxies:        v.GetStringSlice(k("trusted_proxies")),
	}
}

func storageConfig(v *viper.Viper) StorageConfig {
	return StorageConfig{
		Driver:         v.GetString("storage.driver"),
		Endpoint:       v.GetString("storage.endpoint"),
		Bucket:         v.GetString("storage.bucket"),
		Region:         v.GetString("storage.region"),
		AccessKey:      v.GetString("storage.access_key"),
		SecretKey:      v.GetString("storage.secret_key"),
		UseSSL:         v.GetBool("storage.use_ssl"),
		ForcePathStyle: v.GetBool("storage.force_path_style"),
		PresignExpiry:  v.GetDuration("storage.presign_expiry"),
	}
}

func printingConfig(v *viper.Viper) PrintingConfig {
	return PrintingConfig{
		ChromePath:    v.GetString("printing.chrome_path"),
		RemoteURL:     v.GetString("printing.remote_url"),
		Timeout:       v.GetDuration("printing.timeout"),
		MaxConcurrent: v.GetInt("printing.max_concurrent"),
	}
}

func schedulerConfig(v *viper.Viper) SchedulerConfig {
	return SchedulerConfig{
		Enabled:           v.GetBool("scheduler.enabled"),
		Cron:              v.GetString("scheduler.cron"),
		Interval:          v.GetDuration("scheduler.interval"),
		MaxConcurrentJobs: v.GetInt("scheduler.max_concurrent_jobs"),
		JobTimeout:        v.GetDuration("scheduler.job_timeout"),
		RetryAttempts:     v.GetInt("scheduler.retry_attempts"),
		RetryDelay:        v.GetDuration("scheduler.retry_delay"),
		ReminderDays:      v.GetInt("scheduler.reminder_days"),
	}
}

func telemetryConfig(v *viper.Viper) TelemetryConfig {
	return TelemetryConfig{
		Enabled:           v.GetBool("telemetry.enabled"),
		CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
		SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
		ServiceName:       v.GetString("telemetry.service_name"),
		Insecure:          v.GetBool("telemetry.insecure"),
		MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
		MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
		LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
		DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
		DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
		ProfilingServer:   v.GetString("telemetry.profiling_server"),
	}
}

func payrollConfig(v *viper.Viper, bands []PAYEBand) PayrollConfig {
	return PayrollConfig{
		PensionEmployeeRate:    v.GetFloat64("payroll.pension_employee_rate"),
		PensionEmployerRate:    v.GetFloat64("payroll.pension_employer_rate"),
		MaternityEmployeeRate:  v.GetFloat64("payroll.maternity_employee_rate"),
		MaternityEmployerRate:  v.GetFloat64("payroll.maternity_employer_rate"),
		OccupationalHazardRate: v.GetFloat64("payroll.occupational_hazard_rate"),
		CBHIRate:               v.GetFloat64("payroll.cbhi_rate"),
		PAYEBands:              bands,
	}
}

// parseBands reads PAYE bands written as "from:rate", e.g. "60000:0.10"
func parseBands(raw []string) ([]PAYEBand, error) {
	bands := make([]PAYEBand, 0, len(raw))
	for _, item := range raw {
		from, rate, ok := strings.Cut(strings.TrimSpace(item), ":")
		if !ok {
			return nil, fmt.Errorf("payroll.paye_bands entry %q must be from:rate", item)
		}
		var b PAYEBand
		var err error
		if b.From, err = strconv.ParseFloat(from, 64); err == nil {
			b.Rate, err = strconv.ParseFloat(rate, 64)
		}
		if err != nil {
			return nil, fmt.Errorf("payroll.paye_bands entry %q: %w", item, err)
		}
		bands = append(bands, b)
	}
	return bands, nil
}

// DSN is a postgres URL with the credentials escaped, or the file name for
// sqlite
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.DBName
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}
