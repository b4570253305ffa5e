package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults registers the built-in values. Explicit settings, including
// zero values, always win.
func setDefaults(v *viper.Viper) {
	for key, value := range map[string]any{
		"app.name": "rwbiz-backend",
		"app.env":  "development",
		"app.port": "8080",

		"database.driver":             "postgres",
		"database.host":               "localhost",
		"database.port":               5432,
		"database.user":               "postgres",
		"database.dbname":             "rwbiz",
		"database.sslmode":            "disable",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  60,
		"database.conn_max_idle_time": 30,

		"redis.host": "localhost",
		"redis.port": 6379,

		"jwt.access_token_expiration":  15 * time.Minute,
		"jwt.refresh_token_expiration": 7 * 24 * time.Hour,
		"jwt.issuer":                   "rwbiz-backend",

		"log.level":  "info",
		"log.format": "console",
		"log.output": "stdout",

		"http.read_timeout":             30 * time.Second,
		"http.write_timeout":            60 * time.Second,
		"http.idle_timeout":             60 * time.Second,
		"http.shutdown_timeout":         15 * time.Second,
		"http.max_header_bytes":         1 << 20,
		"http.max_body_size":            int64(10 << 20),
		"http.rate_limit_requests":      100,
		"http.rate_limit_window":        time.Minute,
		"http.auth_rate_limit_requests": 5,
		"http.auth_rate_limit_window":   time.Minute,
		// no origins by default, so no cross-origin requests
		"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID", "X-Company-ID"},

		"storage.driver":         "memory",
		"storage.bucket":         "rwbiz-documents",
		"storage.region":         "us-east-1",
		"storage.presign_expiry": 15 * time.Minute,
		"upload.max_size":        int64(50 << 20),

		"printing.timeout":        30 * time.Second,
		"printing.max_concurrent": 2,

		"scheduler.interval":            time.Hour,
		"scheduler.max_concurrent_jobs": 2,
		"scheduler.job_timeout":         10 * time.Minute,
		"scheduler.retry_attempts":      3,
		"scheduler.retry_delay":         time.Minute,
		"scheduler.reminder_days":       5,

		"telemetry.collector_endpoint":      "localhost:4317",
		"telemetry.sampling_ratio":          1.0,
		"telemetry.service_name":            "rwbiz-backend",
		"telemetry.metrics_interval":        30 * time.Second,
		"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
		"telemetry.profiling_server":        "http://localhost:4040",

		"payroll.pension_employee_rate":    0.06,
		"payroll.pension_employer_rate":    0.06,
		"payroll.maternity_employee_rate":  0.003,
		"payroll.maternity_employer_rate":  0.003,
		"payroll.occupational_hazard_rate": 0.02,
		"payroll.cbhi_rate":                0.005,
		"payroll.paye_bands":               []string{"0:0", "60000:0.10", "100000:0.20", "200000:0.30"},

		"tax.vat_rate":          0.18,
		"tax.cit_rate":          0.30,
		"tax.dividend_wht_rate": 0.15,
		"tax.qit_share":         0.25,

		"capital.early_withdrawal_penalty_rate": 0.10,
		"capital.upcoming_unlock_days":          30,
	} {
		v.SetDefault(key, value)
	}
}
