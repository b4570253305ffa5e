package config

import (
	"errors"
	"fmt"
	"slices"
)

func (c *Config) validate() error {
	db := c.Database
	if db.Driver != "postgres" && db.Driver != "sqlite" {
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", db.Driver)
	}
	switch {
	case db.MaxOpenConns <= 0:
		return errors.New("database.max_open_conns must be positive")
	case db.MaxIdleConns < 0:
		return errors.New("database.max_idle_conns cannot be negative")
	case db.MaxIdleConns > db.MaxOpenConns:
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)
	}

	if !slices.Contains([]string{"s3", "minio", "memory"}, c.Storage.Driver) {
		return fmt.Errorf("storage.driver must be s3, minio or memory, got %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "minio" && c.Storage.Endpoint == "" {
		return errors.New("storage.endpoint is required for the minio driver")
	}
	if c.Upload.MaxSize <= 0 {
		return errors.New("upload.max_size must be positive")
	}

	if c.App.IsProduction() {
		if err := c.validateProduction(); err != nil {
			return err
		}
	}

	if r := c.Telemetry.SamplingRatio; r < 0 || r > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", r)
	}
	return c.validateRates()
}

// validateProduction refuses settings that are only safe on a laptop
func (c *Config) validateProduction() error {
	switch {
	case c.JWT.Secret == "":
		return errors.New("jwt.secret is required in production")
	case len(c.JWT.Secret) < 32:
		return errors.New("jwt.secret must be at least 32 characters in production")
	case c.Database.Driver == "postgres" && c.Database.Password == "":
		return errors.New("database.password is required in production")
	case c.Storage.Driver == "memory":
		return errors.New("storage.driver cannot be memory in production")
	case slices.Contains(c.HTTP.CORSAllowOrigins, "*"):
		return errors.New("http.cors_allow_origins cannot contain '*' in production")
	case c.Swagger.Enabled && len(c.Swagger.AllowedIPs) == 0:
		return errors.New("swagger must be disabled or IP restricted in production")
	}
	return nil
}

func (c *Config) validateRates() error {
	rates := []struct {
		key  string
		rate float64
	}{
		{"payroll.pension_employee_rate", c.Payroll.PensionEmployeeRate},
		{"payroll.pension_employer_rate", c.Payroll.PensionEmployerRate},
		{"payroll.maternity_employee_rate", c.Payroll.MaternityEmployeeRate},
		{"payroll.maternity_employer_rate", c.Payroll.MaternityEmployerRate},
		{"payroll.occupational_hazard_rate", c.Payroll.OccupationalHazardRate},
		{"payroll.cbhi_rate", c.Payroll.CBHIRate},
		{"tax.vat_rate", c.Tax.VATRate},
		{"tax.cit_rate", c.Tax.CITRate},
		{"tax.dividend_wht_rate", c.Tax.DividendWHTRate},
		{"tax.qit_share", c.Tax.QITShare},
		{"capital.early_withdrawal_penalty_rate", c.Capital.EarlyWithdrawalPenaltyRate},
	}
	for _, r := range rates {
		if r.rate < 0 || r.rate >= 1 {
			return fmt.Errorf("%s must be a fraction between 0 and 1, got %f", r.key, r.rate)
		}
	}
	for i, b := range c.Payroll.PAYEBands {
		if b.Rate < 0 || b.Rate >= 1 {
			return fmt.Errorf("payroll.paye_bands[%d] rate must be between 0 and 1, got %f", i, b.Rate)
		}
	}
	return nil
}
