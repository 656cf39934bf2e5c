package api

import "licensedesk/internal/config"

func testConfig() *config.Config {
	return &config.Config{
		Env:   "local",
		Admin: config.Admin{Token: token, Timeout: 5},
	}
}
