package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

type Config struct {
	APIKey       string `json:"api_key"`
	BaseURL      string `json:"base_url"`
	Model        string `json:"model"`
	PoliciesPath string `json:"policies_path"`
	ClaimsPath   string `json:"claims_path"`
	StrictDates  bool   `json:"strict_dates"`
	Addr         string `json:"addr"`
}

func loadConfig(path string) (*Config, error) {
	conf := &Config{
		Model:        "gpt-4o-mini",
		PoliciesPath: "policies.json",
		ClaimsPath:   "claims.json",
		Addr:         ":8080",
	}
	file, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := sonic.Unmarshal(file, conf); err != nil {
		return nil, err
	}

	// Environment wins over the config file.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		conf.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		conf.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		conf.Model = v
	}
	if v := os.Getenv("PORT"); v != "" {
		conf.Addr = ":" + v
	}
	return conf, nil
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{BaseURL:%q, Model:%q, PoliciesPath:%q, ClaimsPath:%q, StrictDates:%v}",
		c.BaseURL, c.Model, c.PoliciesPath, c.ClaimsPath, c.StrictDates)
}
