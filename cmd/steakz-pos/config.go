package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
)

// Config is loaded from STEAKZ_POS_* variables, flags and an optional
// steakz-pos.yaml (or the file passed with -config).
type Config struct {
	Server    string        `default:"http://localhost:8080" usage:"API base URL" flag:"server"`
	Username  string        `usage:"Login name, used when no saved session exists" flag:"username"`
	Password  string        `usage:"Password for -username" flag:"password"`
	TokenFile string        `usage:"Where the session token is kept (default: user config dir)" flag:"token-file"`
	Timeout   time.Duration `default:"10s" usage:"Per-request timeout" flag:"timeout"`
	LogLevel  string        `default:"warn" usage:"Log level (debug, info, warn, error)" flag:"log-level"`

	Payment      string  `default:"CASH" usage:"Payment method for checkout" flag:"payment"`
	Discount     float64 `usage:"Discount value for counter checkout" flag:"discount"`
	DiscountType string  `default:"AMOUNT" usage:"AMOUNT or PERCENTAGE" flag:"discount-type"`
	WalkInName   string  `usage:"Walk-in customer name" flag:"walk-in-name"`
	WalkInPhone  string  `usage:"Walk-in customer phone" flag:"walk-in-phone"`
	Branch       uint    `usage:"Branch id for customer checkout" flag:"branch"`

	Out string `usage:"Write receipts to this file instead of stdout" flag:"out"`
	PDF bool   `default:"false" usage:"Download the PDF receipt" flag:"pdf"`
}

// LoadConfig parses args and returns the config plus the remaining
// command words.
func LoadConfig(args []string) (*Config, []string, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STEAKZ_POS",
		FileFlag:  "config",
		Files:     []string{"steakz-pos.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
		Args: args,
	})
	if err := loader.Load(); err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		cfg.TokenFile = filepath.Join(dir, "steakz-pos", "token")
	}
	return &cfg, loader.Flags().Args(), nil
}
