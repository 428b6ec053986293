package main

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/dnshygiene/ptrcheck/endpoint"
	"github.com/dnshygiene/ptrcheck/resolver"
	"github.com/dnshygiene/ptrcheck/zone"
)

// validate checks and converts all the command-line options which are likely a typo or
// usage error. Nothing here touches the network. The resolver configuration is loaded
// here unless a resolver has already been supplied.
func (t *ptrCheck) validate() error {
	cfg := t.cfg
	if len(cfg.server) == 0 {
		return errors.New("--server is required")
	}
	if len(cfg.zone) == 0 {
		return errors.New("--zone is required")
	}

	var err error
	cfg.endpoint, err = endpoint.Parse(cfg.server)
	if err != nil {
		return fmt.Errorf("--server: %w", err)
	}

	cfg.zoneName, err = zone.CanonicalZone(cfg.zone)
	if err != nil {
		return fmt.Errorf("--zone: %w", err)
	}

	if len(cfg.badRE) > 0 {
		cfg.badPattern, err = regexp.Compile(cfg.badRE)
		if err != nil {
			return fmt.Errorf("Invalid regex: %s: %w", cfg.badRE, err)
		}
	}

	switch cfg.colorMode {
	case colorAuto, colorAlways, colorNever:
		cfg.palette = newPalette(cfg.colorMode)
	default:
		return fmt.Errorf("--color must be one of %s, %s or %s, not '%s'",
			colorAuto, colorAlways, colorNever, cfg.colorMode)
	}

	if cfg.parallel < 1 {
		return fmt.Errorf("--parallel must be at least 1, not %d", cfg.parallel)
	}
	if cfg.timeout <= 0 {
		return fmt.Errorf("--timeout must be greater than zero, not %s", cfg.timeout)
	}
	cfg.transfer = zone.NewConfig()
	cfg.transfer.DialTimeout = cfg.timeout
	cfg.transfer.ReadTimeout = cfg.timeout
	cfg.transfer.Cookie = cfg.cookieFlag

	if t.resolver == nil {
		rc, err := resolver.LoadConfig(cfg.resolvConf)
		if err != nil {
			return fmt.Errorf("--resolv-conf: %w", err)
		}
		t.resolver = resolver.NewResolver(rc)
	}

	return nil
}
