package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus anything the UI should
// surface before the config is saved.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Auth.DefaultOwner = strings.TrimSpace(out.Auth.DefaultOwner)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Auth.DefaultOwner == "" {
		res.addErr("auth.default_owner is required")
	}
	if out.Auth.RequireToken && out.Auth.DefaultOwner == "" {
		res.addErr("auth.require_token needs auth.default_owner for the keychain lookup")
	}

	if out.Reminders.SweepSeconds <= 0 {
		res.addErr("reminders.sweep_seconds must be > 0")
	} else if out.Reminders.SweepSeconds < 10 {
		res.addWarn("reminders.sweep_seconds is very low (%d); the sweep is cheap but noisy.", out.Reminders.SweepSeconds)
	}

	if out.LinkPreview.Enabled {
		if out.LinkPreview.TimeoutSeconds <= 0 {
			res.addErr("link_preview.timeout_seconds must be > 0 when enabled")
		}
		if out.LinkPreview.ReqPerSec <= 0 {
			res.addErr("link_preview.req_per_sec must be > 0 when enabled")
		}
		if out.LinkPreview.Burst <= 0 {
			res.addErr("link_preview.burst must be > 0 when enabled")
		}
	}

	return out, res
}
