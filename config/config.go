// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/retry"
	"github.com/gogama/fetchx/timeout"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	keyLoadingTime      = "loading_time"
	keyRetryTimes       = "retry_times"
	keyRetryDelay       = "retry_delay"
	keyTypeTo           = "type_to"
	keyTypeFrom         = "type_from"
	keyBadResponseError = "bad_response_error"
	keyMethod           = "method"
	keyHeaders          = "headers"
)

// A Source loads one layer of configuration.
type Source func(k *koanf.Koanf) error

// File loads the YAML file at path.
func File(path string) Source {
	return func(k *koanf.Koanf) error {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		return nil
	}
}

// YAML loads YAML text.
func YAML(b []byte) Source {
	return func(k *koanf.Koanf) error {
		if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to parse yaml: %w", err)
		}
		return nil
	}
}

// Map loads keys from m. Nested maps, or keys joined with ".", address
// headers.
func Map(m map[string]interface{}) Source {
	return func(k *koanf.Koanf) error {
		return k.Load(confmap.Provider(m, "."), nil)
	}
}

// Env loads the environment variables starting with prefix. Variables
// whose names do not map to a known key are ignored.
func Env(prefix string) Source {
	return func(k *koanf.Koanf) error {
		err := k.Load(env.Provider(".", env.Opt{
			Prefix: prefix,
			TransformFunc: func(name, value string) (string, any) {
				return envKey(strings.TrimPrefix(name, prefix)), value
			},
		}), nil)
		if err != nil {
			return fmt.Errorf("failed to load environment variables: %w", err)
		}
		return nil
	}
}

func envKey(name string) string {
	key := strings.ToLower(name)
	if rest, ok := strings.CutPrefix(key, keyHeaders+"_"); ok && rest != "" {
		return keyHeaders + "." + strings.ReplaceAll(rest, "_", "-")
	}
	switch key {
	case keyLoadingTime, keyRetryTimes, keyRetryDelay, keyTypeTo,
		keyTypeFrom, keyBadResponseError, keyMethod:
		return key
	default:
		return ""
	}
}

type settings struct {
	LoadingTime      time.Duration     `koanf:"loading_time"`
	RetryTimes       int               `koanf:"retry_times"`
	RetryDelay       time.Duration     `koanf:"retry_delay"`
	TypeTo           string            `koanf:"type_to"`
	TypeFrom         string            `koanf:"type_from"`
	BadResponseError bool              `koanf:"bad_response_error"`
	Method           string            `koanf:"method"`
	Headers          map[string]string `koanf:"headers"`
}

// Load builds a fetchx.Config from the built-in defaults overlaid with
// sources, in order.
func Load(sources ...Source) (fetchx.Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return fetchx.Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	for _, src := range sources {
		if err := src(k); err != nil {
			return fetchx.Config{}, err
		}
	}

	var s settings
	if err := k.Unmarshal("", &s); err != nil {
		return fetchx.Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg, err := s.toConfig()
	if err != nil {
		return fetchx.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]interface{}{
		keyLoadingTime:      timeout.DefaultLoadingTime.String(),
		keyRetryTimes:       retry.DefaultTimes,
		keyRetryDelay:       retry.DefaultDelay.String(),
		keyTypeTo:           fetchx.TypeNone.String(),
		keyTypeFrom:         fetchx.EncodingNone.String(),
		keyBadResponseError: false,
		keyMethod:           http.MethodGet,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

func (s *settings) toConfig() (fetchx.Config, error) {
	if s.LoadingTime < 0 {
		return fetchx.Config{}, fmt.Errorf("%s must not be negative", keyLoadingTime)
	}
	if s.RetryTimes < 0 {
		return fetchx.Config{}, fmt.Errorf("%s must not be negative", keyRetryTimes)
	}
	if s.RetryDelay < 0 {
		return fetchx.Config{}, fmt.Errorf("%s must not be negative", keyRetryDelay)
	}
	to, err := fetchx.ParseType(s.TypeTo)
	if err != nil {
		return fetchx.Config{}, fmt.Errorf("%s: %w", keyTypeTo, err)
	}
	from, err := fetchx.ParseEncoding(s.TypeFrom)
	if err != nil {
		return fetchx.Config{}, fmt.Errorf("%s: %w", keyTypeFrom, err)
	}

	cfg := fetchx.DefaultConfig()
	cfg.LoadingTime = s.LoadingTime
	cfg.RetryTimes = s.RetryTimes
	cfg.RetryDelay = s.RetryDelay
	cfg.TypeTo = to
	cfg.TypeFrom = from
	cfg.BadResponseError = s.BadResponseError
	cfg.Method = strings.ToUpper(s.Method)
	if len(s.Headers) > 0 {
		cfg.Header = make(http.Header, len(s.Headers))
		for name, value := range s.Headers {
			cfg.Header.Set(name, value)
		}
	}
	return cfg, nil
}
