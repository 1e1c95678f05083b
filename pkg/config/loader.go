/*
Copyright 2026 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/magiconair/properties"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

const (
	// DefaultPath is where the properties resource is looked for by default.
	DefaultPath = "config.properties"

	// DefaultEnvPrefix prefixes environment overrides, e.g. BOOKS_BASE_URL.
	DefaultEnvPrefix = "BOOKS"

	// FlagBaseURL overrides base.url on the command line.
	FlagBaseURL = "base-url"

	// FlagEndpoint overrides api.endpoint on the command line.
	FlagEndpoint = "endpoint"
)

// requiredKeys must resolve to a non-empty value, the order here is the
// order they are reported in.
//
//nolint:gochecknoglobals
var requiredKeys = []string{
	KeyBaseURL,
	KeyEndpoint,
	KeyAdminUsername,
	KeyAdminPassword,
	KeyUserUsername,
	KeyUserPassword,
}

// Options control where configuration is read from.
type Options struct {
	// Path is the properties resource.
	Path string
	// EnvFile is an optional dotenv file loaded into the environment first.
	EnvFile string
	// EnvPrefix prefixes environment overrides, defaults to DefaultEnvPrefix.
	EnvPrefix string
	// Flags, when set, supplies --base-url and --endpoint overrides.
	Flags *pflag.FlagSet
}

// AddFlags registers configuration flags.
func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.Path, "config", DefaultPath, "Properties file holding the service URL and credentials")
	f.StringVar(&o.EnvFile, "env-file", "", "Optional .env file loaded into the environment before configuration is read")
	f.String(FlagBaseURL, "", "Override "+KeyBaseURL)
	f.String(FlagEndpoint, "", "Override "+KeyEndpoint)

	o.Flags = f
}

// Loader reads configuration once and hands back the cached result on
// every later call, including a cached failure.
type Loader struct {
	options Options

	lock   sync.Mutex
	loaded bool
	config *Configuration
	err    error
}

// NewLoader creates a loader for the given options.
func NewLoader(options Options) *Loader {
	return &Loader{
		options: options,
	}
}

// Load returns the configuration, reading it on first use.
func (l *Loader) Load() (*Configuration, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if !l.loaded {
		l.config, l.err = load(&l.options)
		l.loaded = true
	}

	return l.config, l.err
}

// Load is a one-shot convenience wrapper around a Loader.
func Load(options Options) (*Configuration, error) {
	return NewLoader(options).Load()
}

//nolint:cyclop
func load(options *Options) (*Configuration, error) {
	path := options.Path
	if path == "" {
		path = DefaultPath
	}

	if options.EnvFile != "" {
		if err := godotenv.Load(options.EnvFile); err != nil {
			return nil, &ConfigurationError{Source: options.EnvFile, Err: fmt.Errorf("loading env file: %w", err)}
		}
	}

	if _, err := os.Stat(path); err != nil {
		return nil, &ConfigurationError{Source: path, Err: fmt.Errorf("properties resource unavailable: %w", err)}
	}

	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, &ConfigurationError{Source: path, Err: fmt.Errorf("parsing properties: %w", err)}
	}

	v, err := newViper(options, props)
	if err != nil {
		return nil, &ConfigurationError{Source: path, Err: err}
	}

	var missing []string

	for _, key := range requiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return nil, &ConfigurationError{Source: path, Missing: missing}
	}

	config := &Configuration{
		BaseURL:  strings.TrimSuffix(strings.TrimSpace(v.GetString(KeyBaseURL)), "/"),
		Endpoint: normalizeEndpoint(v.GetString(KeyEndpoint)),
		Credentials: map[Role]Credentials{
			RoleAdmin: {
				Username: v.GetString(KeyAdminUsername),
				Password: v.GetString(KeyAdminPassword),
			},
			RoleUser: {
				Username: v.GetString(KeyUserUsername),
				Password: v.GetString(KeyUserPassword),
			},
			RoleInvalid: {
				Username: v.GetString(KeyInvalidUsername),
				Password: v.GetString(KeyInvalidPassword),
			},
		},
		LogRequests:  v.GetBool(KeyLogRequests),
		LogResponses: v.GetBool(KeyLogResponses),
	}

	var problems []error

	if err := validateBaseURL(config.BaseURL); err != nil {
		problems = append(problems, err)
	}

	timeout, err := time.ParseDuration(v.GetString(KeyRequestTimeout))
	if err != nil {
		problems = append(problems, fmt.Errorf("%s: %w", KeyRequestTimeout, err))
	} else if timeout <= 0 {
		problems = append(problems, fmt.Errorf("%s: must be positive, got %s", KeyRequestTimeout, timeout))
	}

	config.RequestTimeout = timeout

	if err := utilerrors.NewAggregate(problems); err != nil {
		return nil, &ConfigurationError{Source: path, Err: err}
	}

	return config, nil
}

// newViper layers configuration sources.  From lowest to highest precedence
// they are built in defaults, the properties resource, the environment and
// finally any command line flags that were explicitly set.
func newViper(options *Options, props *properties.Properties) (*viper.Viper, error) {
	prefix := options.EnvPrefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := map[string]string{
		KeyInvalidUsername: defaultInvalidUsername,
		KeyInvalidPassword: defaultInvalidPassword,
		KeyRequestTimeout:  DefaultRequestTimeout.String(),
		KeyLogRequests:     "false",
		KeyLogResponses:    "false",
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	for _, key := range props.Keys() {
		value, _ := props.Get(key)
		v.SetDefault(key, strings.TrimSpace(value))
	}

	if options.Flags != nil {
		bindings := map[string]string{
			KeyBaseURL:  FlagBaseURL,
			KeyEndpoint: FlagEndpoint,
		}

		for key, name := range bindings {
			flag := options.Flags.Lookup(name)
			if flag == nil {
				continue
			}

			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	return v, nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", KeyBaseURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: scheme must be http or https, got %q", KeyBaseURL, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%s: host is required", KeyBaseURL)
	}

	return nil
}
