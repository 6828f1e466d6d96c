// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jq

import (
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/jqdata/message"
)

// Config is the declarative client configuration, suitable for a TOML file
// (see LoadConfig) or for embedding in a larger JSON-based message.
//
// A minimal config.toml:
//
//   mobile = "13800000000"
//   password = "secret"
type Config struct {
	Mobile     string `json:"mobile" required:"true"`
	Password   string `json:"password" required:"true"`
	URL        string `json:"url"`                              // default: the public endpoint
	TimeoutSec int    `json:"timeout_sec" default:"60" min:"1"` // per-request timeout
	RateLimit  int    `json:"rate_limit" min:"0"`               // requests per minute; 0 = no cap
}

var _ message.Message = &Config{}

// InitMessage implements message.Message.
func (c *Config) InitMessage(js interface{}) error {
	return message.Init(c, js)
}

// tomlValue recursively converts a TOML-decoded value into the generic JSON
// shape expected by message.Init; in particular, TOML integers arrive as
// int64 and become float64.
func tomlValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			m[k] = tomlValue(e)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, e := range t {
			s[i] = tomlValue(e)
		}
		return s
	case int64:
		return float64(t)
	default:
		return v
	}
}

// LoadConfig reads, defaults and validates a TOML client configuration.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file '%s'", path)
	}
	defer f.Close()

	var raw map[string]interface{}
	if err := toml.NewDecoder(f).Decode(&raw); err != nil {
		return nil, errors.Annotate(err, "failed to read config file '%s'", path)
	}
	var c Config
	if err := c.InitMessage(tomlValue(raw)); err != nil {
		return nil, errors.Annotate(err, "invalid config in '%s'", path)
	}
	return &c, nil
}

// Client creates a Client from the configuration.
func (c *Config) Client() *Client {
	opts := []Option{WithTimeout(time.Duration(c.TimeoutSec) * time.Second)}
	if c.URL != "" {
		opts = append(opts, WithURL(c.URL))
	}
	if c.RateLimit > 0 {
		opts = append(opts, WithRateLimit(c.RateLimit))
	}
	return New(Credentials{Mobile: c.Mobile, Password: c.Password}, opts...)
}
