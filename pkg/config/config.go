// Package config loads taxotree configuration from TOML or YAML files.
//
// A file only needs the keys it changes; everything else keeps its default.
// The merged result is validated with struct tags before use:
//
//	# taxotree.toml
//	[chart]
//	tree_height = 800
//	node_color_with_children = "#ff8800"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// TAXOTREE_REDIS_URL and TAXOTREE_MONGO_URI override the cache connection
// settings of any file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/taxotree/pkg/cache"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/render/collapsible"
	"github.com/matzehuels/taxotree/pkg/render/treegraph"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// Environment variables read by [Load].
const (
	EnvRedisURL = "TAXOTREE_REDIS_URL"
	EnvMongoURI = "TAXOTREE_MONGO_URI"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config holds all taxotree configuration.
type Config struct {
	Chart     ChartConfig     `toml:"chart" yaml:"chart"`
	Treegraph TreegraphConfig `toml:"treegraph" yaml:"treegraph"`
	Schema    SchemaConfig    `toml:"schema" yaml:"schema"`
	Cache     CacheConfig     `toml:"cache" yaml:"cache"`
	Server    ServerConfig    `toml:"server" yaml:"server"`
}

// ChartConfig holds the collapsible chart settings.
type ChartConfig struct {
	TreeHeight            int     `toml:"tree_height" yaml:"tree_height" validate:"gt=0"`
	Width                 int     `toml:"width" yaml:"width" validate:"gt=0"`
	DepthSpacing          int     `toml:"depth_spacing" yaml:"depth_spacing" validate:"gt=0"`
	NodeRadius            float64 `toml:"node_radius" yaml:"node_radius" validate:"gt=0"`
	NodeColorWithChildren string  `toml:"node_color_with_children" yaml:"node_color_with_children" validate:"hexcolor"`
	NodeColorEmpty        string  `toml:"node_color_empty" yaml:"node_color_empty" validate:"hexcolor"`
	TransitionMS          int     `toml:"transition_ms" yaml:"transition_ms" validate:"gte=0"`
}

// TreegraphConfig holds the tree graph settings. The chart height is
// Chart.TreeHeight.
type TreegraphConfig struct {
	Title        string   `toml:"title" yaml:"title"`
	MarkerRadius float64  `toml:"marker_radius" yaml:"marker_radius" validate:"gt=0"`
	BaseColor    string   `toml:"base_color" yaml:"base_color" validate:"hexcolor"`
	Palette      []string `toml:"palette" yaml:"palette" validate:"min=1,dive,hexcolor"`
	HideMetric   bool     `toml:"hide_metric" yaml:"hide_metric"`
}

// SchemaConfig names the host columns.
type SchemaConfig struct {
	Dataset     string   `toml:"dataset" yaml:"dataset"`
	LevelFields []string `toml:"level_fields" yaml:"level_fields" validate:"len=4,dive,required"`
	MetricField string   `toml:"metric_field" yaml:"metric_field" validate:"required"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend         string `toml:"backend" yaml:"backend" validate:"oneof=file redis mongo none"`
	Dir             string `toml:"dir" yaml:"dir"`
	TTLHours        int    `toml:"ttl_hours" yaml:"ttl_hours" validate:"gte=0"`
	RedisURL        string `toml:"redis_url" yaml:"redis_url" validate:"required_if=Backend redis"`
	MongoURI        string `toml:"mongo_uri" yaml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase   string `toml:"mongo_database" yaml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection" yaml:"mongo_collection"`
}

// ServerConfig holds the HTTP host settings.
type ServerConfig struct {
	Addr         string `toml:"addr" yaml:"addr" validate:"required"`
	MaxBodyBytes int64  `toml:"max_body_bytes" yaml:"max_body_bytes" validate:"gt=0"`
	TimeoutSec   int    `toml:"timeout_sec" yaml:"timeout_sec" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	chart := collapsible.DefaultConfig()
	tg := treegraph.DefaultOptions()
	schema := taxonomy.DefaultSchema()
	return &Config{
		Chart: ChartConfig{
			TreeHeight:            int(chart.TreeHeight),
			Width:                 int(chart.Width),
			DepthSpacing:          int(chart.DepthSpacing),
			NodeRadius:            chart.NodeRadius,
			NodeColorWithChildren: chart.NodeColorWithChildren,
			NodeColorEmpty:        chart.NodeColorEmpty,
			TransitionMS:          int(chart.Duration / time.Millisecond),
		},
		Treegraph: TreegraphConfig{
			Title:        tg.Title,
			MarkerRadius: tg.MarkerRadius,
			BaseColor:    tg.BaseColor,
			Palette:      append([]string(nil), tg.Palette...),
		},
		Schema: SchemaConfig{
			Dataset:     schema.Dataset,
			LevelFields: schema.LevelFields[:],
			MetricField: schema.MetricField,
		},
		Cache: CacheConfig{
			Backend:         BackendFile,
			TTLHours:        24,
			MongoDatabase:   "taxotree",
			MongoCollection: "artifacts",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 10 << 20,
			TimeoutSec:   60,
		},
	}
}

// Load reads the file at path over the defaults, applies environment
// overrides, and validates the result. An empty path yields the defaults.
// The format follows the extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return nil
}

// ApplyEnv overrides cache connection settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Cache.MongoURI = v
	}
}

var validate = validator.New()

// Validate checks c against its struct tags. It returns an INVALID_CONFIG
// error naming the first offending field.
func Validate(c *Config) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s", describe(verrs[0]))
}

func describe(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s: field is required", field)
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", field, e.Param())
	case "hexcolor":
		return fmt.Sprintf("%s: %v is not a hex colour", field, e.Value())
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s", field, e.Param())
	case "len":
		return fmt.Sprintf("%s: must have exactly %s entries", field, e.Param())
	case "min":
		return fmt.Sprintf("%s: must have at least %s entries", field, e.Param())
	default:
		return fmt.Sprintf("%s: validation failed (%s)", field, e.Tag())
	}
}

// TaxonomySchema returns the schema as a [taxonomy.Schema].
func (c *Config) TaxonomySchema() taxonomy.Schema {
	s := taxonomy.Schema{Dataset: c.Schema.Dataset, MetricField: c.Schema.MetricField}
	copy(s.LevelFields[:], c.Schema.LevelFields)
	return s.WithDefaults()
}

// CollapsibleConfig returns the collapsible chart configuration.
func (c *Config) CollapsibleConfig() collapsible.Config {
	cfg := collapsible.DefaultConfig()
	cfg.TreeHeight = float64(c.Chart.TreeHeight)
	cfg.Width = float64(c.Chart.Width)
	cfg.DepthSpacing = float64(c.Chart.DepthSpacing)
	cfg.NodeRadius = c.Chart.NodeRadius
	cfg.NodeColorWithChildren = c.Chart.NodeColorWithChildren
	cfg.NodeColorEmpty = c.Chart.NodeColorEmpty
	cfg.Duration = time.Duration(c.Chart.TransitionMS) * time.Millisecond
	return cfg
}

// TreegraphOptions returns the tree graph options.
func (c *Config) TreegraphOptions() treegraph.Options {
	return treegraph.Options{
		Title:        c.Treegraph.Title,
		Height:       c.Chart.TreeHeight,
		MarkerRadius: c.Treegraph.MarkerRadius,
		MarkerFill:   "#ffffff",
		BaseColor:    c.Treegraph.BaseColor,
		Palette:      c.Treegraph.Palette,
		HideMetric:   c.Treegraph.HideMetric,
	}
}

// CacheTTL returns the cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// CacheOptions returns the options for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:         cache.Backend(c.Cache.Backend),
		Dir:             c.Cache.Dir,
		RedisURL:        c.Cache.RedisURL,
		MongoURI:        c.Cache.MongoURI,
		MongoDatabase:   c.Cache.MongoDatabase,
		MongoCollection: c.Cache.MongoCollection,
	}
}
