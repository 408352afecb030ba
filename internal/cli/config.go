package cli

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/template"
)

// envFile is the optional dotenv file read at start-up.
const envFile = ".env"

// Environment variables.
const (
	EnvTemplate = "CARDPRESS_TEMPLATE"
	EnvCacheDir = "CARDPRESS_CACHE_DIR"
	EnvRedisURL = "CARDPRESS_REDIS_URL"
	EnvAddr     = "CARDPRESS_ADDR"
)

// Config holds settings from the environment. Flags override it.
type Config struct {
	TemplatePath string
	CacheDir     string
	RedisURL     string
	Addr         string
}

// LoadConfig reads the dotenv files, if present, then the environment.
// Variables already set in the environment win over the files.
func LoadConfig(files ...string) (Config, error) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", f)
		}
	}
	return Config{
		TemplatePath: os.Getenv(EnvTemplate),
		CacheDir:     os.Getenv(EnvCacheDir),
		RedisURL:     os.Getenv(EnvRedisURL),
		Addr:         os.Getenv(EnvAddr),
	}, nil
}

// templateFlags are the flags that shape the page template.
type templateFlags struct {
	path       string
	margin     float64 // mm, negative means unset
	spacing    float64 // mm, negative means unset
	noCutLines bool
	noQR       bool
}

// resolve loads the template file, falling back to the configured one and
// then the default, and applies the overrides.
func (f templateFlags) resolve(cfg Config) (template.Template, error) {
	if f.margin >= 0 && f.spacing >= 0 {
		return template.Template{}, errors.New(errors.ErrCodeInvalidInput,
			"--margin and --spacing cannot be combined: fixed spacing centres the grid and sets the margins")
	}
	tpl := template.Default()
	path := f.path
	if path == "" {
		path = cfg.TemplatePath
	}
	if path != "" {
		loaded, err := template.Load(path)
		if err != nil {
			return template.Template{}, err
		}
		tpl = loaded
	}

	var overrides []template.Override
	if f.margin >= 0 {
		overrides = append(overrides, template.WithMargin(template.MM(f.margin)))
	}
	if f.spacing >= 0 {
		overrides = append(overrides, template.WithSpacing(template.MM(f.spacing)))
	}
	if f.noCutLines {
		overrides = append(overrides, template.WithoutCutLines())
	}
	if f.noQR {
		overrides = append(overrides, template.WithoutQR())
	}
	tpl = tpl.With(overrides...)
	if err := tpl.Validate(); err != nil {
		return template.Template{}, err
	}
	return tpl, nil
}
