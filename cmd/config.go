package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/tayloree/luckydex/internal/feed"
	"github.com/tayloree/luckydex/internal/utils"
)

// Config keys, also settable as LUCKYDEX_<KEY> with dots as underscores.
const (
	keyDB            = "db"
	keyFeedsBaseURL  = "feeds.base_url"
	keyCatalogURL    = "catalog.url"
	keyShareBaseURL  = "share.base_url"
	keyUpcomingDays  = "upcoming_days"
	keyLogLevel      = "loglevel"
	keyHistoryDir    = "history.dir"
	defaultShareBase = "https://luckydex.app/"
)

var cfgFile string

type settings struct {
	DBPath       string
	FeedsBaseURL string
	CatalogURL   string
	ShareBaseURL string
	UpcomingDays int
	HistoryDir   string
}

// initConfig reads the config file and LUCKYDEX_ environment variables.
// A missing config file is not an error.
func initConfig() error {
	viper.SetDefault(keyDB, "~/.luckydex/luckydex.db")
	viper.SetDefault(keyFeedsBaseURL, feed.DefaultBaseURL)
	viper.SetDefault(keyCatalogURL, feed.DefaultSpeciesURL)
	viper.SetDefault(keyShareBaseURL, defaultShareBase)
	viper.SetDefault(keyUpcomingDays, int(feed.DefaultHorizon.Hours()/24))
	viper.SetDefault(keyLogLevel, "warn")
	viper.SetDefault(keyHistoryDir, "~/.luckydex/history")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".luckydex")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LUCKYDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("reading config: %w", err)
		}
	} else {
		utils.Log.WithField("file", viper.ConfigFileUsed()).Debug("loaded config")
	}

	return utils.SetLogLevel(viper.GetString(keyLogLevel))
}

func loadSettings() (settings, error) {
	s := settings{
		FeedsBaseURL: viper.GetString(keyFeedsBaseURL),
		CatalogURL:   viper.GetString(keyCatalogURL),
		ShareBaseURL: viper.GetString(keyShareBaseURL),
		UpcomingDays: viper.GetInt(keyUpcomingDays),
	}
	var err error
	if s.DBPath, err = expandPath(viper.GetString(keyDB)); err != nil {
		return settings{}, err
	}
	if s.HistoryDir, err = expandPath(viper.GetString(keyHistoryDir)); err != nil {
		return settings{}, err
	}
	if s.UpcomingDays < 0 {
		return settings{}, invalidArgsError(
			fmt.Sprintf("%s must not be negative", keyUpcomingDays),
			"Set upcoming_days: 14 in ~/.luckydex.yaml.",
		)
	}
	return s, nil
}

func expandPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", p, err)
	}
	return filepath.Clean(expanded), nil
}
