package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"moneyprint/internal/structures"
	"path/filepath"
	"strings"
	"time"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8090)
	v.SetDefault("storage.dir", ".mp")
	v.SetDefault("storage.fileMode", 0644)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("publisher.timeout", 30*time.Second)
	v.SetDefault("cache.ttl", 5*time.Second)
	v.SetDefault("scheduler.twiceDaily", []string{"10:00", "16:00"})
	v.SetDefault("scheduler.thriceDaily", []string{"08:00", "12:00", "18:00"})
	v.SetDefault("content.postTemplate", "Today in {{.Topic}}: fresh thoughts worth sharing ({{.Date}})")
	v.SetDefault("content.videoTitleTemplate", "{{.Topic}} in 60 seconds")
	v.SetDefault("content.videoDescriptionTemplate", "A short about {{.Topic}} by {{.Nickname}} ({{.Date}})")
	v.SetDefault("content.pitchTemplate", "Recommended: {{.Link}} - a must-have for {{.Topic}}")
	v.SetDefault("bootstrap.songsDir", "Songs")
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config
	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "MP_LOG_LEVEL")
	v.BindEnv("storage.dir", "MP_STORAGE_DIR")
	v.BindEnv("publisher.endpoint", "MP_PUBLISHER_ENDPOINT")
	v.BindEnv("publisher.timeout", "MP_PUBLISHER_TIMEOUT")
	v.BindEnv("bootstrap.assetURL", "MP_ZIP_URL")
	v.BindEnv("cache.enabled", "MP_CACHE_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "MoneyPrint"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode
	conf.RestoreFrom = flags.RestoreFrom

	return &conf, nil
}
