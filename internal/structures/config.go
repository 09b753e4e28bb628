package structures

import "time"

type Server struct {
	Host           string   `yaml:"host" validate:"required"`
	Port           int      `yaml:"port" validate:"required|uint|min:1"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type StorageConfig struct {
	Dir            string        `yaml:"dir" validate:"required|unixPath"`
	FileMode       uint32        `yaml:"fileMode"`
	BackupDir      string        `yaml:"backupDir"`
	BackupInterval time.Duration `yaml:"backupInterval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type PublisherConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type SchedulerConfig struct {
	TwiceDaily  []string `yaml:"twiceDaily"`
	ThriceDaily []string `yaml:"thriceDaily"`
}

type ContentConfig struct {
	PostTemplate             string `yaml:"postTemplate"`
	VideoTitleTemplate       string `yaml:"videoTitleTemplate"`
	VideoDescriptionTemplate string `yaml:"videoDescriptionTemplate"`
	PitchTemplate            string `yaml:"pitchTemplate"`
}

type BootstrapConfig struct {
	AssetURL string `yaml:"assetURL"`
	SongsDir string `yaml:"songsDir"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	RestoreFrom string
	WebServer   Server          `yaml:"webServer"`
	Storage     StorageConfig   `yaml:"storage"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Publisher   PublisherConfig `yaml:"publisher"`
	Scheduler   SchedulerConfig `yaml:"scheduler"`
	Content     ContentConfig   `yaml:"content"`
	Bootstrap   BootstrapConfig `yaml:"bootstrap"`
}
