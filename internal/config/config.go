package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "BABYLOG_"

type Application struct {
	Server   Server   `koanf:"server"`
	Timezone string   `koanf:"timezone"`
	Frontend Frontend `koanf:"frontend"`
	Storage  Storage  `koanf:"storage"`
	Vitals   Vitals   `koanf:"vitals"`
	Backup   Backup   `koanf:"backup"`
	Database Database `koanf:"db"`
}

type Server struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"readtimeout"`
	WriteTimeout time.Duration `koanf:"writetimeout"`
	IdleTimeout  time.Duration `koanf:"idletimeout"`
}

type Frontend struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

type Storage struct {
	EventsFile string `koanf:"eventsfile"`
}

type Vitals struct {
	Dir                   string `koanf:"dir"`
	LatestFile            string `koanf:"latestfile"`
	HistoryFile           string `koanf:"historyfile"`
	LegacyFile            string `koanf:"legacyfile"`
	SummariesDir          string `koanf:"summariesdir"`
	TodaysHourlyFile      string `koanf:"todayshourlyfile"`
	Watch                 bool   `koanf:"watch"`
	AutoCreateSleepEvents bool   `koanf:"autocreatesleepevents"`
	HistoryLimit          int    `koanf:"historylimit"`
	SummariesLimit        int    `koanf:"summarieslimit"`
}

type Backup struct {
	Enabled      bool   `koanf:"enabled"`
	Driver       string `koanf:"driver"`
	SQLitePath   string `koanf:"sqlitepath"`
	Schedule     string `koanf:"schedule"`
	MirrorOnSave bool   `koanf:"mirroronsave"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Location resolves the configured IANA zone used to bucket events into days.
func (a Application) Location() (*time.Location, error) {
	return time.LoadLocation(a.Timezone)
}

func Defaults() Application {
	return Application{
		Server: Server{
			Addr:         ":8181",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Timezone: "Europe/Tallinn",
		Frontend: Frontend{
			Enabled: false,
			Dir:     "public",
		},
		Storage: Storage{
			EventsFile: "events.json",
		},
		Vitals: Vitals{
			Dir:                   ".",
			LatestFile:            "owlet_latest.json",
			HistoryFile:           "owlet_history.json",
			LegacyFile:            "owlet_vitals.json",
			SummariesDir:          "owlet_daily_summaries",
			TodaysHourlyFile:      "owlet_todays_hourly.json",
			Watch:                 true,
			AutoCreateSleepEvents: true,
			HistoryLimit:          100,
			SummariesLimit:        30,
		},
		Backup: Backup{
			Enabled:      false,
			Driver:       "sqlite",
			SQLitePath:   "events_backup.db",
			Schedule:     "0 3 * * *",
			MirrorOnSave: false,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "babylog",
			Pass:   "",
			Name:   "babylog",
			Schema: "public",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if _, err := app.Location(); err != nil {
		log.Errorf("invalid timezone %q: %v", app.Timezone, err)
		return Application{}, err
	}

	return app, nil
}
