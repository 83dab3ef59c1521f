package config

import (
	"os"
	"time"

	"scholarship-exam-service/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		Bank string `yaml:"bank"`
		TTL  string `yaml:"ttl"`
	} `yaml:"questions"`
	Exam struct {
		PassMark      int                    `yaml:"pass_mark"`
		HistoryWindow int                    `yaml:"history_window"`
		HistoryLimit  int                    `yaml:"history_limit"`
		PracticeLimit int                    `yaml:"practice_limit"`
		TimeLimit     string                 `yaml:"time_limit"`
		RequireReveal bool                   `yaml:"require_reveal"`
		Structure     []domain.ExamSpecEntry `yaml:"structure"`
	} `yaml:"exam"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Structure returns the configured exam composition, or the scholarship
// exam default when the config leaves it empty.
func (c Config) Structure() []domain.ExamSpecEntry {
	if len(c.Exam.Structure) > 0 {
		return c.Exam.Structure
	}
	return DefaultStructure()
}

// DefaultStructure is the standard 45-question scholarship exam layout.
func DefaultStructure() []domain.ExamSpecEntry {
	return []domain.ExamSpecEntry{
		{Subject: "Part I Malayalam", Count: 5},
		{Subject: "Part II Malayalam", Count: 5},
		{Subject: "Maths", Count: 10},
		{Subject: "English", Count: 5},
		{Subject: "Basic Science", Count: 10},
		{Subject: "Social Science", Count: 10},
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
