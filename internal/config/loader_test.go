package config_test

import (
	"errors"
	"os"
	"testing"

	"github.com/hirelens/hirelens/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, v := range []string{
		"HIRELENS_CONFIG",
		"HIRELENS_ADDR",
		"HIRELENS_LOG_LEVEL",
		"HIRELENS_SHARD_COUNT",
		"HIRELENS_REPORT_CACHE_SIZE",
		"HIRELENS_DEFAULT_DIFFICULTY",
		"HIRELENS_LOW_CONFIDENCE",
	} {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(content string) string {
	tmp, err := os.CreateTemp("", "hirelens-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmp.Close(); err != nil {
		panic(err)
	}
	return tmp.Name()
}

func TestConfigLoader(t *testing.T) {
	Convey("Given a config loader", t, func() {
		clearConfigEnvVars()

		Convey("When loading defaults only", func() {
			cfg, err := config.Load()

			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.ShardCount, ShouldEqual, 16)
		})

		Convey("When environment variables are set", func() {
			_ = os.Setenv("HIRELENS_ADDR", ":8080")
			_ = os.Setenv("HIRELENS_SHARD_COUNT", "4")
			_ = os.Setenv("HIRELENS_DEFAULT_DIFFICULTY", "1.2")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			Convey("Then they override the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8080")
				So(cfg.ShardCount, ShouldEqual, 4)
				So(cfg.DefaultDifficulty, ShouldEqual, 1.2)
			})
		})

		Convey("When a YAML file is provided", func() {
			tmp := createTempConfigFile(`
addr: ":9090"
report_cache_size: 64
sql_thresholds:
  expert: 20
  advanced: 10
  intermediate: 5
summarizer:
  enabled: true
  model: gemini-2.0-pro
  workers: 3
`)
			defer func() { _ = os.Remove(tmp) }()
			_ = os.Setenv("HIRELENS_CONFIG", tmp)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			Convey("Then file values land, including nested tables", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9090")
				So(cfg.ReportCacheSize, ShouldEqual, 64)
				So(cfg.SQLThresholds.Expert, ShouldEqual, 20)
				So(cfg.Summarizer.Enabled, ShouldBeTrue)
				So(cfg.Summarizer.Model, ShouldEqual, "gemini-2.0-pro")
			})

			Convey("Then env still wins over the file", func() {
				_ = os.Setenv("HIRELENS_ADDR", ":7070")
				cfg, err := config.Load()
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.ReportCacheSize, ShouldEqual, 64)
			})
		})

		Convey("When the config file does not exist", func() {
			_ = os.Setenv("HIRELENS_CONFIG", "/nonexistent/hirelens.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load()
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}

func TestConfigValidation(t *testing.T) {
	Convey("Given invalid overrides", t, func() {
		defer clearConfigEnvVars()

		cases := map[string][2]string{
			"empty addr":              {"HIRELENS_ADDR", ""},
			"zero shards":             {"HIRELENS_SHARD_COUNT", "0"},
			"zero cache":              {"HIRELENS_REPORT_CACHE_SIZE", "0"},
			"difficulty too high":     {"HIRELENS_DEFAULT_DIFFICULTY", "3.0"},
			"confidence out of range": {"HIRELENS_LOW_CONFIDENCE", "1.5"},
		}

		for name, kv := range cases {
			Convey("Then "+name+" is rejected", func() {
				clearConfigEnvVars()
				_ = os.Setenv(kv[0], kv[1])

				_, err := config.Load()
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		}
	})
}
