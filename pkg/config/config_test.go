package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmstream/pkg/config"
)

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads a valid config file", func() {
			data := `version = 0

[openai]
base_url = "http://localhost:9000/v1"
model = "gpt-4.1"

[openrouter]
model = "anthropic/claude-sonnet-4"
app_url = "https://example.com"

[sink]
kind = "kafka"
target = "broker-1:9092,broker-2:9092"
topic = "llm.events"
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.OpenAI.BaseURL).To(Equal("http://localhost:9000/v1"))
			Expect(cfg.OpenAI.Model).To(Equal("gpt-4.1"))
			Expect(cfg.OpenRouter.Model).To(Equal("anthropic/claude-sonnet-4"))
			Expect(cfg.OpenRouter.AppURL).To(Equal("https://example.com"))
			Expect(cfg.Sink.Kind).To(Equal("kafka"))
			Expect(cfg.Sink.Target).To(Equal("broker-1:9092,broker-2:9092"))
			Expect(cfg.Sink.Topic).To(Equal("llm.events"))
		})

		It("fills in defaults for unset fields in a partial config", func() {
			data := `[openai]
model = "o4-mini"
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			defaults := config.NewDefaultConfig()
			Expect(cfg.OpenAI.Model).To(Equal("o4-mini"))
			Expect(cfg.OpenAI.BaseURL).To(Equal(defaults.OpenAI.BaseURL))
			Expect(cfg.OpenRouter).To(Equal(defaults.OpenRouter))
			Expect(cfg.Client.Timeout).To(Equal(defaults.Client.Timeout))
			Expect(cfg.Sink.Kind).To(Equal(defaults.Sink.Kind))
			Expect(cfg.Sink.Topic).To(Equal(defaults.Sink.Topic))
			Expect(cfg.Replay.Listen).To(Equal(defaults.Replay.Listen))
		})

		It("returns error for malformed TOML", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[openai\nmodel ="), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("parsing config TOML"))
		})

		It("returns error for unsupported config version", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("version = 7\n"), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unsupported config version 7"))
		})
	})

	Describe("SaveConfig", func() {
		It("persists config to disk", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.OpenRouter.AppURL = "https://example.com"
			Expect(c.SaveConfig(cfg)).To(Succeed())

			info, err := os.Stat(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})

		It("returns error for nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SaveConfig(nil)).To(MatchError(ContainSubstring("nil config")))
		})
	})

	Describe("SetConfigValue", func() {
		It("sets a string config key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("openrouter.model", "meta-llama/llama-3.3-70b")).To(Succeed())

			val, err := c.GetConfigValue("openrouter.model")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("meta-llama/llama-3.3-70b"))
		})

		It("returns error for unknown key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = c.SetConfigValue("proxy.upstream", "x")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("rejects an invalid timeout", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = c.SetConfigValue("client.timeout", "forever")
			Expect(err).To(MatchError(ContainSubstring("invalid value for client.timeout")))
		})

		It("rejects an unknown sink kind", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = c.SetConfigValue("sink.kind", "s3")
			Expect(err).To(MatchError(ContainSubstring("invalid value for sink.kind")))
		})

		It("accepts a known sink kind", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("sink.kind", "jsonl")).To(Succeed())

			val, err := c.GetConfigValue("sink.kind")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("jsonl"))
		})
	})

	Describe("GetConfigValue", func() {
		It("returns defaults for unset keys", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			val, err := c.GetConfigValue("openai.base_url")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("https://api.openai.com/v1"))
		})

		It("returns error for unknown key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.GetConfigValue("nope")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("ValidConfigKeys", func() {
	It("lists every key in section order", func() {
		Expect(config.ValidConfigKeys()).To(Equal([]string{
			"openai.base_url",
			"openai.model",
			"openrouter.base_url",
			"openrouter.model",
			"openrouter.app_url",
			"openrouter.app_title",
			"client.timeout",
			"sink.kind",
			"sink.target",
			"sink.topic",
			"replay.listen",
		}))
	})

	It("agrees with IsValidConfigKey", func() {
		for _, k := range config.ValidConfigKeys() {
			Expect(config.IsValidConfigKey(k)).To(BeTrue(), k)
		}
		Expect(config.IsValidConfigKey("storage.sqlite_path")).To(BeFalse())
	})
})

var _ = Describe("TimeoutDuration", func() {
	It("parses the configured timeout", func() {
		cfg := config.NewDefaultConfig()
		d, err := cfg.TimeoutDuration()
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(Equal(10 * time.Minute))
	})

	It("treats empty as no timeout", func() {
		cfg := &config.Config{}
		d, err := cfg.TimeoutDuration()
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeZero())
	})

	It("reports malformed durations", func() {
		cfg := &config.Config{Client: config.ClientConfig{Timeout: "ten"}}
		_, err := cfg.TimeoutDuration()
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("PresetConfig", func() {
	It("returns defaults for the default preset", func() {
		cfg, err := config.PresetConfig("default")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.NewDefaultConfig()))
	})

	It("points both providers at the replay server for local", func() {
		cfg, err := config.PresetConfig("LOCAL")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.OpenAI.BaseURL).To(Equal("http://localhost:8089"))
		Expect(cfg.OpenRouter.BaseURL).To(Equal("http://localhost:8089"))
		Expect(cfg.Sink.Kind).To(Equal("jsonl"))
		Expect(cfg.Sink.Target).To(Equal("-"))
	})

	It("returns error for unknown preset", func() {
		_, err := config.PresetConfig("nonexistent")
		Expect(err).To(MatchError(ContainSubstring("unknown preset")))
	})

	It("lists its names", func() {
		Expect(config.ValidPresetNames()).To(ConsistOf("default", "local"))
	})
})
