package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmstream/pkg/config"
)

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "viper-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns viper with defaults when no config file exists", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(config.FromViper(v)).To(Equal(config.NewDefaultConfig()))
	})

	It("reads config file values over defaults", func() {
		data := `[openrouter]
base_url = "http://localhost:8089"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(v.GetString("openrouter.base_url")).To(Equal("http://localhost:8089"))
		defaults := config.NewDefaultConfig()
		Expect(v.GetString("openrouter.model")).To(Equal(defaults.OpenRouter.Model))
	})

	It("respects environment variables with LLMSTREAM_ prefix", func() {
		GinkgoT().Setenv("LLMSTREAM_OPENAI_MODEL", "gpt-4.1-nano")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(v.GetString("openai.model")).To(Equal("gpt-4.1-nano"))
	})

	It("env vars take precedence over config file values", func() {
		data := `[sink]
kind = "jsonl"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		GinkgoT().Setenv("LLMSTREAM_SINK_KIND", "kafka")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(config.FromViper(v).Sink.Kind).To(Equal("kafka"))
	})
})

var _ = Describe("BindFlags", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "bindflag-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("binds cobra flags to viper keys via registry", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		var listen string
		config.AddStringFlag(cmd, config.Flags, config.FlagReplayListen, &listen)

		Expect(cmd.Flags().Set("listen", ":7777")).To(Succeed())

		config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagReplayListen})

		Expect(v.GetString("replay.listen")).To(Equal(":7777"))
	})

	It("falls through to config when flag not set", func() {
		data := `[replay]
listen = ":5555"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		var listen string
		config.AddStringFlag(cmd, config.Flags, config.FlagReplayListen, &listen)

		config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagReplayListen})

		Expect(v.GetString("replay.listen")).To(Equal(":5555"))
	})

	It("binds the same flag name to provider scoped keys", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "chat"}
		var model string
		config.AddStringFlag(cmd, config.Flags, config.FlagOpenRouterModel, &model)
		Expect(cmd.Flags().Set("model", "mistralai/mistral-large")).To(Succeed())

		config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagOpenRouterModel})

		Expect(v.GetString("openrouter.model")).To(Equal("mistralai/mistral-large"))
		Expect(v.GetString("openai.model")).To(Equal(config.NewDefaultConfig().OpenAI.Model))
	})

	It("skips bindings for nonexistent registry keys", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		config.BindRegisteredFlags(v, cmd, config.FlagSet{}, []string{"nonexistent"})

		Expect(v.GetString("replay.listen")).To(Equal(config.NewDefaultConfig().Replay.Listen))
	})

	It("AddStringFlag pulls name, shorthand, and description from FlagSet", func() {
		cmd := &cobra.Command{Use: "test"}
		var model string
		config.AddStringFlag(cmd, config.Flags, config.FlagOpenAIModel, &model)

		f := cmd.Flags().Lookup("model")
		Expect(f).NotTo(BeNil())
		Expect(f.Shorthand).To(Equal("m"))
		Expect(f.Usage).To(Equal("Responses API model"))
		Expect(f.DefValue).To(Equal(config.NewDefaultConfig().OpenAI.Model))
	})

	It("ignores unknown registry keys when adding flags", func() {
		cmd := &cobra.Command{Use: "test"}
		var s string
		config.AddStringFlag(cmd, config.Flags, "nonexistent", &s)
		Expect(cmd.Flags().HasFlags()).To(BeFalse())
	})
})
