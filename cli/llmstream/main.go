package main

import (
	"os"

	llmstreamcmder "github.com/papercomputeco/llmstream/cmd/llmstream"
)

func main() {
	cmd := llmstreamcmder.NewLLMStreamCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
