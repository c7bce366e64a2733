// Package utils holds small helpers shared by the llmstream commands and
// decoders that don't warrant a package of their own.
package utils

// Build metadata, stamped by the release build through
// -ldflags "-X github.com/papercomputeco/llmstream/pkg/utils.Version=...".
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// UserAgent is sent on every provider request.
func UserAgent() string {
	return "llmstream/" + Version
}
