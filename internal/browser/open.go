// Package browser opens inventory pages in the user's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// Open opens the specified URL in the user's default browser.
func Open(url string) error {
	return launch(url)
}

var launch = func(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}

// AssetURL returns the web UI page for an asset, e.g.
// https://itam.example.com/assets/42.
func AssetURL(webURL string, id int64) (string, error) {
	base, err := url.Parse(strings.TrimRight(webURL, "/"))
	if err != nil {
		return "", fmt.Errorf("browser.AssetURL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return "", fmt.Errorf("browser.AssetURL: unsupported scheme %q", base.Scheme)
	}
	return base.JoinPath("assets", strconv.FormatInt(id, 10)).String(), nil
}

// OpenAsset opens the asset's page under webURL.
func OpenAsset(webURL string, id int64) error {
	u, err := AssetURL(webURL, id)
	if err != nil {
		return err
	}
	return Open(u)
}
