package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// DefaultAPIRoot is used when neither --api nor TRACKER_API_ROOT is set.
const DefaultAPIRoot = "http://localhost:8080"

var httpClient = &http.Client{Timeout: 30 * time.Second}

// apiRoot resolves the API base URL from the --api flag, falling back to
// the TRACKER_API_ROOT environment variable.
func apiRoot(cmd *cobra.Command) string {
	root, _ := cmd.Flags().GetString("api")
	if root == DefaultAPIRoot {
		if env := os.Getenv("TRACKER_API_ROOT"); env != "" {
			root = env
		}
	}
	return strings.TrimRight(root, "/")
}

// postJSON posts a JSON body and decodes the JSON response into dest.
func postJSON(root, path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := httpClient.Post(root+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// getJSON fetches a path and decodes the JSON response into dest.
func getJSON(root, path string, dest any) error {
	resp, err := httpClient.Get(root + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// printJSON pretty-prints a value to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
