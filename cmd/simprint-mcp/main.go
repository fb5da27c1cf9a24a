package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// fingerprintOptions mirrors the Simprint API options model.
type fingerprintOptions struct {
	Mode         string `json:"mode,omitempty"`
	ShingleWidth int    `json:"shingle_width,omitempty"`
	Digest       string `json:"digest,omitempty"`
}

// fingerprintRequest mirrors the Simprint API request model.
type fingerprintRequest struct {
	Text    string             `json:"text,omitempty"`
	Options fingerprintOptions `json:"options"`
}

// document mirrors the Simprint API document model.
type document struct {
	Text string `json:"text,omitempty"`
}

// compareRequest mirrors the Simprint compare API request model.
type compareRequest struct {
	A         document           `json:"a"`
	B         document           `json:"b"`
	Options   fingerprintOptions `json:"options"`
	Threshold *int               `json:"threshold,omitempty"`
}

// dedupeRequest mirrors the Simprint dedupe API request model.
type dedupeRequest struct {
	Texts     []string           `json:"texts"`
	Options   fingerprintOptions `json:"options"`
	Threshold *int               `json:"threshold,omitempty"`
}

// apiError mirrors the structured error in Simprint API responses.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// fingerprintResponse mirrors the Simprint fingerprint API response.
type fingerprintResponse struct {
	Success     bool      `json:"success"`
	Fingerprint string    `json:"fingerprint"`
	Bits        int       `json:"bits"`
	Digest      string    `json:"digest"`
	Mode        string    `json:"mode"`
	Tokens      int       `json:"tokens"`
	Shingles    int       `json:"shingles"`
	Error       *apiError `json:"error"`
}

// compareResponse mirrors the Simprint compare API response.
type compareResponse struct {
	Success      bool      `json:"success"`
	Distance     int       `json:"distance"`
	Bits         int       `json:"bits"`
	Threshold    int       `json:"threshold"`
	Similar      bool      `json:"similar"`
	FingerprintA string    `json:"fingerprint_a"`
	FingerprintB string    `json:"fingerprint_b"`
	Error        *apiError `json:"error"`
}

// dedupeGroup mirrors one cluster in the Simprint dedupe API response.
type dedupeGroup struct {
	Representative int   `json:"representative"`
	Members        []int `json:"members"`
	MaxDistance    int   `json:"max_distance"`
}

// dedupeResponse mirrors the Simprint dedupe API response.
type dedupeResponse struct {
	Success    bool          `json:"success"`
	Groups     []dedupeGroup `json:"groups"`
	Unique     int           `json:"unique"`
	Duplicates int           `json:"duplicates"`
	Threshold  int           `json:"threshold"`
	Error      *apiError     `json:"error"`
}

func main() {
	apiURL := os.Getenv("SIMPRINT_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("SIMPRINT_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "SIMPRINT_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"simprint",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	fingerprintTool := mcp.NewTool("fingerprint_text",
		mcp.WithDescription("Compute a locality-sensitive fingerprint of a text. Near-duplicate texts produce fingerprints that differ in only a few bits, so fingerprints can be compared later without keeping the original text."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to fingerprint"),
		),
		mcp.WithString("mode",
			mcp.Description("Tokenization mode: 'words' (default) or 'chars' (grapheme clusters, better for short strings like titles or usernames)"),
			mcp.Enum("words", "chars"),
		),
		mcp.WithString("digest",
			mcp.Description("Hash function: 'md5' (default, 128-bit), 'sha1', 'sha256', 'fnv64a' (64-bit), or 'fnv128a'"),
			mcp.Enum("md5", "sha1", "sha256", "fnv64a", "fnv128a"),
		),
		mcp.WithNumber("shingle_width",
			mcp.Description("Token n-gram window size (default: 3)"),
		),
	)
	s.AddTool(fingerprintTool, handleFingerprintText(apiURL, apiKey))

	compareTool := mcp.NewTool("compare_texts",
		mcp.WithDescription("Fingerprint two texts and report the Hamming distance between them plus a similarity verdict. Distance 0 means near-identical wording; around half the bits means unrelated."),
		mcp.WithString("text_a",
			mcp.Required(),
			mcp.Description("The first text"),
		),
		mcp.WithString("text_b",
			mcp.Required(),
			mcp.Description("The second text"),
		),
		mcp.WithNumber("threshold",
			mcp.Description("Maximum distance in bits to count as similar (default: fingerprint bits / 20)"),
		),
		mcp.WithString("mode",
			mcp.Description("Tokenization mode: 'words' (default) or 'chars'"),
			mcp.Enum("words", "chars"),
		),
		mcp.WithString("digest",
			mcp.Description("Hash function: 'md5' (default), 'sha1', 'sha256', 'fnv64a', or 'fnv128a'"),
			mcp.Enum("md5", "sha1", "sha256", "fnv64a", "fnv128a"),
		),
		mcp.WithNumber("shingle_width",
			mcp.Description("Token n-gram window size (default: 3)"),
		),
	)
	s.AddTool(compareTool, handleCompareTexts(apiURL, apiKey))

	dedupeTool := mcp.NewTool("dedupe_texts",
		mcp.WithDescription("Group a list of texts into near-duplicate clusters. Each text joins the first earlier cluster within the distance threshold; the rest start new clusters."),
		mcp.WithArray("texts",
			mcp.Required(),
			mcp.Description("List of texts to group (at least 2)"),
		),
		mcp.WithNumber("threshold",
			mcp.Description("Maximum distance in bits for two texts to share a cluster (default: fingerprint bits / 20)"),
		),
		mcp.WithString("mode",
			mcp.Description("Tokenization mode: 'words' (default) or 'chars'"),
			mcp.Enum("words", "chars"),
		),
		mcp.WithString("digest",
			mcp.Description("Hash function: 'md5' (default), 'sha1', 'sha256', 'fnv64a', or 'fnv128a'"),
			mcp.Enum("md5", "sha1", "sha256", "fnv64a", "fnv128a"),
		),
	)
	s.AddTool(dedupeTool, handleDedupeTexts(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the Simprint API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// optionsFromArgs collects the pipeline options every tool accepts.
func optionsFromArgs(request mcp.CallToolRequest) fingerprintOptions {
	opts := fingerprintOptions{
		Mode:   request.GetString("mode", ""),
		Digest: request.GetString("digest", ""),
	}
	if w, ok := request.GetArguments()["shingle_width"].(float64); ok {
		opts.ShingleWidth = int(w)
	}
	return opts
}

// thresholdFromArgs reads the optional threshold argument. A pointer keeps
// an explicit 0 distinguishable from "use the server default".
func thresholdFromArgs(request mcp.CallToolRequest) *int {
	if v, ok := request.GetArguments()["threshold"].(float64); ok {
		t := int(v)
		return &t
	}
	return nil
}

func apiErrorMessage(fallback string, e *apiError) string {
	if e != nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fallback
}

func handleFingerprintText(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/fingerprint", fingerprintRequest{
			Text:    text,
			Options: optionsFromArgs(request),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("fingerprint request failed: %v", err)), nil
		}

		var resp fingerprintResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(apiErrorMessage("fingerprint failed", resp.Error)), nil
		}

		result := fmt.Sprintf("Fingerprint: %s\nBits: %d (%s digest, %s mode)\nTokens: %d, shingles: %d",
			resp.Fingerprint, resp.Bits, resp.Digest, resp.Mode, resp.Tokens, resp.Shingles)
		return mcp.NewToolResultText(result), nil
	}
}

func handleCompareTexts(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		textA, err := request.RequireString("text_a")
		if err != nil {
			return mcp.NewToolResultError("text_a is required"), nil
		}
		textB, err := request.RequireString("text_b")
		if err != nil {
			return mcp.NewToolResultError("text_b is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/compare", compareRequest{
			A:         document{Text: textA},
			B:         document{Text: textB},
			Options:   optionsFromArgs(request),
			Threshold: thresholdFromArgs(request),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("compare request failed: %v", err)), nil
		}

		var resp compareResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(apiErrorMessage("compare failed", resp.Error)), nil
		}

		verdict := "no"
		if resp.Similar {
			verdict = "yes"
		}
		result := fmt.Sprintf("Distance: %d of %d bits (threshold %d)\nSimilar: %s\nA: %s\nB: %s",
			resp.Distance, resp.Bits, resp.Threshold, verdict, resp.FingerprintA, resp.FingerprintB)
		return mcp.NewToolResultText(result), nil
	}
}

func handleDedupeTexts(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		texts, err := request.RequireStringSlice("texts")
		if err != nil {
			return mcp.NewToolResultError("texts is required and must be an array of strings"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/dedupe", dedupeRequest{
			Texts:     texts,
			Options:   optionsFromArgs(request),
			Threshold: thresholdFromArgs(request),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("dedupe request failed: %v", err)), nil
		}

		var resp dedupeResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(apiErrorMessage("dedupe failed", resp.Error)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%d texts, %d unique, %d duplicates (threshold %d)\n",
			len(texts), resp.Unique, resp.Duplicates, resp.Threshold)

		clusters := 0
		for _, g := range resp.Groups {
			if len(g.Members) < 2 {
				continue
			}
			clusters++
			fmt.Fprintf(&sb, "\nCluster %d: texts %v (max distance %d)", clusters, g.Members, g.MaxDistance)
		}
		if clusters == 0 {
			sb.WriteString("\nNo near-duplicates found.")
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
