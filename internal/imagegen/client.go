package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Client is the HTTP client for the hosted image-generation API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	count      int
	outDir     string
	httpClient *http.Client
}

// NewClient creates an image generation client writing count images per
// prompt into outDir.
func NewClient(apiKey, baseURL, model, outDir string, count int) *Client {
	if count <= 0 {
		count = 4
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		count:   count,
		outDir:  outDir,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Generate renders the prompt concurrently into numbered jpg files and
// returns their paths in index order.
func (c *Client) Generate(ctx context.Context, prompt string) ([]string, error) {
	log.Printf("Generating %d images for prompt: %s", c.count, prompt)

	if err := os.MkdirAll(c.outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, c.count)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < c.count; i++ {
		i := i
		g.Go(func() error {
			decorated := fmt.Sprintf("%s, quality=4K, sharpness=maximum, Ultra High details, high resolution, seed=%d",
				prompt, rand.Intn(1000000))

			img, err := c.render(ctx, decorated)
			if err != nil {
				return err
			}

			path := filepath.Join(c.outDir, imageFileName(prompt, i+1))
			if err := os.WriteFile(path, img, 0644); err != nil {
				return fmt.Errorf("failed to save image %d: %w", i+1, err)
			}

			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return paths, nil
}

// render performs one inference call and returns the raw image bytes.
func (c *Client) render(ctx context.Context, prompt string) ([]byte, error) {
	reqBody, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func imageFileName(prompt string, n int) string {
	return fmt.Sprintf("%s%d.jpg", strings.ReplaceAll(prompt, " ", "_"), n)
}
