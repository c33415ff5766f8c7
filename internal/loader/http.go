package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/goliatone/go-addons/pkg/schema"
)

// maxDocumentSize caps remote payloads.
const maxDocumentSize = 8 << 20

func fetch(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, schema.Format, error) {
	if url == "" {
		return nil, "", errors.New("loader: url is required")
	}

	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("loader: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxDocumentSize {
		return nil, "", fmt.Errorf("loader: document exceeds %d bytes", maxDocumentSize)
	}
	return data, formatFromContentType(resp.Header.Get("Content-Type")), nil
}

func formatFromContentType(value string) schema.Format {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return schema.FormatYAML
	default:
		return ""
	}
}
