// Package github provides the source-hosting client that fetches pull
// request metadata and changed-file contents from the GitHub REST API.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/richhaase/reviewflow/internal/domain"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

// ErrPRNotFound indicates the pull request does not exist.
var ErrPRNotFound = errors.New("pull request not found")

// ErrAuthFailed indicates GitHub rejected the token.
var ErrAuthFailed = errors.New("GitHub authentication failed")

// Client talks to the GitHub REST API. Failures are surfaced as errors; the
// detect stage converts them into the review state's error field.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
	extensions []string
}

// NewClient creates a client. extensions filters which changed files are
// returned by PRFiles (e.g. []string{".py"}); an empty list keeps every file.
func NewClient(token, apiURL string, extensions []string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     strings.TrimRight(apiURL, "/"),
		token:      token,
		extensions: extensions,
	}
}

type prResponse struct {
	Title string `json:"title"`
	User  struct {
		Login string `json:"login"`
	} `json:"user"`
	Head struct {
		Ref string `json:"ref"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// PRDetails fetches the pull request metadata.
func (c *Client) PRDetails(ctx context.Context, owner, repo string, number int) (domain.PRMetadata, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.apiURL, owner, repo, number)

	var resp prResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return domain.PRMetadata{}, fmt.Errorf("fetch PR details: %w", err)
	}

	return domain.PRMetadata{
		Number:     number,
		Title:      resp.Title,
		Author:     resp.User.Login,
		HeadBranch: resp.Head.Ref,
		BaseBranch: resp.Base.Ref,
		State:      resp.State,
		CreatedAt:  resp.CreatedAt,
		UpdatedAt:  resp.UpdatedAt,
	}, nil
}

type fileResponse struct {
	Filename    string `json:"filename"`
	Status      string `json:"status"`
	Additions   int    `json:"additions"`
	Deletions   int    `json:"deletions"`
	Changes     int    `json:"changes"`
	ContentsURL string `json:"contents_url"`
}

// PRFiles fetches the changed files, filtered by the configured extensions,
// with each file's content fetched and decoded. A file whose content cannot
// be fetched is returned with empty content rather than failing the listing;
// the stage runner skips empty-content files.
func (c *Client) PRFiles(ctx context.Context, owner, repo string, number int) ([]domain.FileDescriptor, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/files", c.apiURL, owner, repo, number)

	var files []fileResponse
	if err := c.getJSON(ctx, url, &files); err != nil {
		return nil, fmt.Errorf("fetch PR files: %w", err)
	}

	var result []domain.FileDescriptor
	for _, f := range files {
		if !c.wantFile(f.Filename) {
			continue
		}

		content, err := c.fileContent(ctx, f.ContentsURL)
		if err != nil {
			content = ""
		}

		result = append(result, domain.FileDescriptor{
			Filename:  f.Filename,
			Status:    f.Status,
			Additions: f.Additions,
			Deletions: f.Deletions,
			Changes:   f.Changes,
			Content:   content,
		})
	}

	return result, nil
}

// wantFile applies the extension filter.
func (c *Client) wantFile(filename string) bool {
	if len(c.extensions) == 0 {
		return true
	}
	for _, ext := range c.extensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// fileContent fetches and decodes one file's base64 content.
func (c *Client) fileContent(ctx context.Context, contentsURL string) (string, error) {
	var resp contentsResponse
	if err := c.getJSON(ctx, contentsURL, &resp); err != nil {
		return "", err
	}

	// GitHub wraps base64 at 60 columns; strip the newlines before decoding.
	raw := strings.ReplaceAll(resp.Content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("decode file content: %w", err)
	}
	return string(decoded), nil
}

// getJSON performs an authenticated GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrPRNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailed
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GitHub API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
