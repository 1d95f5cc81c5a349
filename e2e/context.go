package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext holds the HTTP client and the last response of a scenario.
type TestContext struct {
	BaseURL      string
	HTTPClient   *http.Client
	LastStatus   int
	LastBody     []byte
	accountAlias map[string]string
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
		accountAlias: map[string]string{},
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.LastStatus = 0
	tc.LastBody = nil
	tc.accountAlias = map[string]string{}
}

func (tc *TestContext) POST(path string, body any) error {
	var payload io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		payload = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(http.MethodPost, tc.BaseURL+path, payload)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return tc.do(req)
}

func (tc *TestContext) GET(path string) error {
	req, err := http.NewRequest(http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	tc.LastStatus = resp.StatusCode
	tc.LastBody = body
	return nil
}

func (tc *TestContext) Status() int {
	return tc.LastStatus
}

// ResponseField walks a dotted path ("account.status") through the last JSON body.
func (tc *TestContext) ResponseField(path string) (any, error) {
	var cur any
	if err := json.Unmarshal(tc.LastBody, &cur); err != nil {
		return nil, fmt.Errorf("response is not JSON: %s", tc.LastBody)
	}
	for part := range strings.SplitSeq(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: not an object", path)
		}
		v, present := obj[part]
		if !present {
			return nil, fmt.Errorf("%s: field %q missing in %s", path, part, tc.LastBody)
		}
		cur = v
	}
	return cur, nil
}

func (tc *TestContext) Remember(alias, id string) {
	tc.accountAlias[alias] = id
}

func (tc *TestContext) Recall(alias string) (string, error) {
	id, ok := tc.accountAlias[alias]
	if !ok {
		return "", fmt.Errorf("no account registered as %q", alias)
	}
	return id, nil
}
