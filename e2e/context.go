package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// TestContext carries HTTP state across scenario steps. Redirects are not
// followed so steps can assert on the Location header directly.
type TestContext struct {
	baseURL string
	token   string
	client  *http.Client

	lastStatus  int
	lastHeaders http.Header
	lastCookies []*http.Cookie
	lastBody    map[string]interface{}

	handoverPath string
}

// NewTestContext builds a context pointed at a running handover instance.
// token is a client credentials bearer token accepted by that instance.
func NewTestContext(baseURL, token string) *TestContext {
	return &TestContext{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// POST sends a JSON body with the bearer token attached.
func (tc *TestContext) POST(path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, tc.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tc.token)
	return tc.do(req)
}

// GET sends an unauthenticated request, as a redeeming browser would.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.baseURL+path, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastHeaders = resp.Header
	tc.lastCookies = resp.Cookies()
	tc.lastBody = nil

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(raw) > 0 {
		var body map[string]interface{}
		if err := json.Unmarshal(raw, &body); err == nil {
			tc.lastBody = body
		}
	}
	return nil
}

// StatusCode returns the status of the last response.
func (tc *TestContext) StatusCode() int {
	return tc.lastStatus
}

// Header returns a header from the last response.
func (tc *TestContext) Header(name string) string {
	return tc.lastHeaders.Get(name)
}

// HasSessionCookie reports whether the last response set any cookie.
func (tc *TestContext) HasSessionCookie() bool {
	return len(tc.lastCookies) > 0
}

// GetResponseField returns a field from the last JSON response body.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	if tc.lastBody == nil {
		return nil, fmt.Errorf("last response had no JSON body")
	}
	value, ok := tc.lastBody[field]
	if !ok {
		return nil, fmt.Errorf("field %q not present in response", field)
	}
	return value, nil
}

// SaveHandoverLink remembers the link from the last create response.
func (tc *TestContext) SaveHandoverLink() error {
	raw, err := tc.GetResponseField("url")
	if err != nil {
		return err
	}
	link, ok := raw.(string)
	if !ok || link == "" {
		return fmt.Errorf("url field is not a string")
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("parse handover link: %w", err)
	}
	tc.handoverPath = parsed.Path
	return nil
}

// HandoverPath returns the path of the saved handover link.
func (tc *TestContext) HandoverPath() (string, error) {
	if tc.handoverPath == "" {
		return "", fmt.Errorf("no handover link saved")
	}
	return tc.handoverPath, nil
}
