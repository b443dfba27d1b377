// Package extensions implements the extension lifecycle manager, the
// mediated HTTP egress sandbox, and per-extension key/value storage
// (spec.md §4.2-§4.4).
package extensions

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/agentdeck/agentdeck/ent"
	"github.com/agentdeck/agentdeck/ent/extension"
	"github.com/google/uuid"
)

// deniedRequestHeaders is the case-insensitive deny set for request
// headers whose values are never persisted verbatim (I7).
var deniedRequestHeaders = map[string]bool{
	"authorization": true,
	"x-api-key":     true,
	"api-key":       true,
	"cookie":        true,
	"set-cookie":    true,
}

// deniedResponseHeaders is the deny set applied to response headers.
var deniedResponseHeaders = map[string]bool{
	"set-cookie":    true,
	"authorization": true,
}

const redactedMarker = "[REDACTED]"

const responseExcerptLimit = 500

// PermissionDeniedError is returned when a sandboxed request does not
// match the extension's declared network allow-list.
type PermissionDeniedError struct {
	Reason string
}

func (e *PermissionDeniedError) Error() string {
	return "permission denied: " + e.Reason
}

// NetworkPermission mirrors one entry of manifest.permissions.network.
type NetworkPermission struct {
	URL     string
	Methods []string
}

// Sandbox mediates every outbound HTTP request made on behalf of an
// extension (spec.md §4.3): it resolves the extension's declared
// permissions.network, matches the target URL, writes an audit row,
// then either executes the request or fails closed.
type Sandbox struct {
	client *ent.Client
	http   *http.Client
}

// NewSandbox constructs a Sandbox with the default 30s per-request timeout.
func NewSandbox(client *ent.Client) *Sandbox {
	return &Sandbox{
		client: client,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Request is one outbound HTTP call an extension wants to make.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// Response is the sandboxed call's outcome, returned only when allowed.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Do resolves extensionName's permissions, matches req.URL against its
// declared allow-list, writes the audit row, and (if allowed) performs
// the request. Audit writes happen before the outbound call on the
// denied path (denials are never silent) and after on the allowed path
// (to capture response metadata), per spec.md §4.3.
func (s *Sandbox) Do(ctx context.Context, extensionName string, req Request) (*Response, error) {
	ext, err := s.client.Extension.Query().
		Where(extension.NameEQ(extensionName)).
		Only(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve extension %q: %w", extensionName, err)
	}

	perms := parseNetworkPermissions(ext.Manifest)

	allowed, reason := matchAllowList(perms, req.URL, req.Method)
	if !allowed {
		s.writeAudit(ctx, ext.ID, extensionName, req, false, reason, nil, 0, nil)
		return nil, &PermissionDeniedError{Reason: reason}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header = req.Headers

	start := time.Now()
	httpResp, err := s.http.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		s.writeAuditError(ctx, ext.ID, extensionName, req, elapsed, err.Error())
		return nil, fmt.Errorf("outbound request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		s.writeAuditError(ctx, ext.ID, extensionName, req, elapsed, err.Error())
		return nil, fmt.Errorf("read response body: %w", err)
	}

	s.writeAudit(ctx, ext.ID, extensionName, req, true, "", httpResp, elapsed, body)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

func (s *Sandbox) writeAuditError(ctx context.Context, extID, extName string, req Request, elapsed time.Duration, errMsg string) {
	create := s.client.ExtensionNetworkAudit.Create().
		SetID(uuid.New().String()).
		SetExtensionID(extID).
		SetExtensionName(extName).
		SetTargetURL(req.URL).
		SetMethod(strings.ToUpper(req.Method)).
		SetAllowed(true).
		SetError(errMsg).
		SetResponseTimeMs(elapsed.Milliseconds())
	applyRequestAuditFields(create, req)
	_, _ = create.Save(ctx)
}

func (s *Sandbox) writeAudit(ctx context.Context, extID, extName string, req Request, allowed bool, blockedReason string, resp *http.Response, elapsed time.Duration, body []byte) {
	create := s.client.ExtensionNetworkAudit.Create().
		SetID(uuid.New().String()).
		SetExtensionID(extID).
		SetExtensionName(extName).
		SetTargetURL(req.URL).
		SetMethod(strings.ToUpper(req.Method)).
		SetAllowed(allowed)
	if blockedReason != "" {
		create.SetBlockedReason(blockedReason)
	}
	applyRequestAuditFields(create, req)

	if resp != nil {
		create.SetResponseStatus(resp.StatusCode)
		create.SetResponseTimeMs(elapsed.Milliseconds())
		if headers := redactHeaders(resp.Header, deniedResponseHeaders); headers != nil {
			create.SetResponseHeaders(headers)
		}
		if body != nil {
			create.SetResponseBodySize(int64(len(body)))
			excerpt := string(body)
			if len(excerpt) > responseExcerptLimit {
				excerpt = excerpt[:responseExcerptLimit]
			}
			create.SetResponseBodyExcerpt(excerpt)
		}
	}

	if _, err := create.Save(ctx); err != nil {
		// Audit-write failures are logged and suppressed so that request
		// failures do not cascade from audit infrastructure.
		fmt.Printf("extension audit write failed for %s: %v\n", extName, err)
	}
}

func applyRequestAuditFields(create *ent.ExtensionNetworkAuditCreate, req Request) {
	if headers := redactHeaders(req.Headers, deniedRequestHeaders); headers != nil {
		create.SetRequestHeaders(headers)
	}
	if len(req.Body) > 0 {
		create.SetRequestBodyHash(hashBody(req.Body))
		create.SetRequestBodySize(int64(len(req.Body)))
	}
}

func redactHeaders(h http.Header, deny map[string]bool) map[string]any {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]any, len(h))
	for k, v := range h {
		if deny[strings.ToLower(k)] {
			out[k] = redactedMarker
			continue
		}
		if len(v) == 1 {
			out[k] = v[0]
		} else {
			out[k] = v
		}
	}
	return out
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return fmt.Sprintf("%x", sum)[:16]
}

func parseNetworkPermissions(manifest map[string]any) []NetworkPermission {
	permsRaw, ok := manifest["permissions"].(map[string]any)
	if !ok {
		return nil
	}
	networkRaw, ok := permsRaw["network"].([]any)
	if !ok {
		return nil
	}

	out := make([]NetworkPermission, 0, len(networkRaw))
	for _, entry := range networkRaw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		perm := NetworkPermission{}
		if u, ok := m["url"].(string); ok {
			perm.URL = u
		}
		if methodsRaw, ok := m["methods"].([]any); ok {
			for _, mm := range methodsRaw {
				if ms, ok := mm.(string); ok {
					perm.Methods = append(perm.Methods, strings.ToUpper(ms))
				}
			}
		}
		out = append(out, perm)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// matchAllowList implements the network permission pattern grammar
// (spec.md §4.3): scheme check, `*.`-prefixed strict subdomain wildcard,
// and path matching (empty/`/`/trailing-`*` → prefix match, else exact
// match ignoring one trailing slash).
func matchAllowList(perms []NetworkPermission, target, method string) (bool, string) {
	if len(perms) == 0 {
		return false, "No network permissions defined in manifest"
	}

	for _, perm := range perms {
		if len(perm.Methods) > 0 && !containsMethod(perm.Methods, method) {
			continue
		}
		if urlMatchesPattern(target, perm.URL) {
			return true, ""
		}
	}
	return false, fmt.Sprintf("URL not in whitelist: %s", target)
}

func containsMethod(methods []string, method string) bool {
	method = strings.ToUpper(method)
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

func urlMatchesPattern(target, pattern string) bool {
	patternURL, err := url.Parse(pattern)
	if err != nil {
		return false
	}
	targetURL, err := url.Parse(target)
	if err != nil {
		return false
	}

	if patternURL.Scheme != "" && patternURL.Scheme != targetURL.Scheme {
		return false
	}

	patternHost := patternURL.Host
	if patternHost == "" {
		// A bare "example.com" (no scheme) parses into Path, not Host.
		patternHost = strings.SplitN(patternURL.Path, "/", 2)[0]
	}
	targetHost := targetURL.Host

	if strings.HasPrefix(patternHost, "*.") {
		domain := patternHost[2:]
		if !strings.HasSuffix(targetHost, "."+domain) {
			return false
		}
	} else if patternHost != targetHost {
		return false
	}

	patternPath := patternURL.Path
	targetPath := targetURL.Path
	if targetPath == "" {
		targetPath = "/"
	}

	if patternPath == "" || patternPath == "/" || strings.HasSuffix(patternPath, "*") {
		prefix := strings.TrimSuffix(patternPath, "*")
		trimmedPrefix := strings.TrimSuffix(prefix, "/")
		if trimmedPrefix == "" {
			return true
		}
		if strings.HasPrefix(targetPath, trimmedPrefix) {
			return true
		}
		return trimmedPrefix == strings.TrimSuffix(targetPath, "/")
	}

	return strings.TrimSuffix(targetPath, "/") == strings.TrimSuffix(patternPath, "/")
}
