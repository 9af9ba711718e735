// Package transport implements the client's request interceptor chain as an
// http.RoundTripper: bearer attachment, token-expiry refresh with a single
// replay, and session teardown on terminal auth failures.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/rashid4567/recruitiq/internal/client/session"
	"github.com/rashid4567/recruitiq/internal/common"
)

// Refresher redeems the refresh-token cookie for a new access token. It must
// perform its call outside this transport; a refresh failing with 401 is
// terminal and never re-enters the retry logic.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// AuthTransport decorates a base RoundTripper with the auth interceptor
// chain. Responses flow through untouched except for the session side
// effects described on RoundTrip.
type AuthTransport struct {
	base     http.RoundTripper
	sessions *session.Manager
	refresh  Refresher

	// Concurrent expiries coalesce into one refresh call; every waiter gets
	// the same new token or the same failure.
	group singleflight.Group
}

// New constructs an AuthTransport over base (http.DefaultTransport if nil).
func New(base http.RoundTripper, sessions *session.Manager, refresh Refresher) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthTransport{base: base, sessions: sessions, refresh: refresh}
}

// RoundTrip sends the request with the session's bearer token attached and
// applies the response rules:
//
//   - network failure: returned as-is, session untouched;
//   - 401 TOKEN_EXPIRED on a not-yet-replayed request: refresh, store the
//     new token, replay the original request exactly once;
//   - any other 401, a replay that still fails 401, or a failed refresh:
//     session cleared;
//   - 403 ACCOUNT_DEACTIVATED: session cleared.
//
// The caller still receives the final response and maps its error code; the
// transport only owns the session side effects.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.send(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		code := peekErrorCode(resp)
		canReplay := req.Body == nil || req.GetBody != nil
		if code != common.CodeTokenExpired || !canReplay {
			_ = t.sessions.Clear()
			return resp, nil
		}

		token, refreshErr := t.refreshOnce(req.Context())
		if refreshErr != nil {
			_ = t.sessions.Clear()
			return resp, nil
		}
		_ = t.sessions.Update(func(s *session.Session) { s.AccessToken = token })

		resp.Body.Close()
		retry, err := t.send(cloneForReplay(req))
		if err != nil {
			return nil, err
		}
		if retry.StatusCode == http.StatusUnauthorized ||
			(retry.StatusCode == http.StatusForbidden && peekErrorCode(retry) == common.CodeAccountDeactivated) {
			_ = t.sessions.Clear()
		}
		return retry, nil

	case http.StatusForbidden:
		if peekErrorCode(resp) == common.CodeAccountDeactivated {
			_ = t.sessions.Clear()
		}
	}

	return resp, nil
}

func (t *AuthTransport) send(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if token := t.sessions.Get().AccessToken; token != "" {
		out.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}
	return t.base.RoundTrip(out)
}

func (t *AuthTransport) refreshOnce(ctx context.Context) (string, error) {
	v, err, _ := t.group.Do("refresh", func() (any, error) {
		return t.refresh.Refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func cloneForReplay(req *http.Request) *http.Request {
	out := req.Clone(req.Context())
	if req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			out.Body = body
		}
	}
	return out
}

// peekErrorCode reads the {code} field of an error body without consuming
// it for downstream readers.
func peekErrorCode(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	var body struct {
		Code string `json:"code"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	return body.Code
}
