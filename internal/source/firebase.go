package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/logger"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/snapshot"
)

var (
	// ErrStreamCancelled is returned when the database cancels the stream,
	// usually because security rules no longer allow the read.
	ErrStreamCancelled = errors.New("firebase stream cancelled")
	// ErrAuthRevoked is returned when the auth token expired or was revoked.
	ErrAuthRevoked = errors.New("firebase auth revoked")
)

const (
	defaultMinBackoff = 500 * time.Millisecond
	defaultMaxBackoff = 30 * time.Second
	maxEventSize      = 16 << 20
)

// FirebaseConfig configures a Firebase Realtime Database stream.
type FirebaseConfig struct {
	Client     *http.Client
	URL        string
	Node       string
	AuthToken  string
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// Firebase streams a node of a Firebase Realtime Database over the REST
// streaming protocol (server-sent events) and pushes the merged node after
// every change. Dropped streams are reopened with exponential backoff.
type Firebase struct {
	cfg       FirebaseConfig
	streamURL string
}

// NewFirebase validates cfg and creates a stream source.
func NewFirebase(cfg FirebaseConfig) (*Firebase, error) {
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid firebase URL: %w", err)
	}
	if base.Scheme != "https" && base.Scheme != "http" {
		return nil, fmt.Errorf("invalid firebase URL %q: scheme must be http or https", cfg.URL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid firebase URL %q: missing host", cfg.URL)
	}

	if cfg.Node == "" {
		cfg.Node = snapshot.DefaultNode
	}
	if cfg.Client == nil {
		// No overall timeout; the stream stays open indefinitely.
		cfg.Client = &http.Client{}
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = defaultMinBackoff
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = max(defaultMaxBackoff, cfg.MinBackoff)
	}

	base.Path += "/" + strings.Trim(cfg.Node, "/") + ".json"
	if cfg.AuthToken != "" {
		q := base.Query()
		q.Set("auth", cfg.AuthToken)
		base.RawQuery = q.Encode()
	}

	return &Firebase{cfg: cfg, streamURL: base.String()}, nil
}

// Name implements Source.
func (f *Firebase) Name() string { return "firebase" }

// Location implements Source. The auth token is never included.
func (f *Firebase) Location() string {
	return strings.TrimRight(f.cfg.URL, "/") + "/" + strings.Trim(f.cfg.Node, "/")
}

// Subscribe implements Source.
func (f *Firebase) Subscribe(ctx context.Context, fn func(Update)) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(ctx)
	d := newDispatcher(fn, cancel)

	go func() {
		defer d.finish()
		f.run(ctx, d)
	}()

	return d.unsubscribe, nil
}

func (f *Firebase) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.cfg.MinBackoff
	b.MaxInterval = f.cfg.MaxBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// run keeps a stream open until ctx is done.
func (f *Firebase) run(ctx context.Context, d *dispatcher) {
	b := f.newBackOff()

	for {
		received, err := f.stream(ctx, d)
		if ctx.Err() != nil {
			return
		}
		if received {
			b.Reset()
		}
		if err != nil {
			d.fail(err)
		}

		wait := b.NextBackOff()
		logger.Warn("Firebase stream closed, reconnecting", "error", err, "retry_in", wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// stream reads one connection until it ends. received reports whether any
// data event was applied, which resets the backoff.
func (f *Firebase) stream(ctx context.Context, d *dispatcher) (received bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.streamURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := f.cfg.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to open firebase stream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("firebase stream: unexpected status %s", resp.Status)
	}

	logger.Info("Firebase stream opened", "location", f.Location())

	// Each connection starts with a full put at "/".
	doc := []byte("null")
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), maxEventSize)

	var event string
	var data bytes.Buffer

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			if event == "" && data.Len() == 0 {
				continue
			}
			next, changed, err := applyEvent(doc, event, data.Bytes())
			event = ""
			data.Reset()
			if err != nil {
				return received, err
			}
			if changed {
				doc = next
				received = true
				d.deliver(Update{At: time.Now(), Snapshot: snapshot.FromResult(gjson.ParseBytes(doc))})
			}

		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))

		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	if err := scanner.Err(); err != nil {
		return received, fmt.Errorf("firebase stream read: %w", err)
	}
	return received, nil
}

// applyEvent applies one server-sent event to doc.
func applyEvent(doc []byte, event string, data []byte) ([]byte, bool, error) {
	switch event {
	case "keep-alive":
		return doc, false, nil
	case "cancel":
		return doc, false, ErrStreamCancelled
	case "auth_revoked":
		return doc, false, ErrAuthRevoked
	case "put", "patch":
	default:
		logger.Debug("Ignoring firebase event", "event", event)
		return doc, false, nil
	}

	if !gjson.ValidBytes(data) {
		return doc, false, fmt.Errorf("firebase %s event: invalid JSON payload", event)
	}
	msg := gjson.ParseBytes(data)
	path := msg.Get("path").String()
	payload := msg.Get("data")

	var err error
	if event == "put" {
		doc, err = put(doc, path, payload)
	} else {
		payload.ForEach(func(key, value gjson.Result) bool {
			doc, err = put(doc, joinPath(path, key.String()), value)
			return err == nil
		})
	}
	if err != nil {
		return doc, false, fmt.Errorf("firebase %s event at %q: %w", event, path, err)
	}
	return doc, true, nil
}

// put replaces the value at a database path; null deletes it.
func put(doc []byte, path string, value gjson.Result) ([]byte, error) {
	p := snapshot.Path(path)
	if p == "" {
		if !value.Exists() {
			return []byte("null"), nil
		}
		return []byte(value.Raw), nil
	}

	if value.Type == gjson.Null {
		if !gjson.ValidBytes(doc) || !gjson.GetBytes(doc, p).Exists() {
			return doc, nil
		}
		// The database keeps sibling indices when an array child is removed,
		// so leave a hole instead of shifting the elements after it.
		if parent := snapshot.Path(parentPath(path)); parent != "" && gjson.GetBytes(doc, parent).IsArray() {
			return sjson.SetRawBytes(doc, p, []byte("null"))
		}
		return sjson.DeleteBytes(doc, p)
	}

	if !gjson.ParseBytes(doc).IsObject() {
		doc = []byte("{}")
	}
	return sjson.SetRawBytes(doc, p, []byte(value.Raw))
}

// parentPath drops the last segment of a slash separated path.
func parentPath(path string) string {
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return ""
}

func joinPath(parent, key string) string {
	return strings.TrimRight(parent, "/") + "/" + key
}
