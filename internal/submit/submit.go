// Package submit hands a serialized workflow document to a planner service
// over Socket.IO.
//
// The client emits a single "workflow" event carrying the document and waits
// for the planner to answer with "workflow:accepted" or "workflow:rejected".
package submit

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/daxgen/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	EventWorkflow = "workflow"
	EventAccepted = "workflow:accepted"
	EventRejected = "workflow:rejected"

	// DefaultTimeout bounds a submission when Config.Timeout is zero.
	DefaultTimeout = 10 * time.Second
)

// ErrRejected is returned when the planner refuses the document.
var ErrRejected = errors.New("workflow rejected by planner")

// Config describes the planner endpoint.
type Config struct {
	URL                string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Document is the payload of the "workflow" event.
type Document struct {
	Name    string
	Format  string
	Content []byte
}

func (d Document) payload() map[string]any {
	return map[string]any{
		"name":     d.Name,
		"format":   d.Format,
		"document": string(d.Content),
	}
}

// Receipt is the planner's acknowledgement.
type Receipt struct {
	Response any
}

type result struct {
	receipt *Receipt
	err     error
}

// Send connects to the planner, emits the document and waits for the answer.
// It returns when the planner answers, the connection fails, the timeout
// expires, or ctx is cancelled.
func Send(ctx context.Context, cfg Config, doc Document) (*Receipt, error) {
	logger := ctxlog.FromContext(ctx).With("url", cfg.URL, "namespace", cfg.Namespace, "workflow", doc.Name)
	logger.Debug("Submission started.")
	defer logger.Debug("Submission finished.")

	if cfg.URL == "" {
		return nil, errors.New("submit URL must not be empty")
	}
	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("submit URL %q must include a scheme and host", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client.")
		io.Disconnect()
	}()

	var connected atomic.Bool
	done := make(chan result, 1)
	finish := func(r result) {
		select {
		case done <- r:
		default:
		}
	}

	io.Once(types.EventName("connect"), func(...any) {
		connected.Store(true)
		logger.Debug("Connected, emitting workflow.", "sid", io.Id(), "bytes", len(doc.Content))
		if err := io.Emit(EventWorkflow, doc.payload()); err != nil {
			finish(result{err: fmt.Errorf("failed to emit %q: %w", EventWorkflow, err)})
		}
	})

	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		finish(result{err: fmt.Errorf("socket.io connection failed: %w", err)})
	})

	io.Once(types.EventName(EventAccepted), func(data ...any) {
		var resp any
		if len(data) > 0 {
			resp = data[0]
		}
		finish(result{receipt: &Receipt{Response: resp}})
	})

	io.Once(types.EventName(EventRejected), func(data ...any) {
		reason := "no reason given"
		if len(data) > 0 {
			reason = fmt.Sprint(data[0])
		}
		finish(result{err: fmt.Errorf("%w: %s", ErrRejected, reason)})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if connected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for %q: %w", EventAccepted, opCtx.Err())
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection: %w", opCtx.Err())
	case res := <-done:
		if res.err != nil {
			logger.Debug("Submission failed.", "error", res.err)
			return nil, res.err
		}
		logger.Info("Workflow accepted by planner.")
		return res.receipt, nil
	}
}
