// Package restyutil dumps the traffic of a resty client for debugging.
package restyutil

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// InstrumentOutput receives one dump per request, id is unique per client
// and sorts in request order.
type InstrumentOutput interface {
	Write(id string, contents string)
}

type dumper struct {
	output  InstrumentOutput
	counter *atomic.Uint64
}

// InstrumentClient dumps every request/response pair made by client to
// output. It does nothing when output is nil.
func InstrumentClient(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	d := dumper{output: output, counter: &atomic.Uint64{}}
	client.OnBeforeRequest(d.onBeforeRequest)
	client.OnAfterResponse(d.onAfterResponse)
	client.OnError(d.onError)
}

type messageIDKey struct{}

// messageID is the sequence number followed by a short readable name of
// the request, "0003-GET-courses_7_assignments".
func messageID(n uint64, method, rawURL string) string {
	name := rawURL
	u, err := url.Parse(rawURL)
	if err == nil {
		name = u.Path
	}
	name = strings.TrimPrefix(name, "/api/v1")
	name = strings.Trim(name, "/")
	name = strings.ReplaceAll(name, "/", "_")
	if len(name) > 80 {
		name = name[:80]
	}
	if name == "" {
		return fmt.Sprintf("%04d-%s", n, method)
	}
	return fmt.Sprintf("%04d-%s-%s", n, method, name)
}

func (d dumper) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	id := messageID(d.counter.Add(1), req.Method, req.URL)
	slog.Debug("start request", "method", req.Method, "url", req.URL, "message_id", id)
	req.SetContext(context.WithValue(req.Context(), messageIDKey{}, id))
	return nil
}

func (d dumper) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	id, ok := res.Request.Context().Value(messageIDKey{}).(string)
	if !ok {
		return nil
	}
	d.output.Write(id, formatExchange(res))
	return nil
}

func (d dumper) onError(req *resty.Request, err error) {
	id, ok := req.Context().Value(messageIDKey{}).(string)
	slog.Debug("request failed", "method", req.Method, "url", req.URL, "err", err, "message_id", id)
	if ok {
		d.output.Write(id, formatFailure(req, err))
	}
}
