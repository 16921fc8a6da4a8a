package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

// headers whose values never end up in a dump
var secretHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
	"Set-Cookie":    true,
}

const noBody = "<NO BODY>"

func writeHeaders(sb *strings.Builder, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range headers[k] {
			if secretHeaders[http.CanonicalHeaderKey(k)] {
				v = "<redacted>"
			}
			fmt.Fprintf(sb, "%s: %s\n", k, v)
		}
	}
}

func requestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return noBody
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("<failed to get request body: %v>", err)
	}
	// resty hands out a nil reader for requests without a body
	if body == nil {
		return noBody
	}
	defer body.Close()
	contents, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("<failed to read request body: %v>", err)
	}
	if len(contents) == 0 {
		return noBody
	}
	return string(contents)
}

func writeRequest(sb *strings.Builder, req *resty.Request) {
	sb.WriteString("---- REQUEST ----\n\n")
	fmt.Fprintf(sb, "%s %s\n\n", req.Method, req.URL)
	if req.RawRequest != nil {
		writeHeaders(sb, req.RawRequest.Header)
	}
	sb.WriteString("\n")
	sb.WriteString(requestBody(req.RawRequest))
	sb.WriteString("\n\n")
}

// formatExchange renders a request and its response as plain text.
func formatExchange(res *resty.Response) string {
	sb := &strings.Builder{}
	writeRequest(sb, res.Request)

	sb.WriteString("---- RESPONSE ----\n\n")
	fmt.Fprintf(sb, "%d %s\n\n", res.StatusCode(), res.Request.URL)
	writeHeaders(sb, res.Header())
	sb.WriteString("\n")

	// streamed file downloads are never buffered
	body := res.String()
	if body == "" {
		body = noBody
	}
	sb.WriteString(body)
	return sb.String()
}

// formatFailure renders a request that never got a response.
func formatFailure(req *resty.Request, err error) string {
	sb := &strings.Builder{}
	writeRequest(sb, req)
	sb.WriteString("---- ERROR ----\n\n")
	sb.WriteString(err.Error())
	return sb.String()
}
