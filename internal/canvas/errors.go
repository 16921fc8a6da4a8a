package canvas

import (
	"encoding/json"
	"net/http"
	"strings"

	"canvas-student-export/internal/faults"

	"github.com/go-resty/resty/v2"
)

type errorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func errorMessage(body []byte) string {
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil {
		messages := []string{}
		if parsed.Message != "" {
			messages = append(messages, parsed.Message)
		}
		for _, e := range parsed.Errors {
			if e.Message != "" {
				messages = append(messages, e.Message)
			}
		}
		if len(messages) > 0 {
			return strings.Join(messages, "; ")
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

// faultFromResponse turns a non-2xx response into a *faults.Fault. Canvas
// answers 401 for both a bad token and a missing permission, only the
// former carries a WWW-Authenticate challenge.
func faultFromResponse(res *resty.Response) *faults.Fault {
	status := res.StatusCode()
	message := errorMessage(res.Body())

	switch status {
	case http.StatusUnauthorized:
		if res.Header().Get("WWW-Authenticate") != "" {
			return faults.New(faults.CauseInvalidToken, status, message)
		}
		return faults.New(faults.CauseUnauthorized, status, message)
	case http.StatusForbidden:
		return faults.New(faults.CauseForbidden, status, message)
	case http.StatusNotFound:
		return faults.New(faults.CauseNotFound, status, message)
	default:
		return faults.New(faults.CauseRemote, status, message)
	}
}
