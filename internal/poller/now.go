package poller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

const (
	fieldPath        = "path"
	fieldCurrentTime = "current_time"
)

// NowResponse is the decoded body of the target's /now endpoint.
type NowResponse struct {
	// Path is the request path reported by the target. Empty if absent.
	Path string

	currentTime    interface{}
	hasCurrentTime bool
}

// ParseNow decodes a /now body.
//
// The body must be a JSON object. "path" is optional and defaults to the
// empty string, but must be a string when present. "current_time" is kept
// undecoded until [NowResponse.CurrentTime] is called, so a body without it
// can still be classified by path.
func ParseNow(body []byte) (NowResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return NowResponse{}, fmt.Errorf("invalid JSON body: %w", err)
	}

	obj, ok := data.(map[string]interface{})
	if !ok {
		return NowResponse{}, errors.New("invalid JSON body: expected an object")
	}

	var resp NowResponse

	if raw, ok := obj[fieldPath]; ok {
		path, ok := raw.(string)
		if !ok {
			return NowResponse{}, fmt.Errorf("field %q must be a string, got %s", fieldPath, jsonKind(raw))
		}
		resp.Path = path
	}

	resp.currentTime, resp.hasCurrentTime = obj[fieldCurrentTime]
	return resp, nil
}

// CurrentTime renders "current_time" as text.
//
// Strings are returned verbatim, numbers keep their original spelling and
// null renders as "null". A missing field, an object or an array is an error.
func (r NowResponse) CurrentTime() (string, error) {
	if !r.hasCurrentTime {
		return "", fmt.Errorf("missing field %q", fieldCurrentTime)
	}
	s, err := scalarString(r.currentTime)
	if err != nil {
		return "", fmt.Errorf("field %q: %w", fieldCurrentTime, err)
	}
	return s, nil
}

// scalarString renders a decoded JSON scalar as text.
func scalarString(v interface{}) (string, error) {
	switch v := v.(type) {
	case nil:
		return "null", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("expected a scalar, got %s", jsonKind(v))
	}
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
