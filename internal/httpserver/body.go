package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const maxBodyBytes = 1 << 20

// decodeObject reads the request body as exactly one JSON object.
func decodeObject(c echo.Context) (map[string]any, error) {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxBodyBytes)
	dec := json.NewDecoder(body)

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("body is not a json object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after json object")
	}
	return obj, nil
}

// pathID parses a path id. Only the canonical decimal form of a positive
// integer can name a record; anything else matches nothing.
func pathID(c echo.Context, name string) (int, bool) {
	raw := c.Param(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 || strconv.Itoa(id) != raw {
		return 0, false
	}
	return id, true
}
