package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
)

const ownerField = "ownerAddress"

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeBody reads exactly one JSON value into v. Numbers decode as
// json.Number. An empty body leaves v untouched.
func decodeBody(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

// decodeFields reads a flat JSON object into template fields. Numbers keep
// their literal text, so "decimals": 6 and "decimals": "6" compose the same.
func decodeFields(body io.Reader) (string, domain.Fields, error) {
	var raw map[string]any
	if err := decodeBody(body, &raw); err != nil {
		return "", nil, err
	}

	fields := make(domain.Fields, len(raw))
	for key, v := range raw {
		switch val := v.(type) {
		case string:
			fields[key] = val
		case json.Number:
			fields[key] = val.String()
		case bool:
			fields[key] = strconv.FormatBool(val)
		}
	}

	owner := fields[ownerField]
	delete(fields, ownerField)
	return owner, fields, nil
}
