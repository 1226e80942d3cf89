package fsx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/Abraxas-365/fileutil/pkg/logx"
)

// Modifier receives the decoded document and the data to append and
// returns the document to save. The result must encode to a JSON object
// or array.
type Modifier func(doc any, appendData any) (any, error)

// AppendToArray returns a Modifier that appends the data to the array
// stored under key of a top-level object, creating the array when missing.
func AppendToArray(key string) Modifier {
	return func(doc any, appendData any) (any, error) {
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, errors.New("document is not an object")
		}
		var arr []any
		if existing, found := obj[key]; found && existing != nil {
			if arr, ok = existing.([]any); !ok {
				return nil, fmt.Errorf("value under %q is not an array", key)
			}
		}
		obj[key] = append(arr, appendData)
		return obj, nil
	}
}

// AppendJSON loads the JSON document at p, passes it through modifier
// together with appendData and writes the result back in compact form.
func (h *Helper) AppendJSON(ctx context.Context, p string, appendData any, modifier Modifier) (string, error) {
	if modifier == nil {
		return "", EmptyInputError("modifier")
	}

	data, err := h.readDocument(ctx, p)
	if err != nil {
		return "", err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", ParseError(p, err)
	}

	result, err := modifier(doc, appendData)
	if err != nil {
		return "", InvalidArgumentError("modifier", err).WithDetail("path", p)
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", InvalidArgumentError("modifier", err).WithDetail("path", p)
	}
	if !isContainer(out) {
		return "", fsxErrors.New(ErrNotJSONObject).WithDetail("path", p)
	}

	if _, err := h.WriteFile(ctx, p, out); err != nil {
		return "", err
	}

	h.logger.WithField("path", p).Debug("json appended")
	return p, nil
}

// AppendJSONAt appends value to the array found at the gjson path key,
// creating the array when the key is absent. The rest of the document is
// written back untouched.
func (h *Helper) AppendJSONAt(ctx context.Context, p, key string, value any) (string, error) {
	if key == "" {
		return "", EmptyInputError("key")
	}

	data, err := h.readDocument(ctx, p)
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(data) {
		return "", ParseError(p, errors.New("invalid json"))
	}

	var out []byte
	switch target := gjson.GetBytes(data, key); {
	case !target.Exists():
		out, err = sjson.SetBytes(data, key, []any{value})
	case target.IsArray():
		out, err = sjson.SetBytes(data, key+".-1", value)
	default:
		return "", fsxErrors.New(ErrNotJSONObject).
			WithDetail("path", p).
			WithDetail("key", key)
	}
	if err != nil {
		return "", InvalidArgumentError("value", err).WithDetail("path", p)
	}

	if _, err := h.WriteFile(ctx, p, out); err != nil {
		return "", err
	}

	h.logger.WithFields(logx.Fields{"path": p, "key": key}).Debug("json appended")
	return p, nil
}

func (h *Helper) readDocument(ctx context.Context, p string) ([]byte, error) {
	if p == "" {
		return nil, EmptyInputError("path")
	}
	if err := h.mustExist(ctx, p); err != nil {
		return nil, err
	}

	data, err := h.fs.ReadFile(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, EmptyInputError("content").WithDetail("path", p)
	}
	return data, nil
}

func isContainer(doc []byte) bool {
	doc = bytes.TrimSpace(doc)
	return len(doc) > 0 && (doc[0] == '{' || doc[0] == '[')
}
