package resource

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/record"
)

var (
	collectionKeys = []string{"data", "items", "records", "results"}
	metaKeys       = []string{"meta", "pagination"}

	pageKeys       = []string{"page", "currentPage", "current_page"}
	totalPagesKeys = []string{"totalPages", "total_pages", "pages"}
	totalKeys      = []string{"totalRecords", "total_records", "total", "count"}
	limitKeys      = []string{"limit", "perPage", "per_page"}
)

// decodeList accepts the list envelopes seen across the API: a bare array,
// or an object holding the array under one of collectionKeys with
// pagination fields at the top level or under one of metaKeys.
func decodeList(body []byte, req ListParams) (ListResult, int, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return ListResult{}, 0, fmt.Errorf("decode list: %w", err)
	}

	var (
		items   []any
		meta    map[string]any
		dropped int
	)
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		items, meta = splitEnvelope(v)
	default:
		return ListResult{}, 0, fmt.Errorf("decode list: unexpected %T envelope", doc)
	}

	res := ListResult{Records: make([]record.Raw, 0, len(items))}
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		res.Records = append(res.Records, m)
	}

	limit := req.Limit
	if n, ok := intField(meta, limitKeys); ok && n > 0 {
		limit = n
	}
	res.Page = req.Page
	if n, ok := intField(meta, pageKeys); ok && n > 0 {
		res.Page = n
	}
	res.TotalRecords = len(res.Records)
	hasTotal := false
	if n, ok := intField(meta, totalKeys); ok && n >= 0 {
		res.TotalRecords = n
		hasTotal = true
	}
	switch n, ok := intField(meta, totalPagesKeys); {
	case ok && n > 0:
		res.TotalPages = n
	case hasTotal:
		res.TotalPages = TotalPages(res.TotalRecords, limit)
	default:
		// No pagination metadata: the response is the whole collection.
		res.TotalPages = 1
		res.Page = 1
	}
	if res.Page < 1 {
		res.Page = 1
	}
	return res, dropped, nil
}

func splitEnvelope(doc map[string]any) ([]any, map[string]any) {
	meta := metaOf(doc)
	for _, k := range collectionKeys {
		switch v := doc[k].(type) {
		case []any:
			return v, meta
		case map[string]any:
			// {"data": {"items": [...], "total": n}}
			if inner, innerMeta := splitEnvelope(v); inner != nil {
				if !hasPagination(meta) {
					meta = innerMeta
				}
				return inner, meta
			}
		}
	}
	return nil, meta
}

func metaOf(doc map[string]any) map[string]any {
	for _, k := range metaKeys {
		if m, ok := doc[k].(map[string]any); ok {
			return m
		}
	}
	return doc
}

func hasPagination(m map[string]any) bool {
	return hasAny(m, pageKeys) || hasAny(m, totalPagesKeys) || hasAny(m, totalKeys)
}

func intField(m map[string]any, keys []string) (int, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return int(v), true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// decodeOne accepts a bare record or one wrapped under "data".
func decodeOne(body []byte) (record.Raw, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return record.Raw{}, nil
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if inner, ok := doc["data"].(map[string]any); ok && !hasAny(doc, record.DefaultIDFields) {
		return inner, nil
	}
	return doc, nil
}

func hasAny(m map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// decodeProblem extracts a human message and field errors from an error
// body. Field errors may be a map of field to message (or list of
// messages), or a list of {field, message} objects.
func decodeProblem(body []byte) (string, map[string]string) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return strings.TrimSpace(string(body)), nil
	}

	msg := ""
	for _, k := range []string{"message", "error", "detail"} {
		if s, ok := doc[k].(string); ok && s != "" {
			msg = s
			break
		}
	}

	fields := make(map[string]string)
	switch errs := doc["errors"].(type) {
	case map[string]any:
		for field, v := range errs {
			switch t := v.(type) {
			case string:
				fields[field] = t
			case []any:
				if len(t) > 0 {
					fields[field] = record.Stringify(t[0])
				}
			}
		}
	case []any:
		for _, e := range errs {
			m, ok := e.(map[string]any)
			if !ok {
				continue
			}
			field := record.Stringify(m["field"])
			if field == "" {
				field = record.Stringify(m["path"])
			}
			if field != "" {
				fields[field] = record.Stringify(m["message"])
			}
		}
	}
	if len(fields) == 0 {
		fields = nil
	}
	return msg, fields
}

// classify maps a non-2xx response onto the error taxonomy.
func classify(op, resource, id string, status int, body []byte) error {
	msg, fields := decodeProblem(body)
	switch {
	case status == 401 || status == 403:
		return errors.NewAuthError(status, msg)
	case status == 404 && id != "":
		return errors.NewNotFoundError(resource, id)
	case (status == 400 || status == 422) && fields != nil:
		if msg == "" {
			msg = "the server rejected the submitted values"
		}
		return errors.NewValidationError(msg).WithFields(fields)
	}
	fe := errors.NewFetchError(op, nil).WithResource(resource).WithStatus(status)
	if msg != "" {
		fe = fe.WithMessage(msg)
	}
	return fe
}
