package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm/schema"
)

// CredentialSource supplies the bearer credential sent with every remote call.
type CredentialSource interface {
	Credential(ctx context.Context) (string, error)
}

// RemoteStore talks to a REST item API:
//
//	GET   /items/{collection}?filter[field][_eq]=v&sort=-attempt&limit=1&fields=a,b
//	POST  /items/{collection}
//	PATCH /items/{collection}/{id}
//
// Responses wrap payloads in {"data": ...}; failures carry {"errors": [...]}.
type RemoteStore struct {
	baseURL string
	client  *http.Client
	creds   CredentialSource
	naming  schema.Namer
}

func NewRemoteStore(baseURL string, timeout time.Duration, creds CredentialSource) *RemoteStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		creds:   creds,
		naming:  schema.NamingStrategy{},
	}
}

type remoteEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type remoteErrorBody struct {
	Status   int `json:"status"`
	Response *struct {
		Status int `json:"status"`
	} `json:"response"`
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code   string `json:"code"`
			Status int    `json:"status"`
		} `json:"extensions"`
	} `json:"errors"`
	Message string `json:"message"`
}

var unauthorizedCodes = map[string]bool{
	"INVALID_CREDENTIALS": true,
	"TOKEN_EXPIRED":       true,
	"INVALID_TOKEN":       true,
	"FORBIDDEN":           true,
}

var unauthorizedPhrases = []string{"unauthorized", "forbidden", "token expired", "invalid token", "not authenticated"}

func (s *RemoteStore) Find(ctx context.Context, collection string, q Query, dest any) error {
	params := s.queryParams(q)
	endpoint := fmt.Sprintf("%s/items/%s", s.baseURL, url.PathEscape(collection))
	if enc := params.Encode(); enc != "" {
		endpoint += "?" + enc
	}
	data, err := s.do(ctx, "find", collection, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if len(data) == 0 || string(data) == "null" {
		data = []byte("[]")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return newError(KindUnavailable, "find", collection, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (s *RemoteStore) Create(ctx context.Context, collection string, item any) error {
	body, err := json.Marshal(item)
	if err != nil {
		return newError(KindUnavailable, "create", collection, err)
	}
	endpoint := fmt.Sprintf("%s/items/%s", s.baseURL, url.PathEscape(collection))
	data, err := s.do(ctx, "create", collection, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, item); err != nil {
		return newError(KindUnavailable, "create", collection, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (s *RemoteStore) Update(ctx context.Context, collection string, id uint, fields Fields) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return newError(KindUnavailable, "update", collection, err)
	}
	endpoint := fmt.Sprintf("%s/items/%s/%d", s.baseURL, url.PathEscape(collection), id)
	_, err = s.do(ctx, "update", collection, http.MethodPatch, endpoint, body)
	return err
}

func (s *RemoteStore) queryParams(q Query) url.Values {
	params := url.Values{}
	for _, c := range q.Filters {
		if c.Op == OpNull {
			params.Set(fmt.Sprintf("filter[%s][_null]", c.Field), "true")
			continue
		}
		params.Set(fmt.Sprintf("filter[%s][_eq]", c.Field), formatValue(c.Value))
	}
	if len(q.Sort) > 0 {
		params.Set("sort", strings.Join(q.Sort, ","))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	fields := append([]string(nil), q.Fields...)
	if len(q.Expand) > 0 {
		if len(fields) == 0 {
			fields = append(fields, "*")
		}
		for _, rel := range q.Expand {
			fields = append(fields, s.expandPaths(rel)...)
		}
	}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	return params
}

// expandPaths turns "Parts.Questions" into "parts.*" and "parts.questions.*".
func (s *RemoteStore) expandPaths(rel string) []string {
	var (
		out    []string
		prefix []string
	)
	for _, seg := range strings.Split(rel, ".") {
		prefix = append(prefix, s.naming.ColumnName("", seg))
		out = append(out, strings.Join(prefix, ".")+".*")
	}
	return out
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case *uint:
		if x == nil {
			return ""
		}
		return strconv.FormatUint(uint64(*x), 10)
	case *string:
		if x == nil {
			return ""
		}
		return *x
	default:
		return fmt.Sprint(v)
	}
}

func (s *RemoteStore) do(ctx context.Context, op, collection, method, endpoint string, body []byte) (json.RawMessage, error) {
	token, err := s.creds.Credential(ctx)
	if err != nil {
		return nil, newError(KindCredential, op, collection, err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, newError(KindUnavailable, op, collection, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, newError(KindUnavailable, op, collection, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindUnavailable, op, collection, err)
	}
	if resp.StatusCode >= 300 {
		kind, msg := classifyRemote(resp.StatusCode, raw)
		return nil, newError(kind, op, collection, fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
	if resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return nil, nil
	}

	var env remoteEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, newError(KindUnavailable, op, collection, fmt.Errorf("decode envelope: %w", err))
	}
	return env.Data, nil
}

// classifyRemote maps a failed response to a Kind, looking at the status
// code, nested status fields, error extension codes and finally the message.
func classifyRemote(status int, raw []byte) (Kind, string) {
	var body remoteErrorBody
	_ = json.Unmarshal(raw, &body)

	msg := body.Message
	if len(body.Errors) > 0 {
		msg = body.Errors[0].Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	statuses := []int{status, body.Status}
	if body.Response != nil {
		statuses = append(statuses, body.Response.Status)
	}
	for _, e := range body.Errors {
		statuses = append(statuses, e.Extensions.Status)
		if unauthorizedCodes[strings.ToUpper(e.Extensions.Code)] {
			return KindUnauthorized, msg
		}
	}
	for _, st := range statuses {
		if st == http.StatusUnauthorized || st == http.StatusForbidden {
			return KindUnauthorized, msg
		}
	}
	lower := strings.ToLower(msg)
	for _, phrase := range unauthorizedPhrases {
		if strings.Contains(lower, phrase) {
			return KindUnauthorized, msg
		}
	}

	switch status {
	case http.StatusNotFound:
		return KindNotFound, msg
	case http.StatusConflict:
		return KindConflict, msg
	}
	return KindUnavailable, msg
}
