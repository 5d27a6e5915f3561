package archivematica

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"preservation-api/config"
	"preservation-api/internal/domain/document"
	"preservation-api/internal/domain/transfer"
)

const (
	maxErrBodySize = 1 << 12 // 4 KB

	pathStartTransfer = "/api/transfer/start_transfer/"
	pathApprove       = "/api/transfer/approve/"
	pathUnapproved    = "/api/transfer/unapproved/"
	pathCompleted     = "/api/transfer/completed/"
	pathCopyMetadata  = "/api/ingest/copy_metadata_files/"

	RemovedMessage = "Transferência removida com sucesso"
)

type (
	Client struct {
		httpClient *http.Client
		// startClient never follows redirects: a redirected start lands on an unauthenticated page.
		startClient  *http.Client
		dashboardURL string
		storageURL   string
		username     string
		apiKey       string
		logger       *zap.Logger
		mCounter     *prometheus.CounterVec
	}

	startResponse struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
		UUID    string `json:"uuid"`
	}

	listedTransfer struct {
		UUID      string `json:"uuid"`
		Directory string `json:"directory"`
		Type      string `json:"type"`
	}

	listResponse struct {
		Status  string           `json:"status"`
		Message string           `json:"message"`
		Results []listedTransfer `json:"results"`
	}
)

func New(cfg config.Archivematica, logger *zap.Logger, mCounter *prometheus.CounterVec) *Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	startClient := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Client{
		httpClient:   httpClient,
		startClient:  startClient,
		dashboardURL: strings.TrimRight(cfg.DashboardURL, "/"),
		storageURL:   strings.TrimRight(cfg.StorageURL, "/"),
		username:     cfg.Username,
		apiKey:       cfg.APIKey,
		logger:       logger.With(zap.String("component", "archivematica_client")),
		mCounter:     mCounter,
	}
}

func (c *Client) dashboardEndpoint(endpoint string) string {
	return c.authenticated(c.dashboardURL + endpoint)
}

func (c *Client) storageEndpoint(endpoint string) string {
	return c.authenticated(c.storageURL + endpoint)
}

func (c *Client) authenticated(raw string) string {
	q := url.Values{}
	q.Set("username", c.username)
	q.Set("api_key", c.apiKey)
	return raw + "?" + q.Encode()
}

func (c *Client) StartTransfer(ctx context.Context, req transfer.Request) (string, error) {
	if strings.TrimSpace(req.Name) == "" || len(req.Paths) == 0 {
		return "", transfer.ErrValidation
	}
	typ := req.Type
	if typ == "" {
		typ = transfer.TypeStandard
	}
	if !transfer.IsValidType(typ) {
		return "", transfer.ErrInvalidType
	}

	form := url.Values{}
	form.Set("name", req.Name)
	form.Set("type", typ)
	form.Set("accession", req.Accession)
	for i, p := range req.Paths {
		form.Set("paths["+strconv.Itoa(i)+"]", p)
	}
	rowIDs := req.RowIDs
	if len(rowIDs) == 0 {
		rowIDs = []string{""}
	}
	for i, id := range rowIDs {
		form.Set("row_ids["+strconv.Itoa(i)+"]", id)
	}

	endpoint := c.dashboardEndpoint(pathStartTransfer)
	c.logger.Debug("starting transfer", zap.String("name", req.Name), zap.Int("paths", len(req.Paths)))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", c.fail("transfer start", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out startResponse
	if err = c.do(c.startClient, httpReq, "transfer start", &out); err != nil {
		return "", err
	}
	if out.Error {
		c.logger.Error("transfer start rejected", zap.String("name", req.Name), zap.String("message", out.Message))
		return "", c.count(transfer.NewRemoteError("transfer start"))
	}
	if out.UUID == "" {
		c.logger.Error("transfer start response without uuid", zap.String("name", req.Name))
		return "", c.count(transfer.NewRemoteError("transfer start"))
	}

	return out.UUID, nil
}

func (c *Client) ApproveTransfer(ctx context.Context, directory, typ string) (transfer.Payload, error) {
	if typ == "" {
		typ = transfer.TypeStandard
	}
	if !transfer.IsValidType(typ) {
		return nil, transfer.ErrInvalidType
	}
	form := url.Values{}
	form.Set("type", typ)
	form.Set("directory", directory)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.dashboardEndpoint(pathApprove), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, c.fail("transfer approve", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out transfer.Payload
	if err = c.do(c.httpClient, httpReq, "transfer approve", &out); err != nil {
		return nil, err
	}

	return out, nil
}

// AttachMetadata sends content as a base64 "<location>:<content>" source path.
func (c *Client) AttachMetadata(ctx context.Context, sipID, sourceLocationID, content string) (transfer.Payload, error) {
	sourcePath := base64.StdEncoding.EncodeToString([]byte(sourceLocationID + ":" + content))
	body, err := json.Marshal(map[string]any{
		"sip_uuid":     sipID,
		"source_paths": []string{sourcePath},
	})
	if err != nil {
		return nil, c.fail("metadata attach", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.dashboardEndpoint(pathCopyMetadata), bytes.NewReader(body))
	if err != nil {
		return nil, c.fail("metadata attach", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var out transfer.Payload
	if err = c.do(c.httpClient, httpReq, "metadata attach", &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) GetTransferStatus(ctx context.Context, transferID string) (*transfer.Status, error) {
	return c.getStatus(ctx, "/api/transfer/status/"+url.PathEscape(transferID)+"/", "transfer status")
}

func (c *Client) GetIngestStatus(ctx context.Context, id string) (*transfer.Status, error) {
	return c.getStatus(ctx, "/api/ingest/status/"+url.PathEscape(id)+"/", "ingest status")
}

func (c *Client) getStatus(ctx context.Context, endpoint, op string) (*transfer.Status, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.dashboardEndpoint(endpoint), nil)
	if err != nil {
		return nil, c.fail(op, err)
	}

	out := new(transfer.Status)
	if err = c.do(c.httpClient, httpReq, op, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) DownloadArtifact(ctx context.Context, transferID string) ([]byte, error) {
	endpoint := c.storageEndpoint("/api/v2beta/file/" + url.PathEscape(transferID) + "/download/")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, c.fail("artifact download", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.fail("artifact download", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.failResponse("artifact download", resp)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail("artifact download", err)
	}

	return b, nil
}

func (c *Client) ProcessArtifact(ctx context.Context, transferID, processingConfig string) (transfer.Payload, error) {
	if processingConfig == "" {
		processingConfig = transfer.DefaultProcessingConfig
	}
	body, err := json.Marshal(map[string]string{"processing_config": processingConfig})
	if err != nil {
		return nil, c.fail("artifact process", err)
	}

	endpoint := c.dashboardEndpoint("/api/ingest/process/" + url.PathEscape(transferID) + "/")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, c.fail("artifact process", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var out transfer.Payload
	if err = c.do(c.httpClient, httpReq, "artifact process", &out); err != nil {
		return nil, err
	}

	return out, nil
}

// ListUnapproved returns the aggregate status only when it reads FALHA, nil otherwise.
func (c *Client) ListUnapproved(ctx context.Context) (*string, error) {
	out, err := c.list(ctx, pathUnapproved, "unapproved list")
	if err != nil {
		return nil, err
	}
	return matchAggregate(out, document.StatusFailed), nil
}

// ListCompleted returns the aggregate status only when it reads PRESERVADO, nil otherwise.
func (c *Client) ListCompleted(ctx context.Context) (*string, error) {
	out, err := c.list(ctx, pathCompleted, "completed list")
	if err != nil {
		return nil, err
	}
	return matchAggregate(out, document.StatusPreserved), nil
}

func matchAggregate(out *listResponse, want document.Status) *string {
	st, err := document.ParseStatus(out.Status)
	if err != nil || st != want {
		return nil
	}
	s := st.String()
	return &s
}

func (c *Client) list(ctx context.Context, endpoint, op string) (*listResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.dashboardEndpoint(endpoint), nil)
	if err != nil {
		return nil, c.fail(op, err)
	}

	out := new(listResponse)
	if err = c.do(c.httpClient, httpReq, op, out); err != nil {
		return nil, err
	}

	return out, nil
}

// RemoveTransfer deletes a transfer only if it is listed as unapproved.
func (c *Client) RemoveTransfer(ctx context.Context, transferID string) (string, error) {
	out, err := c.list(ctx, pathUnapproved, "unapproved list")
	if err != nil {
		return "", err
	}

	found := false
	for _, t := range out.Results {
		if t.UUID == transferID {
			found = true
			break
		}
	}
	if !found {
		c.logger.Warn("transfer not in unapproved list", zap.String("transfer_id", transferID))
		return "", transfer.ErrTransferNotFound
	}

	endpoint := c.dashboardEndpoint("/api/transfer/" + url.PathEscape(transferID) + "/delete/")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return "", c.fail("transfer remove", err)
	}
	if err = c.do(c.httpClient, httpReq, "transfer remove", nil); err != nil {
		return "", err
	}

	return RemovedMessage, nil
}

// do executes the request and decodes a JSON body into out when out is not nil.
func (c *Client) do(hc *http.Client, req *http.Request, op string, out any) error {
	resp, err := hc.Do(req)
	if err != nil {
		return c.fail(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.failResponse(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(op, fmt.Errorf("decode response: %w", err))
	}

	return nil
}

func (c *Client) fail(op string, err error) error {
	c.logger.Error("archivematica request error", zap.String("op", op), zap.Error(err))
	return c.count(transfer.NewRemoteError(op))
}

func (c *Client) failResponse(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
	c.logger.Error("archivematica responded with error",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.String("body", string(body)),
	)
	return c.count(transfer.NewRemoteError(op))
}

func (c *Client) count(err error) error {
	if c.mCounter != nil {
		c.mCounter.WithLabelValues("archivematica_errors_total").Inc()
	}
	return err
}
