package bsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ethereum/go-ethereum/common"
	bsapi "github.com/nodeset-org/hyperdrive-bsteth/shared/api"
)

// Client for the local signing endpoint, doing what the browser signing app does
type SignerClient struct {
	baseUrl    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// Creates a new signer client instance
func NewSignerClient(baseUrl *url.URL, logger *slog.Logger) *SignerClient {
	return &SignerClient{
		baseUrl:    baseUrl,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Get the pending transaction
func (c *SignerClient) GetParams(ctx context.Context) (*bsapi.SignerParams, error) {
	params := new(bsapi.SignerParams)
	err := c.sendGetRequest(ctx, "params", nil, params)
	if err != nil {
		return nil, err
	}
	return params, nil
}

// Report that the wallet sent the transaction
func (c *SignerClient) ReportTxHash(ctx context.Context, txHash common.Hash) (*bsapi.SignerDoneData, error) {
	return c.reportDone(ctx, txHash.Hex())
}

// Report that the user rejected the transaction
func (c *SignerClient) ReportRejected(ctx context.Context) (*bsapi.SignerDoneData, error) {
	return c.reportDone(ctx, bsapi.RejectedTxHash)
}

func (c *SignerClient) reportDone(ctx context.Context, txHash string) (*bsapi.SignerDoneData, error) {
	args := url.Values{}
	args.Set("txHash", txHash)
	data := new(bsapi.SignerDoneData)
	err := c.sendGetRequest(ctx, "done", args, data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Submit a GET request to the endpoint and decode the JSON response
func (c *SignerClient) sendGetRequest(ctx context.Context, path string, args url.Values, result any) error {
	requestUrl := c.baseUrl.JoinPath(path)
	if args != nil {
		requestUrl.RawQuery = args.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl.String(), nil)
	if err != nil {
		return fmt.Errorf("error creating request for /%s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.logger.Debug("Sending signer request", slog.String("url", requestUrl.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request to /%s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response from /%s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request to /%s failed with status %d: %s", path, resp.StatusCode, string(body))
	}
	err = json.Unmarshal(body, result)
	if err != nil {
		return fmt.Errorf("error deserializing response from /%s: %w", path, err)
	}
	return nil
}
