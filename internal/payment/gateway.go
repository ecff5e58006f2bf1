package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway charges an external payment provider. When none is configured the
// workflow runs in mock mode and honours the per-request mockSuccess flag
// instead.
type Gateway interface {
	Charge(amount float64, method string) (string, error)
}

// HTTPGateway posts charges to a provider endpoint authenticated with a
// secret key.
type HTTPGateway struct {
	url    string
	key    string
	client *http.Client
}

func NewHTTPGateway(url, key string) *HTTPGateway {
	return &HTTPGateway{
		url:    url,
		key:    key,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type chargeRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

type chargeResponse struct {
	TransactionID string `json:"transactionId"`
	Error         string `json:"error,omitempty"`
}

func (g *HTTPGateway) Charge(amount float64, method string) (string, error) {
	body, err := json.Marshal(chargeRequest{Amount: amount, Method: method})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, g.url+"/charges", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.key)

	res, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	var out chargeResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		if out.Error != "" {
			return "", fmt.Errorf("gateway declined: %s", out.Error)
		}
		return "", fmt.Errorf("gateway returned status %d", res.StatusCode)
	}
	return out.TransactionID, nil
}
