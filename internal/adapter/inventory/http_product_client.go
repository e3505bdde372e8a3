package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	defaultInventoryURL = "http://localhost:8081"
	maxParallelLookups  = 8
)

type productPayload struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// HTTPProductClient resolves product snapshots through the inventory
// service's GET /v1/products/{id}, one request per id in parallel.
type HTTPProductClient struct {
	baseURL string
	client  *http.Client
}

var _ interfaces.IProductLookup = (*HTTPProductClient)(nil)

func NewHTTPProductClient(baseURL string, client *http.Client) *HTTPProductClient {
	if baseURL == "" {
		baseURL = defaultInventoryURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProductClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// GetProducts returns the snapshots of the known ids; unknown ids are
// omitted. The first transport failure cancels the remaining requests.
func (c *HTTPProductClient) GetProducts(ctx context.Context, ids []string) ([]entities.ProductSnapshot, error) {
	var (
		mu    sync.Mutex
		found = make(map[string]entities.ProductSnapshot, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLookups)
	for _, id := range ids {
		g.Go(func() error {
			snap, ok, err := c.getProduct(gctx, id)
			if err != nil || !ok {
				return err
			}
			mu.Lock()
			found[id] = snap
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]entities.ProductSnapshot, 0, len(found))
	for _, id := range ids {
		if snap, ok := found[id]; ok {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (c *HTTPProductClient) getProduct(ctx context.Context, id string) (entities.ProductSnapshot, bool, error) {
	endpoint := c.baseURL + "/v1/products/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entities.ProductSnapshot{}, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return entities.ProductSnapshot{}, false, fmt.Errorf("%w: get product %s: %v", interfaces.ErrDependencyTimeout, id, err)
		}
		return entities.ProductSnapshot{}, false, fmt.Errorf("%w: get product %s: %v", interfaces.ErrDependencyUnavailable, id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return entities.ProductSnapshot{}, false, nil
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return entities.ProductSnapshot{}, false, fmt.Errorf("%w: get product %s: status %d", interfaces.ErrDependencyUnavailable, id, resp.StatusCode)
	}

	var p productPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return entities.ProductSnapshot{}, false, fmt.Errorf("%w: decode product %s: %v", interfaces.ErrDependencyUnavailable, id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return entities.ProductSnapshot{ProductID: p.ID, Name: p.Name, Price: p.Price}, true, nil
}
