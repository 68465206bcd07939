package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/roomcraft/roomcraft/internal/models"
)

// DefaultShopifyAPIVersion is the Storefront API version queried
const DefaultShopifyAPIVersion = "2025-07"

const productsQuery = `query Products($first: Int!, $query: String) {
  products(first: $first, query: $query) {
    edges {
      node {
        id
        title
        description
        productType
        images(first: 1) { edges { node { url } } }
        variants(first: 1) { edges { node { price { amount currencyCode } } } }
      }
    }
  }
}`

// ShopifySource queries one shop through the Storefront GraphQL API
type ShopifySource struct {
	Shop       string
	APIVersion string
	// BaseURL overrides https://{shop}.myshopify.com
	BaseURL     string
	AccessToken string
	httpClient  *http.Client
}

// NewShopifySource creates a source for the given shop handle
func NewShopifySource(shop, apiVersion string, timeout time.Duration) *ShopifySource {
	if apiVersion == "" {
		apiVersion = DefaultShopifyAPIVersion
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ShopifySource{
		Shop:       shop,
		APIVersion: apiVersion,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the shop handle
func (s *ShopifySource) Name() string {
	return s.Shop
}

func (s *ShopifySource) endpoint() string {
	base := s.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.myshopify.com", s.Shop)
	}
	return fmt.Sprintf("%s/api/%s/graphql.json", strings.TrimSuffix(base, "/"), s.APIVersion)
}

type storefrontResponse struct {
	Data *struct {
		Products *struct {
			Edges []struct {
				Node struct {
					ID          string `json:"id"`
					Title       string `json:"title"`
					Description string `json:"description"`
					ProductType string `json:"productType"`
					Images      struct {
						Edges []struct {
							Node struct {
								URL string `json:"url"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"images"`
					Variants struct {
						Edges []struct {
							Node struct {
								Price struct {
									Amount       string `json:"amount"`
									CurrencyCode string `json:"currencyCode"`
								} `json:"price"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"variants"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Search returns at most limit products matching prompt
func (s *ShopifySource) Search(ctx context.Context, prompt string, limit int) ([]models.CatalogItem, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"query": productsQuery,
		"variables": map[string]interface{}{
			"first": limit,
			"query": prompt,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal storefront query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint(), bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create storefront request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.AccessToken != "" {
		req.Header.Set("X-Shopify-Storefront-Access-Token", s.AccessToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", s.Shop, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("storefront %s returned status %d: %s", s.Shop, resp.StatusCode, string(body))
	}

	var sfResp storefrontResponse
	if err := json.NewDecoder(resp.Body).Decode(&sfResp); err != nil {
		return nil, fmt.Errorf("failed to decode storefront response: %w", err)
	}

	if len(sfResp.Errors) > 0 {
		return nil, fmt.Errorf("storefront %s returned error: %s", s.Shop, sfResp.Errors[0].Message)
	}
	if sfResp.Data == nil || sfResp.Data.Products == nil {
		return nil, fmt.Errorf("storefront %s returned no products field", s.Shop)
	}

	items := make([]models.CatalogItem, 0, len(sfResp.Data.Products.Edges))
	for _, edge := range sfResp.Data.Products.Edges {
		node := edge.Node
		item := models.CatalogItem{
			ID:          models.NormalizeID(node.ID),
			Title:       node.Title,
			Description: node.Description,
			Category:    node.ProductType,
			Source:      s.Shop,
		}
		if len(node.Images.Edges) > 0 {
			item.ImageURL = node.Images.Edges[0].Node.URL
		}
		if len(node.Variants.Edges) > 0 {
			item.Price = node.Variants.Edges[0].Node.Price.Amount
			item.CurrencyCode = node.Variants.Edges[0].Node.Price.CurrencyCode
		}
		items = append(items, item)
	}

	return items, nil
}
