// Package foodlookup resolves food items with nutrition per 100 g from the
// Open Food Facts database.
package foodlookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
)

const DefaultBaseURL = "https://world.openfoodfacts.org"

const userAgent = "daylog/1.0"

// ErrNoProduct means the database has no usable product for the query.
var ErrNoProduct = errors.New("no product found")

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) base() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}

func (c *Client) get(ctx context.Context, what, target string, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", what, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute %s request: %w", what, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", what, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNoProduct
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s request failed with status %d", what, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", what, err)
	}
	return nil
}

// LookupBarcode returns the product for barcode as a food item.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (model.FoodItem, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return model.FoodItem{}, fmt.Errorf("barcode is required")
	}
	var parsed offResponse
	target := fmt.Sprintf("%s/api/v2/product/%s.json", c.base(), url.PathEscape(barcode))
	if err := c.get(ctx, "barcode lookup", target, &parsed); err != nil {
		return model.FoodItem{}, err
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return model.FoodItem{}, fmt.Errorf("%w for barcode %q", ErrNoProduct, barcode)
	}
	item := toFoodItem(parsed.Product)
	if item.Barcode == "" {
		item.Barcode = barcode
	}
	return item, nil
}

// Search returns up to limit named products matching query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.FoodItem, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{
		"search_terms":  {strings.TrimSpace(query)},
		"search_simple": {"1"},
		"action":        {"process"},
		"json":          {"1"},
		"page_size":     {strconv.Itoa(limit)},
	}
	var parsed offSearchResponse
	if err := c.get(ctx, "food search", c.base()+"/cgi/search.pl?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}
	out := make([]model.FoodItem, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			continue
		}
		out = append(out, toFoodItem(p))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w for query %q", ErrNoProduct, query)
	}
	return out, nil
}

// toFoodItem keeps only per-100 g values; nutrients the product does not
// report stay nil rather than zero.
func toFoodItem(p offProduct) model.FoodItem {
	item := model.FoodItem{
		ID:      strings.TrimSpace(p.Code),
		Name:    strings.TrimSpace(p.ProductName),
		Brand:   strings.TrimSpace(p.Brands),
		Barcode: strings.TrimSpace(p.Code),
		Nutrition: &model.Nutrition{
			Calories:  per100g(p.Nutriments, "energy-kcal"),
			Protein:   per100g(p.Nutriments, "proteins"),
			Carbs:     per100g(p.Nutriments, "carbohydrates"),
			Fat:       per100g(p.Nutriments, "fat"),
			Sugar:     per100g(p.Nutriments, "sugars"),
			Fiber:     per100g(p.Nutriments, "fiber"),
			Sodium:    scaled(per100g(p.Nutriments, "sodium"), 1000),
			Potassium: scaled(per100g(p.Nutriments, "potassium"), 1000),
		},
	}
	if item.ID == "" {
		item.ID = strings.TrimSpace(p.ID)
	}
	return item
}

func per100g(n map[string]any, base string) *float64 {
	if v, ok := parseFloatAny(n[base+"_100g"]); ok {
		return model.Float(v)
	}
	return nil
}

// scaled converts grams to milligrams for sodium and potassium.
func scaled(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	return model.Float(*v * factor)
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	ID          string         `json:"_id"`
	Code        string         `json:"code"`
	ProductName string         `json:"product_name"`
	Brands      string         `json:"brands"`
	Nutriments  map[string]any `json:"nutriments"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}
