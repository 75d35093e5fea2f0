package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/naveenspark/uitam/pkg/domain"
)

func assetPath(id int64) string {
	return "/assets/" + strconv.FormatInt(id, 10)
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// ListAssets fetches assets. Filters are applied server-side.
func (c *Client) ListAssets(ctx context.Context, f domain.AssetFilter) ([]domain.Asset, error) {
	var assets []domain.Asset
	if err := c.get(ctx, OpListAssets, withQuery("/assets", f.Values()), &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// GetAsset fetches a single asset by ID.
func (c *Client) GetAsset(ctx context.Context, id int64) (*domain.Asset, error) {
	var asset domain.Asset
	if err := c.get(ctx, OpGetAsset, assetPath(id), &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// CreateAsset creates a new asset.
func (c *Client) CreateAsset(ctx context.Context, in domain.AssetInput) (*domain.Asset, error) {
	var created domain.Asset
	if err := c.doRequest(ctx, OpCreateAsset, http.MethodPost, "/assets", nil, in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAsset replaces the given fields of an asset.
func (c *Client) UpdateAsset(ctx context.Context, id int64, in domain.AssetInput) (*domain.Asset, error) {
	var updated domain.Asset
	if err := c.doRequest(ctx, OpUpdateAsset, http.MethodPut, assetPath(id), nil, in, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAsset deletes an asset and returns the removed record.
func (c *Client) DeleteAsset(ctx context.Context, id int64) (*domain.Asset, error) {
	var deleted domain.Asset
	if err := c.doRequest(ctx, OpDeleteAsset, http.MethodDelete, assetPath(id), nil, nil, &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}

// ListAssetsByCategory fetches the assets in one category.
func (c *Client) ListAssetsByCategory(ctx context.Context, category string, f domain.AssetFilter) ([]domain.Asset, error) {
	var assets []domain.Asset
	path := withQuery("/assets/category/"+url.PathEscape(category), f.Values())
	if err := c.get(ctx, OpListAssetsCategory, path, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}
