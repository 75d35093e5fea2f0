package domain

import (
	"net/url"
	"strconv"
	"time"
)

// Asset is an inventory record as returned by the catalog API.
type Asset struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	AssetTag        string     `json:"asset_tag"`
	Category        string     `json:"category"`
	Brand           string     `json:"brand,omitempty"`
	Model           string     `json:"model,omitempty"`
	SerialNumber    string     `json:"serial_number,omitempty"`
	PurchaseDate    *time.Time `json:"purchase_date,omitempty"`
	PurchasePrice   *float64   `json:"purchase_price,omitempty"`
	Location        string     `json:"location,omitempty"`
	Status          string     `json:"status"`
	Description     string     `json:"description,omitempty"`
	IPAddress       string     `json:"ip_address,omitempty"`
	MACAddress      string     `json:"mac_address,omitempty"`
	OperatingSystem string     `json:"operating_system,omitempty"`
	AssignedUserID  *int64     `json:"assigned_user_id,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// AssetInput is the payload for creating or updating an asset.
// Fields are passed through to the server unvalidated; nil fields are omitted.
type AssetInput struct {
	Name            *string    `json:"name,omitempty"`
	AssetTag        *string    `json:"asset_tag,omitempty"`
	Category        *string    `json:"category,omitempty"`
	Brand           *string    `json:"brand,omitempty"`
	Model           *string    `json:"model,omitempty"`
	SerialNumber    *string    `json:"serial_number,omitempty"`
	PurchaseDate    *time.Time `json:"purchase_date,omitempty"`
	PurchasePrice   *float64   `json:"purchase_price,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Status          *string    `json:"status,omitempty"`
	Description     *string    `json:"description,omitempty"`
	IPAddress       *string    `json:"ip_address,omitempty"`
	MACAddress      *string    `json:"mac_address,omitempty"`
	OperatingSystem *string    `json:"operating_system,omitempty"`
	AssignedUserID  *int64     `json:"assigned_user_id,omitempty"`
}

// AssetFilter holds the optional listing parameters. Filtering happens server-side.
type AssetFilter struct {
	Skip     int
	Limit    int
	Category string
	Status   string
	Search   string
}

// Values encodes the non-empty fields as query parameters.
func (f AssetFilter) Values() url.Values {
	v := url.Values{}
	if f.Skip > 0 {
		v.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	return v
}

// Categories are the asset categories offered as list filters.
var Categories = []string{"Computer", "Monitor", "Printer", "Network"}

// Statuses are the asset statuses offered as list filters.
var Statuses = []string{"Active", "Inactive", "Under Repair", "Disposed"}
