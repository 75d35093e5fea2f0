package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/naveenspark/uitam/internal/browser"
	"github.com/naveenspark/uitam/pkg/domain"
)

// AssetsCmd groups the asset subcommands.
type AssetsCmd struct {
	List   AssetsListCmd   `cmd:"" help:"List assets."`
	Get    AssetsGetCmd    `cmd:"" help:"Show one asset."`
	Create AssetsCreateCmd `cmd:"" help:"Create an asset."`
	Update AssetsUpdateCmd `cmd:"" help:"Update an asset."`
	Delete AssetsDeleteCmd `cmd:"" help:"Delete an asset."`
	Open   AssetsOpenCmd   `cmd:"" help:"Open an asset in the web UI."`
}

// AssetsListCmd lists assets, optionally filtered server-side.
type AssetsListCmd struct {
	Category string `help:"Only this category. Uses the category endpoint."`
	Status   string `help:"Only this status."`
	Search   string `help:"Free-text search."`
	Skip     int    `help:"Records to skip." default:"0"`
	Limit    int    `help:"Maximum records to return." default:"100"`
	JSON     bool   `help:"Print JSON instead of a table."`
}

func (l *AssetsListCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx, false)
	if err != nil {
		return err
	}
	defer e.Close()
	if _, err := e.requireSession(ctx); err != nil {
		return err
	}

	f := domain.AssetFilter{Skip: l.Skip, Limit: l.Limit, Status: l.Status, Search: l.Search}
	var assets []domain.Asset
	if l.Category != "" {
		assets, err = e.client.ListAssetsByCategory(ctx, l.Category, f)
	} else {
		assets, err = e.client.ListAssets(ctx, f)
	}
	if err != nil {
		return err
	}

	if l.JSON {
		return writeJSON(globals.Stdout, assets)
	}
	printAssets(globals.Stdout, assets)
	return nil
}

// AssetsGetCmd prints one asset.
type AssetsGetCmd struct {
	ID   int64 `arg:"" help:"Asset id."`
	JSON bool  `help:"Print JSON."`
}

func (g *AssetsGetCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx, false)
	if err != nil {
		return err
	}
	defer e.Close()
	if _, err := e.requireSession(ctx); err != nil {
		return err
	}

	a, err := e.client.GetAsset(ctx, g.ID)
	if err != nil {
		return err
	}
	if g.JSON {
		return writeJSON(globals.Stdout, a)
	}
	printAsset(globals.Stdout, a)
	return nil
}

// AssetFields are the mutation flags shared by create and update. A JSON
// file supplies the base payload; flags that are set override it.
type AssetFields struct {
	File            string   `short:"f" help:"JSON payload file, - for stdin." placeholder:"FILE"`
	Name            string   `help:"Display name."`
	Tag             string   `help:"Asset tag."`
	Category        string   `help:"Category, e.g. Computer."`
	Brand           string   `help:"Brand."`
	Model           string   `help:"Model."`
	Serial          string   `help:"Serial number."`
	PurchaseDate    string   `name:"purchase-date" help:"Purchase date (YYYY-MM-DD)."`
	Price           *float64 `help:"Purchase price."`
	Location        string   `help:"Location."`
	Status          string   `help:"Status, e.g. Active."`
	Description     string   `help:"Free-text description."`
	IP              string   `name:"ip" help:"IP address."`
	MAC             string   `name:"mac" help:"MAC address."`
	OperatingSystem string   `name:"os" help:"Operating system."`
	AssignedUser    *int64   `name:"assigned-user" help:"Assigned user id."`
}

// Input builds the payload. stdin is read when File is "-".
func (f *AssetFields) Input(stdin io.Reader) (domain.AssetInput, error) {
	var in domain.AssetInput

	if f.File != "" {
		var r io.Reader = stdin
		if f.File != "-" {
			file, err := os.Open(f.File)
			if err != nil {
				return in, fmt.Errorf("open payload: %w", err)
			}
			defer file.Close()
			r = file
		}
		if err := json.NewDecoder(r).Decode(&in); err != nil {
			return in, fmt.Errorf("decode payload: %w", err)
		}
	}

	set := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	set(&in.Name, f.Name)
	set(&in.AssetTag, f.Tag)
	set(&in.Category, f.Category)
	set(&in.Brand, f.Brand)
	set(&in.Model, f.Model)
	set(&in.SerialNumber, f.Serial)
	set(&in.Location, f.Location)
	set(&in.Status, f.Status)
	set(&in.Description, f.Description)
	set(&in.IPAddress, f.IP)
	set(&in.MACAddress, f.MAC)
	set(&in.OperatingSystem, f.OperatingSystem)

	if f.PurchaseDate != "" {
		d, err := time.Parse(time.DateOnly, f.PurchaseDate)
		if err != nil {
			return in, fmt.Errorf("--purchase-date: %w", err)
		}
		in.PurchaseDate = &d
	}
	if f.Price != nil {
		in.PurchasePrice = f.Price
	}
	if f.AssignedUser != nil {
		in.AssignedUserID = f.AssignedUser
	}
	return in, nil
}

// AssetsCreateCmd creates an asset.
type AssetsCreateCmd struct {
	AssetFields `embed:""`
	JSON        bool `help:"Print the created asset as JSON."`
}

func (c *AssetsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	in, err := c.Input(globals.Stdin)
	if err != nil {
		return err
	}

	e, err := globals.open(ctx, false)
	if err != nil {
		return err
	}
	defer e.Close()
	if _, err := e.requireSession(ctx); err != nil {
		return err
	}

	a, err := e.client.CreateAsset(ctx, in)
	if err != nil {
		return err
	}
	if c.JSON {
		return writeJSON(globals.Stdout, a)
	}
	fmt.Fprintf(globals.Stdout, "Created asset %d (%s)\n", a.ID, a.AssetTag)
	return nil
}

// AssetsUpdateCmd replaces the given fields of an asset.
type AssetsUpdateCmd struct {
	ID          int64 `arg:"" help:"Asset id."`
	AssetFields `embed:""`
	JSON        bool `help:"Print the updated asset as JSON."`
}

func (u *AssetsUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	in, err := u.Input(globals.Stdin)
	if err != nil {
		return err
	}

	e, err := globals.open(ctx, false)
	if err != nil {
		return err
	}
	defer e.Close()
	if _, err := e.requireSession(ctx); err != nil {
		return err
	}

	a, err := e.client.UpdateAsset(ctx, u.ID, in)
	if err != nil {
		return err
	}
	if u.JSON {
		return writeJSON(globals.Stdout, a)
	}
	fmt.Fprintf(globals.Stdout, "Updated asset %d (%s)\n", a.ID, a.AssetTag)
	return nil
}

// AssetsDeleteCmd deletes an asset.
type AssetsDeleteCmd struct {
	ID int64 `arg:"" help:"Asset id."`
}

func (d *AssetsDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx, false)
	if err != nil {
		return err
	}
	defer e.Close()
	if _, err := e.requireSession(ctx); err != nil {
		return err
	}

	a, err := e.client.DeleteAsset(ctx, d.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(globals.Stdout, "Deleted asset %d (%s)\n", a.ID, a.AssetTag)
	return nil
}

// AssetsOpenCmd opens the asset page of the web UI.
type AssetsOpenCmd struct {
	ID int64 `arg:"" help:"Asset id."`
}

func (o *AssetsOpenCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx, false)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.cfg.WebURL == "" {
		return fmt.Errorf("web_url is not configured")
	}
	u, err := browser.AssetURL(e.cfg.WebURL, o.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(globals.Stdout, u)
	return openURL(u)
}

var openURL = browser.Open

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAssets(w io.Writer, assets []domain.Asset) {
	if len(assets) == 0 {
		fmt.Fprintln(w, "No assets found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTAG\tNAME\tCATEGORY\tSTATUS\tLOCATION")
	for _, a := range assets {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.AssetTag, a.Name, a.Category, a.Status, a.Location)
	}
	tw.Flush()
}

func printAsset(w io.Writer, a *domain.Asset) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", k, v)
		}
	}
	row("ID", strconv.FormatInt(a.ID, 10))
	row("Name", a.Name)
	row("Tag", a.AssetTag)
	row("Category", a.Category)
	row("Status", a.Status)
	row("Brand", a.Brand)
	row("Model", a.Model)
	row("Serial", a.SerialNumber)
	row("Location", a.Location)
	if a.PurchaseDate != nil {
		row("Purchased", a.PurchaseDate.Format(time.DateOnly))
	}
	if a.PurchasePrice != nil {
		row("Price", strconv.FormatFloat(*a.PurchasePrice, 'f', 2, 64))
	}
	row("IP", a.IPAddress)
	row("MAC", a.MACAddress)
	row("OS", a.OperatingSystem)
	if a.AssignedUserID != nil {
		row("Assigned", "user #"+strconv.FormatInt(*a.AssignedUserID, 10))
	}
	row("Description", strings.TrimSpace(a.Description))
	tw.Flush()
}
