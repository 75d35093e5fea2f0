package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/uitam/internal/browser"
	"github.com/naveenspark/uitam/pkg/domain"
)

// -- messages --

type assetLoadedMsg struct {
	seq   int
	asset *domain.Asset
	err   error
}

type assetDeletedMsg struct {
	seq   int
	asset *domain.Asset
	err   error
}

type copyResultMsg struct {
	tag string
	err error
}

type openResultMsg struct {
	err error
}

type closeDetailMsg struct{}

var (
	copyToClipboard = clipboard.WriteAll
	openAsset       = browser.OpenAsset
)

// -- model --

type detailModel struct {
	service  AssetService
	webURL   string
	seq      int
	id       int64
	asset    *domain.Asset
	loading  bool
	confirm  bool
	deleting bool
	err      string
	width    int
}

func newDetailModel(s AssetService, webURL string, seq int, id int64) detailModel {
	return detailModel{service: s, webURL: webURL, seq: seq, id: id, loading: true}
}

func (m detailModel) load() tea.Cmd {
	svc, seq, id := m.service, m.seq, m.id
	return func() tea.Msg {
		a, err := svc.GetAsset(context.Background(), id)
		return assetLoadedMsg{seq: seq, asset: a, err: err}
	}
}

func (m detailModel) remove() tea.Cmd {
	svc, seq, id := m.service, m.seq, m.id
	return func() tea.Msg {
		a, err := svc.DeleteAsset(context.Background(), id)
		return assetDeletedMsg{seq: seq, asset: a, err: err}
	}
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case assetLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.asset = msg.asset

	case assetDeletedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.deleting = false
		if msg.err != nil {
			m.err = msg.err.Error()
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m detailModel) handleKey(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	if m.deleting {
		return m, nil
	}
	key := msg.String()

	if m.confirm {
		m.confirm = false
		if key == "y" {
			m.deleting = true
			m.err = ""
			return m, m.remove()
		}
		return m, nil
	}

	switch key {
	case "esc", "backspace":
		return m, func() tea.Msg { return closeDetailMsg{} }
	case "r":
		m.loading = true
		m.err = ""
		return m, m.load()
	case "y":
		if m.asset != nil && m.asset.AssetTag != "" {
			tag := m.asset.AssetTag
			return m, func() tea.Msg {
				return copyResultMsg{tag: tag, err: copyToClipboard(tag)}
			}
		}
	case "o":
		if m.webURL != "" {
			web, id := m.webURL, m.id
			return m, func() tea.Msg {
				return openResultMsg{err: openAsset(web, id)}
			}
		}
	case "d":
		if m.asset != nil {
			m.confirm = true
		}
	}
	return m, nil
}

func (m detailModel) View() string {
	var b strings.Builder

	if m.loading && m.asset == nil {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.asset == nil {
		b.WriteString(statusLine(m.err, true) + "  " + dimStyle.Render("r to retry") + "\n")
		return b.String()
	}

	a := m.asset
	b.WriteString("\n " + selectedStyle.Render(a.Name) + "  " + metaStyle.Render(a.AssetTag) + "\n")
	b.WriteString(" " + CategoryStyle(a.Category).Render(orDash(a.Category)) + dimStyle.Render(" · ") + StatusStyle(a.Status).Render(orDash(a.Status)) + "\n\n")

	rows := [][2]string{
		{"brand", a.Brand},
		{"model", a.Model},
		{"serial", a.SerialNumber},
		{"location", a.Location},
		{"purchased", formatDate(a.PurchaseDate)},
		{"price", formatPrice(a.PurchasePrice)},
		{"ip", a.IPAddress},
		{"mac", a.MACAddress},
		{"os", a.OperatingSystem},
	}
	if a.AssignedUserID != nil {
		rows = append(rows, [2]string{"assigned", "user #" + strconv.FormatInt(*a.AssignedUserID, 10)})
	}
	if a.UpdatedAt != nil {
		rows = append(rows, [2]string{"updated", formatTime(*a.UpdatedAt)})
	}
	for _, r := range rows {
		fmt.Fprintf(&b, " %s %s\n", sectionHeaderStyle.Render(padRight(r[0], 10)), normalStyle.Render(orDash(r[1])))
	}
	if a.Description != "" {
		b.WriteString("\n " + dimStyle.Render(a.Description) + "\n")
	}

	switch {
	case m.deleting:
		b.WriteString("\n " + dimStyle.Render("deleting...") + "\n")
	case m.confirm:
		b.WriteString("\n " + errorStyle.Render(fmt.Sprintf("delete %s? y to confirm, any key to cancel", orDash(a.AssetTag))) + "\n")
	case m.err != "":
		b.WriteString("\n" + statusLine(m.err, true) + "\n")
	}
	return b.String()
}

func (m detailModel) helpKeys() string {
	return helpBar(
		[2]string{"y", "copy tag"}, [2]string{"o", "open"}, [2]string{"d", "delete"},
		[2]string{"r", "reload"}, [2]string{"esc", "back"},
	)
}
