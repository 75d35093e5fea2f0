package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/uitam/pkg/domain"
)

// AssetService is the part of the resource client the UI uses.
type AssetService interface {
	ListAssets(ctx context.Context, f domain.AssetFilter) ([]domain.Asset, error)
	ListAssetsByCategory(ctx context.Context, category string, f domain.AssetFilter) ([]domain.Asset, error)
	GetAsset(ctx context.Context, id int64) (*domain.Asset, error)
	DeleteAsset(ctx context.Context, id int64) (*domain.Asset, error)
}

// -- messages --

type assetsLoadedMsg struct {
	seq    int
	assets []domain.Asset
	err    error
}

type openDetailMsg struct {
	id int64
}

type logoutRequestMsg struct{}

// -- model --

type listModel struct {
	service   AssetService
	assets    []domain.Asset
	cursor    int
	filter    domain.AssetFilter
	searching bool
	query     string
	loading   bool
	err       string
	seq       int
	width     int
	height    int
}

func newListModel(s AssetService) listModel {
	return listModel{service: s, filter: domain.AssetFilter{Limit: pageSize}}
}

// reload fetches the current page. Responses from earlier reloads are
// ignored once a newer one has been issued.
func (m listModel) reload() (listModel, tea.Cmd) {
	m.seq++
	m.loading = true
	svc, seq, f := m.service, m.seq, m.filter
	return m, func() tea.Msg {
		var (
			assets []domain.Asset
			err    error
		)
		if f.Category != "" {
			category := f.Category
			f.Category = ""
			assets, err = svc.ListAssetsByCategory(context.Background(), category, f)
		} else {
			assets, err = svc.ListAssets(context.Background(), f)
		}
		return assetsLoadedMsg{seq: seq, assets: assets, err: err}
	}
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case assetsLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.assets = msg.assets
		if m.cursor >= len(m.assets) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m listModel) handleSearchKey(msg tea.KeyMsg) (listModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.query = m.filter.Search
	case "enter":
		m.searching = false
		m.filter.Search = strings.TrimSpace(m.query)
		m.filter.Skip = 0
		m.cursor = 0
		return m.reload()
	default:
		m.query = editRune(m.query, msg.String())
	}
	return m, nil
}

func (m listModel) handleKey(msg tea.KeyMsg) (listModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.assets)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.assets) {
			id := m.assets[m.cursor].ID
			return m, func() tea.Msg { return openDetailMsg{id: id} }
		}
	case "/":
		m.searching = true
		m.query = m.filter.Search
	case "c":
		m.filter.Category = cycle(domain.Categories, m.filter.Category)
		m.filter.Skip = 0
		m.cursor = 0
		return m.reload()
	case "s":
		m.filter.Status = cycle(domain.Statuses, m.filter.Status)
		m.filter.Skip = 0
		m.cursor = 0
		return m.reload()
	case "n":
		if len(m.assets) == pageSize {
			m.filter.Skip += pageSize
			m.cursor = 0
			return m.reload()
		}
	case "p":
		if m.filter.Skip > 0 {
			m.filter.Skip = max(m.filter.Skip-pageSize, 0)
			m.cursor = 0
			return m.reload()
		}
	case "r":
		return m.reload()
	case "L":
		return m, func() tea.Msg { return logoutRequestMsg{} }
	}
	return m, nil
}

func (m listModel) filterLine() string {
	var parts []string
	if m.filter.Category != "" {
		parts = append(parts, CategoryStyle(m.filter.Category).Render(m.filter.Category))
	}
	if m.filter.Status != "" {
		parts = append(parts, StatusStyle(m.filter.Status).Render(m.filter.Status))
	}
	if m.filter.Search != "" && !m.searching {
		parts = append(parts, searchStyle.Render("/"+m.filter.Search))
	}
	if m.filter.Skip > 0 {
		parts = append(parts, metaStyle.Render(fmt.Sprintf("page %d", m.filter.Skip/pageSize+1)))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, dimStyle.Render(" · "))
}

func (m listModel) View() string {
	var b strings.Builder

	if m.searching {
		b.WriteString(" " + searchStyle.Render("/") + normalStyle.Render(m.query) + accentStyle.Render("█") + "\n")
	} else if line := m.filterLine(); line != "" {
		b.WriteString(line + "\n")
	}

	if m.loading && len(m.assets) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(statusLine(m.err, true) + "  " + dimStyle.Render("r to retry") + "\n")
		return b.String()
	}
	if len(m.assets) == 0 {
		b.WriteString("\n " + dimStyle.Render("no assets match") + "\n")
		return b.String()
	}

	nameWidth := 28
	if m.width > 100 {
		nameWidth = m.width - 72
	}
	b.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("  %-12s %-*s %-10s %-13s %s", "TAG", nameWidth, "NAME", "CATEGORY", "STATUS", "LOCATION")) + "\n")

	for i, a := range m.assets {
		cursor := " "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			nameStyle = selectedStyle
		}
		row := fmt.Sprintf(" %s %s %s %s %s %s",
			cursor,
			metaStyle.Render(padRight(a.AssetTag, 12)),
			nameStyle.Render(padRight(a.Name, nameWidth)),
			CategoryStyle(a.Category).Render(padRight(a.Category, 10)),
			StatusStyle(a.Status).Render(padRight(a.Status, 13)),
			dimStyle.Render(truncStr(orDash(a.Location), 20)),
		)
		b.WriteString(row + "\n")
	}
	if m.loading {
		b.WriteString(" " + dimStyle.Render("refreshing...") + "\n")
	}
	return b.String()
}

func (m listModel) helpKeys() string {
	if m.searching {
		return helpBar([2]string{"enter", "search"}, [2]string{"esc", "cancel"})
	}
	return helpBar(
		[2]string{"j/k", "nav"}, [2]string{"enter", "open"}, [2]string{"/", "search"},
		[2]string{"c", "category"}, [2]string{"s", "status"}, [2]string{"n/p", "page"},
		[2]string{"r", "refresh"}, [2]string{"L", "logout"}, [2]string{"q", "quit"},
	)
}
