package mapview

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/places/internal/auth"
	"github.com/marcus/places/internal/geo"
	"github.com/marcus/places/internal/models"
	"github.com/marcus/places/internal/output"
)

const listPanelWidth = 36

// renderView renders the complete TUI view
func (m Model) renderView() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}

	if !m.auth.Unlocked() {
		return m.renderLock()
	}

	// Handle small terminal sizes gracefully
	if m.Width < MinWidth || m.Height < MinHeight {
		return m.renderCompact()
	}

	if m.Editor != nil {
		return m.overlay(modalStyle.Render(m.Editor.Form.View() + "\n" +
			subtleStyle.Render("enter: next/save  ctrl+s: save  esc: cancel")))
	}
	if m.DetailsOpen {
		return m.overlay(m.renderDetails())
	}

	bodyHeight := m.Height - 4 // status line, search/help footer, borders
	mapWidth := m.Width - listPanelWidth - 4

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		m.wrapPanel("MAP", m.renderMap(mapWidth-4, bodyHeight-2), mapWidth, bodyHeight, true),
		m.wrapPanel("PLACES", m.renderList(listPanelWidth-4, bodyHeight-2), listPanelWidth, bodyHeight, false),
	)

	return lipgloss.JoinVertical(lipgloss.Left, panels, m.renderStatus(), m.renderFooter())
}

// overlay centers content over the screen
func (m Model) overlay(content string) string {
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, content,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("0")))
}

// renderLock renders the lock screen
func (m Model) renderLock() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("places is locked"))
	s.WriteString("\n\n")
	if m.reason != "" {
		s.WriteString(subtleStyle.Render(m.reason))
		s.WriteString("\n\n")
	}

	state := m.auth.State()
	switch state.Phase {
	case auth.Authenticating:
		s.WriteString(warnStyle.Render("checking..."))
		s.WriteString("\n")
	case auth.Failed:
		s.WriteString(errorStyle.Render("Unlock failed: " + state.Reason))
		s.WriteString("\n")
		if state.Reason == auth.NoBiometricsMessage {
			s.WriteString(subtleStyle.Render("Set a passphrase with: places unlock setup"))
			s.WriteString("\n")
		}
	}

	if m.passphrase != nil {
		s.WriteString("\n")
		s.WriteString(m.passInput.View())
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(subtleStyle.Render("enter: unlock  esc: quit"))

	return m.overlay(modalStyle.Render(s.String()))
}

// renderCompact renders a minimal view for small terminals
func (m Model) renderCompact() string {
	var s strings.Builder

	s.WriteString("places (resize for full view)\n\n")
	s.WriteString(fmt.Sprintf("Center: %s\n", m.ctrl.Center()))
	s.WriteString(fmt.Sprintf("Places: %d\n", len(m.ctrl.Annotations())))
	if a, ok := m.ctrl.Selected(); ok {
		s.WriteString(fmt.Sprintf("Selected: %s\n", output.AnnotationOneLinerPlain(a)))
	}
	s.WriteString("\nq:quit ?:help")

	return s.String()
}

// wrapPanel wraps content in a bordered panel with title
func (m Model) wrapPanel(title, content string, width, height int, active bool) string {
	style := panelStyle
	if active {
		style = activePanelStyle
	}
	header := panelTitleStyle.Render(title)
	return style.
		Width(width - 2).
		Height(height - 2).
		Render(header + "\n" + content)
}

// project maps a coordinate onto a cols x rows grid centered on center.
// Each column spans scale degrees of longitude and each row twice that in
// latitude, since terminal cells are about twice as tall as wide.
func project(center, c models.Coordinate, scale float64, cols, rows int) (col, row int, ok bool) {
	if cols <= 0 || rows <= 0 || scale <= 0 {
		return 0, 0, false
	}
	dLon := geo.WrapLongitude(c.Longitude - center.Longitude)
	dLat := c.Latitude - center.Latitude

	col = cols/2 + int(math.Round(dLon/scale))
	row = rows/2 - int(math.Round(dLat/(2*scale)))
	if col < 0 || col >= cols || row < 0 || row >= rows {
		return 0, 0, false
	}
	return col, row, true
}

// renderMap draws the grid, the pins and the center crosshair
func (m Model) renderMap(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			if r%2 == 0 && c%4 == 0 {
				grid[r][c] = gridStyle.Render(glyphEmpty)
			} else {
				grid[r][c] = " "
			}
		}
	}

	center := m.ctrl.Center()
	selected := m.ctrl.SelectedID()
	var selectedCell [2]int
	hasSelected := false
	for _, a := range m.ctrl.Annotations() {
		col, row, ok := project(center, a.Coordinate(), m.scale, cols, rows)
		if !ok {
			continue
		}
		if a.ID == selected {
			selectedCell, hasSelected = [2]int{row, col}, true
			continue
		}
		grid[row][col] = pinStyle.Render(glyphPin)
	}

	// Crosshair under the selected pin so the selection stays visible.
	grid[rows/2][cols/2] = crosshairStyle.Render(glyphCrosshair)
	if hasSelected {
		grid[selectedCell[0]][selectedCell[1]] = selectedPinStyle.Render(glyphSelectedPin)
	}

	lines := make([]string, rows)
	for r := range grid {
		lines[r] = strings.Join(grid[r], "")
	}
	return strings.Join(lines, "\n")
}

// renderList renders the pin list with distances from the center
func (m Model) renderList(width, height int) string {
	annotations := m.ctrl.Annotations()
	if m.SearchMode {
		annotations = m.SearchResults
	}
	if len(annotations) == 0 {
		if m.SearchMode {
			return subtleStyle.Render("No match")
		}
		return subtleStyle.Render("No places yet. Press + to drop a pin.")
	}

	center := m.ctrl.Center()
	selected := m.ctrl.SelectedID()

	// Keep the selected row in view
	start := 0
	for i, a := range annotations {
		if a.ID == selected && i >= height {
			start = i - height + 1
		}
	}

	var lines []string
	for _, a := range annotations[start:] {
		if len(lines) == height {
			break
		}
		dist := output.FormatDistance(geo.Distance(center, a.Coordinate()))
		titleWidth := width - len(dist) - 3
		title := output.Truncate(a.DisplayTitle(), titleWidth)
		pad := max(titleWidth-lipgloss.Width(title), 0)

		line := title + strings.Repeat(" ", pad) + " " + subtleStyle.Render(dist)
		if a.ID == selected {
			line = selectedRowStyle.Render("> " + title + strings.Repeat(" ", pad) + " " + dist)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderDetails renders the place details prompt
func (m Model) renderDetails() string {
	title, message := m.ctrl.Details()

	var s strings.Builder
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")
	s.WriteString(message)
	s.WriteString("\n")
	if a, ok := m.ctrl.Selected(); ok {
		s.WriteString(subtleStyle.Render(a.Coordinate().String()))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(okStyle.Render("[ OK ]") + "  " + warnStyle.Render("[ Edit ]"))
	s.WriteString("\n")
	s.WriteString(subtleStyle.Render("enter: ok  e: edit"))
	return modalStyle.Render(s.String())
}

// renderStatus renders the center, zoom and last status message
func (m Model) renderStatus() string {
	parts := []string{
		"center " + output.FormatCoordinate(m.ctrl.Center()),
		subtleStyle.Render(fmt.Sprintf("%.4g°/col", m.scale)),
		subtleStyle.Render(fmt.Sprintf("%d places", len(m.ctrl.Annotations()))),
	}
	if m.Status != "" {
		style := okStyle
		if m.StatusIsError {
			style = errorStyle
		}
		parts = append(parts, style.Render(m.Status))
	}
	return " " + strings.Join(parts, "  ")
}

// renderFooter renders the search input or the key help
func (m Model) renderFooter() string {
	if m.SearchMode {
		return " " + m.searchInput.View()
	}
	return " " + m.help.View(m.keys)
}
