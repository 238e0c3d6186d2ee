// Package output provides styled terminal output helpers (success, error,
// warning, place formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/places/internal/models"
)

var (
	// Styles
	titleStyle       = lipgloss.NewStyle().Bold(true)
	subtleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	coordStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true)
)

// ShortIDLen is how many characters of an id the short format shows.
const ShortIDLen = 8

// OutputMode determines output format
type OutputMode int

const (
	ModeShort OutputMode = iota
	ModeLong
	ModeJSON
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound     = "not_found"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeLocked       = "locked"
	ErrCodeStorageError = "storage_error"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	JSONErrorWithDetails(code, message, nil)
}

// JSONErrorWithDetails outputs an error as JSON with additional context
func JSONErrorWithDetails(code, message string, details map[string]interface{}) {
	errObj := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if len(details) > 0 {
		errObj["details"] = details
	}
	result := map[string]interface{}{
		"error": errObj,
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}

// ShortID returns the first ShortIDLen characters of id.
func ShortID(id string) string {
	if len(id) > ShortIDLen {
		return id[:ShortIDLen]
	}
	return id
}

// FormatCoordinate formats a coordinate with color
func FormatCoordinate(c models.Coordinate) string {
	return coordStyle.Render(c.String())
}

// formatText renders v, or the placeholder dimmed when v is empty or still
// the placeholder itself.
func formatText(v, placeholder string) string {
	if v == "" || v == placeholder {
		return placeholderStyle.Render(placeholder)
	}
	return v
}

// Truncate shortens s to width terminal cells, keeping ANSI styling intact.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// FormatAnnotationShort formats an annotation on one line:
// id, coordinate, title and subtitle.
func FormatAnnotationShort(a models.Annotation) string {
	parts := []string{
		titleStyle.Render(ShortID(a.ID)),
		FormatCoordinate(a.Coordinate()),
		formatText(a.Title, models.PlaceholderTitle),
		subtleStyle.Render(a.DisplaySubtitle()),
	}
	return strings.Join(parts, "  ")
}

// FormatAnnotationLong formats an annotation in long format
func FormatAnnotationLong(a models.Annotation) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(a.DisplayTitle()))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("ID: %s\n", a.ID))
	sb.WriteString(fmt.Sprintf("Location: %s\n", FormatCoordinate(a.Coordinate())))

	if a.Subtitle != "" && a.Subtitle != models.PlaceholderSubtitle {
		sb.WriteString("\n")
		sb.WriteString(subtleStyle.Render("Notes:"))
		sb.WriteString("\n")
		sb.WriteString(a.Subtitle)
		sb.WriteString("\n")
	}

	return sb.String()
}

// AnnotationOneLinerPlain returns the annotation without styling (for text contexts)
func AnnotationOneLinerPlain(a models.Annotation) string {
	return fmt.Sprintf("%s \"%s\" (%s)", ShortID(a.ID), a.DisplayTitle(), a.Coordinate())
}

// FormatDistance formats a distance in meters as m or km.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0fm", meters)
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nPLACES:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentLines indents each line by the specified number of spaces
func IndentLines(lines []string, spaces int) []string {
	indent := strings.Repeat(" ", spaces)
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = indent + line
	}
	return result
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	indented := IndentLines(lines, spaces)
	return strings.Join(indented, "\n")
}
