package mapview

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the map view bindings. It implements help.KeyMap.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Drop    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Nearest key.Binding
	Center  key.Binding
	Details key.Binding
	Clear   key.Binding
	Search  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "pan north")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "pan south")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan west")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan east")),
		ZoomIn:  key.NewBinding(key.WithKeys("=", "]"), key.WithHelp("=", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "["), key.WithHelp("-", "zoom out")),
		Drop:    key.NewBinding(key.WithKeys("+", "a"), key.WithHelp("+/a", "drop pin")),
		Next:    key.NewBinding(key.WithKeys("tab", "n"), key.WithHelp("tab/n", "next pin")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "p"), key.WithHelp("S-tab/p", "prev pin")),
		Nearest: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "nearest pin")),
		Center:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "center on pin")),
		Details: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Drop, k.Next, k.Nearest, k.Details, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.ZoomIn, k.ZoomOut},
		{k.Drop, k.Next, k.Prev, k.Nearest, k.Center},
		{k.Details, k.Clear, k.Search, k.Help, k.Quit},
	}
}
