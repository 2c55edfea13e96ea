package shortcut

import "github.com/dshills/termhost/internal/input/key"

// Action names a command a binding triggers.
type Action string

// Category groups bindings for display purposes.
type Category string

// Binding categories, in display order.
const (
	CategoryTerminal   Category = "Terminal"
	CategoryClipboard  Category = "Clipboard"
	CategorySearch     Category = "Search"
	CategorySession    Category = "Session"
	CategoryNavigation Category = "Navigation"
)

var categoryOrder = []Category{
	CategoryTerminal,
	CategoryClipboard,
	CategorySearch,
	CategorySession,
	CategoryNavigation,
}

// Binding maps a chord to an action.
type Binding struct {
	Action Action

	// Chord is the key combination. The zero chord means unbound.
	Chord key.Chord

	Category Category

	// Customizable bindings may be moved to another chord.
	Customizable bool

	// PassToPty bindings are forwarded to the shell as raw bytes instead
	// of being handled by the application.
	PassToPty bool

	Enabled bool

	Description string
}

// NewBinding creates an enabled, customizable binding.
func NewBinding(action Action, chord key.Chord, category Category) Binding {
	return Binding{
		Action:       action,
		Chord:        chord,
		Category:     category,
		Customizable: true,
		Enabled:      true,
	}
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// PassThrough marks the binding as a fixed shell control sequence.
func (b Binding) PassThrough() Binding {
	b.PassToPty = true
	b.Customizable = false
	return b
}

// Fixed marks the binding as not customizable.
func (b Binding) Fixed() Binding {
	b.Customizable = false
	return b
}

// active reports whether the binding occupies its chord.
func (b *Binding) active() bool {
	return b.Enabled && !b.Chord.IsZero()
}

// BindingCategory represents a category of bindings for display.
type BindingCategory struct {
	Name     Category
	Bindings []Binding
}

// GroupByCategory groups bindings by category. Known categories come first
// in a fixed order; others follow in order of appearance.
func GroupByCategory(bindings []Binding) []BindingCategory {
	byCat := make(map[Category][]Binding)
	var extra []Category

	for _, b := range bindings {
		if _, ok := byCat[b.Category]; !ok && !knownCategory(b.Category) {
			extra = append(extra, b.Category)
		}
		byCat[b.Category] = append(byCat[b.Category], b)
	}

	result := make([]BindingCategory, 0, len(byCat))
	for _, name := range append(categoryOrder[:len(categoryOrder):len(categoryOrder)], extra...) {
		if bs, ok := byCat[name]; ok {
			result = append(result, BindingCategory{Name: name, Bindings: bs})
		}
	}
	return result
}

func knownCategory(c Category) bool {
	for _, k := range categoryOrder {
		if k == c {
			return true
		}
	}
	return false
}
