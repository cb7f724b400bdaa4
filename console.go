package livecanvas

// maxConsoleText is the number of bytes of text the console keeps.
const maxConsoleText = 1023

// consoleReloaded replaces the error text after a successful reload.
const consoleReloaded = "Lua script reloaded successfully."

// Console is the debug overlay state: one block of text and whether it is
// shown. Displays decide how to draw it.
type Console struct {
	text  string
	shown bool
}

// NewConsole returns a hidden console holding the startup hint.
func NewConsole() *Console {
	return &Console{text: "Console initialized. Press ` to toggle."}
}

// SetText replaces the console text. Empty text is ignored; long text is
// truncated.
func (c *Console) SetText(text string) {
	if text == "" {
		return
	}
	if len(text) > maxConsoleText {
		text = text[:maxConsoleText]
	}
	c.text = text
}

// Text returns the console text.
func (c *Console) Text() string { return c.text }

// Show makes the console visible.
func (c *Console) Show() { c.shown = true }

// Hide hides the console.
func (c *Console) Hide() { c.shown = false }

// Shown reports whether the console is visible.
func (c *Console) Shown() bool { return c.shown }

// Toggle flips visibility and returns the new state.
func (c *Console) Toggle() bool {
	c.shown = !c.shown
	return c.shown
}

// ShowError puts err on the console and makes it visible.
func (c *Console) ShowError(err error) {
	c.SetText(err.Error())
	c.Show()
}
