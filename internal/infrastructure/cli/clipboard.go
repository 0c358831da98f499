package cli

import (
	"github.com/atotto/clipboard"

	"github.com/doeshing/iop/internal/ports"
)

// Clipboard implements ports.Clipboard on the system clipboard
// (pbcopy, xclip/xsel/wl-copy, or the Windows API).
type Clipboard struct{}

// NewClipboard builds the clipboard helper.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// Enabled reports whether a clipboard utility was found.
func (c *Clipboard) Enabled() bool {
	return !clipboard.Unsupported
}

// Copy copies text to the system clipboard.
func (c *Clipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ ports.Clipboard = (*Clipboard)(nil)
