package adapter

import (
	"io"

	"github.com/movemut/movemut/internal/controller"
)

// NewUI selects the UI implementation: interactive terminals get the Bubble
// Tea view, everything else gets plain text.
func NewUI(out io.Writer, interactive bool) controller.UI {
	if interactive {
		return NewTUI(out)
	}

	return NewSimpleUI(out)
}
