package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/qrframe/qrframe/pkg/qr"
	"github.com/qrframe/qrframe/pkg/qr/render"
)

// eccLevels is the cycling order for the preview ECC toggle.
var eccLevels = []string{"L", "M", "Q", "H"}

// previewCommand creates the preview command for interactive QR rendering.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [text]",
		Short: "Interactively preview a QR code while typing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) > 0 {
				text = args[0]
			}
			model := newPreviewModel(text)
			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(previewModel); ok && m.accepted && m.text != "" {
				// Print the accepted code so it can be piped or copied.
				fmt.Println(m.renderCode())
			}
			return nil
		},
	}
}

// previewModel is the bubbletea model for the interactive preview.
type previewModel struct {
	text     string
	eccIdx   int
	border   bool
	invert   bool
	accepted bool
}

func newPreviewModel(text string) previewModel {
	return previewModel{text: text, border: true}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		m.accepted = true
		return m, tea.Quit
	case "ctrl+e":
		m.eccIdx = (m.eccIdx + 1) % len(eccLevels)
	case "ctrl+b":
		m.border = !m.border
	case "ctrl+n":
		m.invert = !m.invert
	case "backspace":
		if m.text != "" {
			runes := []rune(m.text)
			m.text = string(runes[:len(runes)-1])
		}
	default:
		if key.Type == tea.KeyRunes {
			m.text += string(key.Runes)
		} else if key.Type == tea.KeySpace {
			m.text += " "
		}
	}
	return m, nil
}

// renderCode encodes the current text and renders it compactly.
// Encoding a short payload takes microseconds, so re-encoding on every
// keystroke is fine.
func (m previewModel) renderCode() string {
	border := 1
	if !m.border {
		border = qr.NoBorder
	}
	res, err := qr.EncodeText(m.text, qr.Options{
		ECC:    eccLevels[m.eccIdx],
		Border: border,
		Invert: m.invert,
	})
	if err != nil {
		return ""
	}
	return render.UnicodeCompact(res)
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("QR Preview"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("type to edit  ^E ecc  ^B border  ^N invert  ⏎ accept  esc quit"))
	b.WriteString("\n\n")

	b.WriteString(StyleDim.Render("payload: "))
	if m.text == "" {
		b.WriteString(StyleDim.Render("(empty)"))
	} else {
		b.WriteString(StyleValue.Render(m.text))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("ecc: %s  border: %v  invert: %v", eccLevels[m.eccIdx], m.border, m.invert)))
	b.WriteString("\n\n")

	if m.text == "" {
		b.WriteString(StyleDim.Render("start typing to render a code"))
		b.WriteString("\n")
		return b.String()
	}

	code := m.renderCode()
	if code == "" {
		b.WriteString(StyleWarning.Render("payload too long for a QR code"))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(code)
	b.WriteString("\n")
	return b.String()
}
