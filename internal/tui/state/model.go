// Package state implements the interactive editor as a bubbletea model.
package state

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"github.com/cristianoliveira/pixtweak/internal/errors"
	"github.com/cristianoliveira/pixtweak/internal/export"
	"github.com/cristianoliveira/pixtweak/internal/imagesrc"
	"github.com/cristianoliveira/pixtweak/internal/logging"
	"github.com/cristianoliveira/pixtweak/internal/persist"
	"github.com/cristianoliveira/pixtweak/internal/session"
)

const (
	defaultViewportWidth  = 80
	defaultViewportHeight = 24
	statusClearDuration   = 5 * time.Second
	defaultExportTimeout  = 2 * time.Minute
)

// Options configures the editor.
type Options struct {
	Store      persist.Store
	Exporter   export.Exporter
	Logger     logging.Logger
	HistoryCap int
	MaxWidth   int
	MaxHeight  int

	ExportFormat  export.Format
	ExportQuality float64
	// ExportName is the output file name without extension. Exports are
	// written next to the source image.
	ExportName    string
	ExportTimeout time.Duration

	// Open decodes an image header. Defaults to imagesrc.Open.
	Open func(path string) (imagesrc.Handle, error)
	// InitialPath is opened on start when set.
	InitialPath string
}

// Model represents the editor for bubbletea.
type Model struct {
	session  *session.Session
	preview  *previewSink
	exporter export.Exporter
	open     func(string) (imagesrc.Handle, error)

	keys   keyMap
	help   help.Model
	prompt textinput.Model

	errorHandler      *errors.TUIHandler
	statusMessage     string
	statusMessageType errors.MessageType
	hasStatusMessage  bool
	statusSeq         int

	width  int
	height int
	cursor int

	// activeKey is the slider of the running interaction. Ticks on the same
	// slider share one history entry.
	activeKey adjust.Key

	prompting      bool
	pointerCompare bool
	keyCompare     bool
	exporting      bool

	exportFormat  export.Format
	exportQuality float64
	exportName    string
	exportTimeout time.Duration
	initialPath   string
}

// NewModel creates the editor model.
func NewModel(opts Options) *Model {
	m := &Model{
		preview:       &previewSink{},
		exporter:      opts.Exporter,
		open:          opts.Open,
		keys:          defaultKeyMap(),
		help:          help.New(),
		prompt:        textinput.New(),
		exportFormat:  opts.ExportFormat,
		exportQuality: opts.ExportQuality,
		exportName:    opts.ExportName,
		exportTimeout: opts.ExportTimeout,
		initialPath:   opts.InitialPath,
	}
	if m.open == nil {
		m.open = imagesrc.Open
	}
	if m.exportFormat == "" {
		m.exportFormat = export.PNG
	}
	if m.exportName == "" {
		m.exportName = "edited-image"
	}
	if m.exportTimeout <= 0 {
		m.exportTimeout = defaultExportTimeout
	}
	m.prompt.Placeholder = "path/to/image.png"
	m.prompt.Prompt = "open: "

	m.errorHandler = errors.NewTUIHandler(func(msg errors.Message) {
		m.statusMessage = msg.Text
		m.statusMessageType = msg.Type
		m.hasStatusMessage = msg.Text != ""
		m.statusSeq++
	})

	m.session = session.New(session.Options{
		Sink:       m.preview,
		Store:      opts.Store,
		Exporter:   opts.Exporter,
		Logger:     opts.Logger,
		HistoryCap: opts.HistoryCap,
		MaxWidth:   opts.MaxWidth,
		MaxHeight:  opts.MaxHeight,
		OnRestore: func(adjust.State) {
			m.activeKey = ""
		},
		OnError: func(err error) {
			m.errorHandler.Warning(err.Error())
		},
	})
	return m
}

// Session returns the edit session driven by the model.
func (m *Model) Session() *session.Session {
	return m.session
}

// Init opens the initial image, if any.
func (m *Model) Init() tea.Cmd {
	if m.initialPath == "" {
		return nil
	}
	return openImageCmd(m.open, m.initialPath)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	case tea.BlurMsg:
		m.endCompare()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.prompt.Width = msg.Width - len(m.prompt.Prompt) - 1
		return m, nil
	case imageLoadedMsg:
		m.endCompare()
		m.activeKey = ""
		m.session.LoadImage(msg.handle)
		m.errorHandler.Info("Loaded " + msg.handle.Describe())
		return m, m.clearStatusCmd()
	case imageLoadFailedMsg:
		m.errorHandler.Error("Cannot open " + msg.path + ": " + msg.err.Error())
		return m, m.clearStatusCmd()
	case exportDoneMsg:
		m.exporting = false
		m.errorHandler.Success("Export job written to " + msg.result.JobPath)
		return m, m.clearStatusCmd()
	case exportFailedMsg:
		m.exporting = false
		m.errorHandler.Error("Export failed: " + msg.err.Error())
		return m, m.clearStatusCmd()
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.hasStatusMessage = false
			m.statusMessage = ""
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) clearStatusCmd() tea.Cmd {
	return clearStatusAfter(m.statusSeq, statusClearDuration)
}

// exportRequest derives the request from the loaded image location.
func (m *Model) exportRequest() export.Request {
	out := m.exportName
	if h, ok := m.session.Image(); ok && !filepath.IsAbs(out) {
		out = filepath.Join(filepath.Dir(h.Key()), out)
	}
	return export.Request{Output: out, Format: m.exportFormat, Quality: m.exportQuality}
}

func (m *Model) startExport() tea.Cmd {
	if m.exporting {
		m.errorHandler.Warning("Export already running")
		return m.clearStatusCmd()
	}
	if m.exporter == nil {
		m.errorHandler.Error("Export is not configured")
		return m.clearStatusCmd()
	}
	job, err := m.session.Job(m.exportRequest())
	if err != nil {
		m.errorHandler.Error("Export failed: " + err.Error())
		return m.clearStatusCmd()
	}
	m.exporting = true
	m.errorHandler.Info("Exporting " + job.Output + "...")
	return exportCmd(m.exporter, job, m.exportTimeout)
}
