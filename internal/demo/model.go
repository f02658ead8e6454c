// Package demo is an interactive bubbletea program that layers modals over a
// background list and drives their lifecycle through fastoverlay.
package demo

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"charm.land/log/v2"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yeeaiclub/fastoverlay"
	"github.com/yeeaiclub/fastoverlay/keys"
	"github.com/yeeaiclub/fastoverlay/terminal"
)

const (
	DefaultAnimation = 150 * time.Millisecond
	dialogWidth      = 46
)

type Config struct {
	// ModalOptions are applied to every dialog before the demo's own options.
	ModalOptions []fastoverlay.Option
	// Animation is how long the demo pretends each transition takes.
	Animation time.Duration
	Logger    *log.Logger
}

type dialogKind int

const (
	kindDismiss dialogKind = iota
	kindStatic
)

type dialog struct {
	id     int
	kind   dialogKind
	modal  *fastoverlay.Modal
	pos    fastoverlay.Positioner
	height int
	tick   int
}

// runMsg carries a scheduler callback onto the bubbletea goroutine.
type runMsg func()

type transitionDoneMsg struct {
	dialog *dialog
	tick   int
}

type Model struct {
	host      *fastoverlay.Host
	doc       *fastoverlay.Document
	keys      keyMap
	opts      []fastoverlay.Option
	animation time.Duration
	logger    *log.Logger

	items  []*fastoverlay.Element
	kinds  map[*fastoverlay.Element]dialogKind
	status *fastoverlay.Element

	dialogs []*dialog
	nextID  int
	pending []tea.Cmd

	width         int
	height        int
	lastFrame     []string
	crashReported bool
}

// New builds the demo model on the given scheduler. Tests pass a
// ManualScheduler; Run passes an EventLoop dispatching through the program.
func New(scheduler fastoverlay.Scheduler, cfg Config) *Model {
	if cfg.Animation <= 0 {
		cfg.Animation = DefaultAnimation
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	doc := fastoverlay.NewDocument()
	host := fastoverlay.NewHost(
		fastoverlay.WithDocument(doc),
		fastoverlay.WithScheduler(scheduler),
		fastoverlay.WithHostPlatform(terminal.NewPlatform(doc.Body())),
		fastoverlay.WithHostLogger(cfg.Logger),
	)

	m := &Model{
		host:      host,
		doc:       doc,
		keys:      defaultKeyMap(),
		opts:      cfg.ModalOptions,
		animation: cfg.Animation,
		logger:    cfg.Logger,
		kinds:     map[*fastoverlay.Element]dialogKind{},
		width:     80,
		height:    24,
	}

	body := doc.Body()
	for i, label := range []string{"Open a dialog", "Open a static dialog"} {
		item := fastoverlay.NewText(fmt.Sprintf("item-%d", i), label)
		item.SetFocusable(true)
		body.AppendChild(item)
		m.items = append(m.items, item)
		m.kinds[item] = dialogKind(i)
	}
	m.status = fastoverlay.NewText("status", "ready")
	body.AppendChild(m.status)
	doc.Focus(m.items[0])
	return m
}

// Run starts the interactive program and blocks until it exits.
func Run(ctx context.Context, cfg Config) error {
	var p *tea.Program
	loop := fastoverlay.NewEventLoop(fastoverlay.WithDispatcher(func(fn func()) {
		p.Send(runMsg(fn))
	}))
	m := New(loop, cfg)
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	defer m.host.Close()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run demo: %w", err)
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case runMsg:
		msg()
	case transitionDoneMsg:
		if msg.tick == msg.dialog.tick {
			msg.dialog.modal.NotifyTransitionEnd()
		}
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.handleClick(msg.Y, msg.X)
		}
	}
	cmds = append(cmds, m.pending...)
	m.pending = nil
	return m, batch(cmds)
}

func batch(cmds []tea.Cmd) tea.Cmd {
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Force) {
		m.host.Close()
		return tea.Quit
	}

	ev := &fastoverlay.KeyEvent{Key: keys.Normalize(msg.String()), Raw: msg.String()}
	m.doc.DispatchKey(ev)
	if ev.DefaultPrevented() {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit) && len(m.dialogs) == 0:
		m.host.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Open):
		m.open(kindDismiss)
	case key.Matches(msg, m.keys.Static):
		m.open(kindStatic)
	case key.Matches(msg, m.keys.Nested) && len(m.dialogs) > 0:
		m.open(m.dialogs[len(m.dialogs)-1].kind)
	case key.Matches(msg, m.keys.Next):
		m.cycleFocus(1)
	case key.Matches(msg, m.keys.Prev):
		m.cycleFocus(-1)
	case key.Matches(msg, m.keys.Select):
		if kind, ok := m.kinds[m.doc.ActiveElement()]; ok {
			m.open(kind)
		}
	}
	return nil
}

// handleClick routes a press to the topmost dialog: inside its frame the click
// lands on the dialog, anywhere else on its backdrop.
func (m *Model) handleClick(row, col int) {
	d := m.topmost()
	if d == nil {
		return
	}
	l, ok := d.pos.Last()
	if !ok {
		return
	}
	inside := row >= l.Row && row < l.Row+d.height && col >= l.Col && col < l.Col+l.Width
	if inside {
		m.doc.DispatchClick(d.modal.Dialog())
		return
	}
	if b := d.modal.Backdrop(); b != nil {
		m.doc.DispatchClick(b)
	}
}

func (m *Model) open(kind dialogKind) {
	m.nextID++
	d := &dialog{
		id:   m.nextID,
		kind: kind,
		pos: fastoverlay.Positioner{Placement: fastoverlay.Placement{
			Width:   dialogWidth,
			OffsetX: 3 * len(m.dialogs),
			OffsetY: 2 * len(m.dialogs),
			Margin:  fastoverlay.UniformMargin(1),
		}},
	}

	text := "Press esc or click outside to close."
	backdropMode := fastoverlay.BackdropDismiss
	if kind == kindStatic {
		text = "This backdrop is static: clicking outside does nothing. Press esc to close."
		backdropMode = fastoverlay.BackdropStatic
	}
	content := fastoverlay.NewText(fmt.Sprintf("dialog-%d-body", d.id), text)

	opts := slices.Clone(m.opts)
	opts = append(opts,
		fastoverlay.WithBackdrop(backdropMode),
		fastoverlay.WithOnHide(func() { m.hide(d) }),
		fastoverlay.WithOnBackdropClick(func() {
			m.setStatus("dialog %d: backdrop clicked", d.id)
		}),
		fastoverlay.WithOnStateChange(func(from, to fastoverlay.State) {
			m.setStatus("dialog %d: %s -> %s", d.id, from, to)
		}),
		fastoverlay.WithTransitionCallbacks(fastoverlay.TransitionCallbacks{
			OnExited: func() { m.remove(d) },
		}),
	)
	d.modal = m.host.NewModal(content, opts...)
	m.dialogs = append(m.dialogs, d)
	d.modal.Show()
	m.animate(d)
}

func (m *Model) hide(d *dialog) {
	d.modal.Hide()
	m.animate(d)
}

// remove drops an exited dialog and destroys its modal so the host lets go
// of its element subtree.
func (m *Model) remove(d *dialog) {
	if i := slices.Index(m.dialogs, d); i != -1 {
		m.dialogs = slices.Delete(m.dialogs, i, i+1)
	}
	d.modal.Destroy()
}

// animate stands in for a visual transition: it reports the end of the
// current phase after the animation time.
func (m *Model) animate(d *dialog) {
	d.tick++
	tick := d.tick
	m.pending = append(m.pending, tea.Tick(m.animation, func(time.Time) tea.Msg {
		return transitionDoneMsg{dialog: d, tick: tick}
	}))
}

func (m *Model) setStatus(format string, args ...any) {
	m.status.SetText(fmt.Sprintf(format, args...))
	m.logger.Debug("demo", "status", m.status.Text())
}

func (m *Model) topmost() *dialog {
	for _, d := range slices.Backward(m.dialogs) {
		if d.modal.IsTopmost() {
			return d
		}
	}
	return nil
}

// cycleFocus moves focus through every focusable node in tree order. While a
// modal is open, focus enforcement pulls it back into the dialog.
func (m *Model) cycleFocus(step int) {
	var order []*fastoverlay.Element
	var walk func(*fastoverlay.Element)
	walk = func(el *fastoverlay.Element) {
		if el.Focusable() && el != m.doc.Body() {
			order = append(order, el)
		}
		for _, c := range el.Children() {
			walk(c)
		}
	}
	walk(m.doc.Body())
	if len(order) == 0 {
		return
	}
	i := slices.Index(order, m.doc.ActiveElement())
	next := (i + step + len(order)) % len(order)
	if i == -1 && step < 0 {
		next = len(order) - 1
	}
	m.doc.Focus(order[next])
}

func (m *Model) View() string {
	defer m.recoverView()

	view := m.background()
	body := m.doc.Body()
	active := m.doc.ActiveElement()

	for _, h := range m.host.Manager().Handles(body) {
		d := m.dialogFor(h)
		if d == nil || !d.modal.Interactive() {
			continue
		}
		if d.modal.Backdrop() != nil {
			view = dim(view, m.width, backdrop)
		}
		box := m.renderDialog(d, d.modal.Dialog().Contains(active))
		d.height = lipgloss.Height(box)
		l, _ := d.pos.Update(d.modal, d.height, m.width, m.height)
		view = place(view, box, l.Row, l.Col)
	}
	view = m.clampWidth(view)
	m.lastFrame = strings.Split(view, "\n")
	return view
}

func (m *Model) background() string {
	body := m.doc.Body()
	active := m.doc.ActiveElement()

	lines := []string{titleStyle.Render("fastoverlay"), ""}
	for _, item := range m.items {
		style := itemStyle
		if item == active {
			style = focusedStyle
		}
		lines = append(lines, style.Render(item.Text()))
	}
	lines = append(lines, "", mutedStyle.Render(m.status.Text()))
	if body.HasClass(fastoverlay.DefaultContainerClassName) {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d open, background locked", m.host.Manager().Len())))
	}
	lines = append(lines, "", mutedStyle.Render(m.keys.helpLine()))

	body.SetExtent(len(lines), m.height)
	return strings.Join(padLines(lines, m.height), "\n")
}

func (m *Model) renderDialog(d *dialog, focused bool) string {
	l, ok := d.pos.Last()
	width := dialogWidth
	if ok {
		width = l.Width
	}
	inner := max(1, width-4)

	title := fmt.Sprintf("Dialog %d", d.id)
	if d.kind == kindStatic {
		title += " (static)"
	}
	parts := []string{dialogTitle.Render(title), ""}
	parts = append(parts, d.modal.Dialog().Render(inner)...)
	parts = append(parts, "", mutedStyle.Render("n stack another • esc close"))

	style := boxStyle(d.modal.State(), d.kind == kindStatic, focused)
	return style.Width(width - 2).Render(strings.Join(parts, "\n"))
}

func (m *Model) dialogFor(h *fastoverlay.Handle) *dialog {
	for _, d := range m.dialogs {
		if d.modal.Handle() == h {
			return d
		}
	}
	return nil
}
