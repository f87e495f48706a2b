package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tayloree/luckydex/internal/display"
	"github.com/tayloree/luckydex/internal/filter"
	"github.com/tayloree/luckydex/internal/priority"
)

const (
	minTUIWidth  = 92
	minTUIHeight = 24
)

var (
	tuiHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tuiMetaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiHintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
)

// Section names, in display order.
const (
	groupBoth    = "Both need"
	groupYou     = "You need"
	groupPartner = "Partner needs"
	groupRaids   = "Raids"
	groupWild    = "Wild"
	groupEggs    = "Eggs"
	groupRocket  = "Rocket"
	groupOther   = "Other"
)

var groupOrder = []string{groupBoth, groupYou, groupPartner, groupRaids, groupWild, groupEggs, groupRocket, groupOther}

type tuiLoadConfig struct {
	load        func() (tuiDataLoadedMsg, error)
	initialOpts filter.Options
}

type tuiDataLoadedMsg struct {
	rosterLabel string
	entries     []priority.Entry
	hasPartner  bool
}

type tuiDataLoadErrMsg struct {
	err error
}

type tuiFocus int

const (
	tuiFocusList tuiFocus = iota
	tuiFocusDetail
)

type tuiGroupItem struct {
	name    string
	count   int
	ordinal int
}

func (g tuiGroupItem) FilterValue() string { return strings.ToLower(g.name) }
func (g tuiGroupItem) Title() string       { return fmt.Sprintf("%d. %s", g.ordinal, g.name) }
func (g tuiGroupItem) Description() string {
	return fmt.Sprintf("Section header • %d creatures", g.count)
}

type tuiEntryItem struct {
	entry       priority.Entry
	group       string
	title       string
	description string
	filterValue string
}

func (e tuiEntryItem) FilterValue() string { return e.filterValue }
func (e tuiEntryItem) Title() string       { return e.title }
func (e tuiEntryItem) Description() string { return e.description }

type priorityTUIModel struct {
	loading  bool
	spinner  spinner.Model
	loadCmd  tea.Cmd
	fatalErr error

	rosterLabel string
	allEntries  []priority.Entry
	hasPartner  bool

	opts        filter.Options
	initialOpts filter.Options

	sortChoices   []string
	sortIndex     int
	sourceChoices []string
	sourceIndex   int
	neededChoices []string
	neededIndex   int
	limitChoices  []int
	limitIndex    int

	list   list.Model
	detail viewport.Model

	focus      tuiFocus
	showHelp   bool
	selectedID string

	groupStarts    []int
	visibleEntries int

	width, height   int
	bodyHeight      int
	listPaneWidth   int
	detailPaneWidth int
	tooSmall        bool
}

func newLoadingTUIModel(cfg tuiLoadConfig) priorityTUIModel {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(1)

	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "Creatures"
	lst.SetStatusBarItemName("item", "items")
	lst.SetShowStatusBar(true)
	lst.SetFilteringEnabled(true)
	lst.SetShowHelp(false)
	lst.SetShowPagination(true)
	lst.DisableQuitKeybindings()

	detail := viewport.New(0, 0)
	detail.KeyMap.PageDown.SetKeys("f", "pgdown")
	detail.KeyMap.PageUp.SetKeys("b", "pgup")
	detail.KeyMap.HalfPageDown.SetKeys("d")
	detail.KeyMap.HalfPageUp.SetKeys("u")

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	return priorityTUIModel{
		loading:     true,
		spinner:     spin,
		loadCmd:     loadTUIDataCmd(cfg),
		initialOpts: cfg.initialOpts,
		opts:        cfg.initialOpts,
		list:        lst,
		detail:      detail,
		focus:       tuiFocusList,
	}
}

func loadTUIDataCmd(cfg tuiLoadConfig) tea.Cmd {
	return func() tea.Msg {
		msg, err := cfg.load()
		if err != nil {
			return tuiDataLoadErrMsg{err: err}
		}
		return msg
	}
}

func (m priorityTUIModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd)
}

func (m priorityTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tuiDataLoadedMsg:
		m.loading = false
		m.rosterLabel = msg.rosterLabel
		m.allEntries = msg.entries
		m.hasPartner = msg.hasPartner
		m.initialOpts = canonicalizeTUIOptions(m.initialOpts)
		m.opts = m.initialOpts
		m.initializeInlineChoices()
		m.applyCurrentFilters(true)
		m.resize()
		return m, nil

	case tuiDataLoadErrMsg:
		m.loading = false
		m.fatalErr = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loading {
			if keyMsg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.loading {
		return m, nil
	}

	if isKey {
		filtering := m.list.FilterState() == list.Filtering
		key := keyMsg.String()

		if !filtering {
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				if m.focus == tuiFocusList {
					m.focus = tuiFocusDetail
				} else {
					m.focus = tuiFocusList
				}
				return m, nil
			case "esc":
				if m.focus == tuiFocusDetail {
					m.focus = tuiFocusList
					return m, nil
				}
			case "?":
				m.showHelp = !m.showHelp
				m.resize()
				return m, nil
			case "s":
				m.cycleSortMode()
				return m, nil
			case "c":
				m.cycleSource()
				return m, nil
			case "a":
				m.cycleNeededBy()
				return m, nil
			case "l":
				m.cycleLimit()
				return m, nil
			case "r":
				m.opts = m.initialOpts
				m.syncChoiceIndexesFromOptions()
				m.applyCurrentFilters(false)
				return m, nil
			case "]", "[":
				if m.list.IsFiltered() {
					return m, m.list.NewStatusMessage("Clear fuzzy filter before section jumps.")
				}
				if key == "]" {
					m.jumpSection(1)
				} else {
					m.jumpSection(-1)
				}
				return m, nil
			}

			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				if m.list.IsFiltered() {
					return m, m.list.NewStatusMessage("Clear fuzzy filter before section jumps.")
				}
				m.jumpToSection(int(key[0] - '1'))
				return m, nil
			}

			if m.focus == tuiFocusDetail {
				var cmd tea.Cmd
				m.detail, cmd = m.detail.Update(msg)
				return m, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.refreshDetail(false)
	return m, cmd
}

func (m priorityTUIModel) View() string {
	if m.loading {
		return m.loadingView()
	}
	if m.width == 0 || m.height == 0 {
		return tuiMetaStyle.Render("Loading interface...")
	}
	if m.tooSmall {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(
				fmt.Sprintf(
					"Terminal too small (%dx%d).\nResize to at least %dx%d for the two-pane explorer.",
					m.width, m.height, minTUIWidth, minTUIHeight,
				),
			)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.bodyView(),
		m.footerView(),
	)
}

func (m priorityTUIModel) loadingView() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	lines := []string{
		tuiHeaderStyle.Render("luckydex tui"),
		tuiMetaStyle.Render("Preparing interactive interface..."),
		"",
		fmt.Sprintf("%s Fetching raids, events, research, eggs and rockets", m.spinner.View()),
		tuiHintStyle.Render("Tip: press q to cancel."),
	}
	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (m *priorityTUIModel) resize() {
	if m.width == 0 || m.height == 0 || m.loading {
		return
	}

	m.tooSmall = m.width < minTUIWidth || m.height < minTUIHeight
	if m.tooSmall {
		return
	}

	headerH := 3
	footerH := 2
	if m.showHelp {
		footerH = 7
	}
	m.bodyHeight = max(8, m.height-headerH-footerH-1)

	listWidth := max(40, int(float64(m.width)*0.43))
	if listWidth > m.width-42 {
		listWidth = m.width / 2
	}
	detailWidth := m.width - listWidth - 1
	if detailWidth < 36 {
		detailWidth = 36
		listWidth = m.width - detailWidth - 1
	}

	m.listPaneWidth = listWidth
	m.detailPaneWidth = detailWidth

	panelInnerHeight := max(6, m.bodyHeight-2)
	m.list.SetSize(max(24, listWidth-4), panelInnerHeight)
	m.detail.Width = max(24, detailWidth-4)
	m.detail.Height = panelInnerHeight
	m.refreshDetail(false)
}

func (m priorityTUIModel) headerView() string {
	focus := "list"
	if m.focus == tuiFocusDetail {
		focus = "detail"
	}

	top := fmt.Sprintf("luckydex tui  |  %s", m.rosterLabel)
	bottom := fmt.Sprintf(
		"creatures: %d visible / %d total  |  filters: %s  |  focus: %s",
		m.visibleEntries, len(m.allEntries), m.activeFilterSummary(), focus,
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(tuiHeaderStyle.Render(top) + "\n" + tuiMetaStyle.Render(bottom))
}

func (m priorityTUIModel) bodyView() string {
	listBorder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1)
	detailBorder := listBorder

	if m.focus == tuiFocusList {
		listBorder = listBorder.BorderForeground(lipgloss.Color("86"))
	} else {
		detailBorder = detailBorder.BorderForeground(lipgloss.Color("86"))
	}

	left := listBorder.
		Width(m.listPaneWidth).
		Height(m.bodyHeight).
		Render(m.list.View())
	right := detailBorder.
		Width(m.detailPaneWidth).
		Height(m.bodyHeight).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m priorityTUIModel) footerView() string {
	base := "Tab switch pane • / fuzzy filter • s sort • c source • a needed by • l limit • r reset • [/] section jump • q quit"
	if m.focus == tuiFocusDetail {
		base = "Detail: j/k or ↑/↓ scroll • u/d half-page • b/f page • esc list • ? help • q quit"
	}

	if !m.showHelp {
		return lipgloss.NewStyle().Padding(0, 1).Render(tuiHintStyle.Render(base))
	}

	lines := []string{
		"Key Help",
		"list pane: ↑/↓ or j/k move • / fuzzy filter • c source • a needed by • s sort • l limit",
		"group jumps: ] next section • [ previous section • 1..9 jump to numbered section header",
		"detail pane: j/k or ↑/↓ scroll • u/d half-page • b/f page up/down",
		"global: tab switch pane • esc list • r reset inline options • ? toggle help • q quit • ctrl+c force quit",
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(tuiHintStyle.Render(strings.Join(lines, "\n")))
}

func (m *priorityTUIModel) initializeInlineChoices() {
	m.opts = canonicalizeTUIOptions(m.opts)

	m.sortChoices = []string{"", "dex", "name"}
	m.sourceChoices = buildSourceChoices(m.allEntries, m.opts.Source)
	m.neededChoices = []string{""}
	if m.hasPartner {
		m.neededChoices = append(m.neededChoices,
			string(priority.NeededByBoth), string(priority.NeededByYou), string(priority.NeededByPartner))
	}
	m.limitChoices = buildLimitChoices(m.opts.Limit)

	m.syncChoiceIndexesFromOptions()
}

func (m *priorityTUIModel) syncChoiceIndexesFromOptions() {
	m.sortIndex = max(0, indexOfString(m.sortChoices, canonicalSortMode(m.opts.Sort)))
	m.opts.Sort = m.sortChoices[m.sortIndex]

	m.sourceIndex = max(0, indexOfString(m.sourceChoices, m.opts.Source))
	m.opts.Source = m.sourceChoices[m.sourceIndex]

	m.neededIndex = max(0, indexOfString(m.neededChoices, m.opts.NeededBy))
	m.opts.NeededBy = m.neededChoices[m.neededIndex]

	m.limitIndex = max(0, indexOfInt(m.limitChoices, m.opts.Limit))
	m.opts.Limit = m.limitChoices[m.limitIndex]
}

func (m *priorityTUIModel) cycleSortMode() {
	m.sortIndex = (m.sortIndex + 1) % len(m.sortChoices)
	m.opts.Sort = m.sortChoices[m.sortIndex]
	m.applyCurrentFilters(false)
}

func (m *priorityTUIModel) cycleSource() {
	m.sourceIndex = (m.sourceIndex + 1) % len(m.sourceChoices)
	m.opts.Source = m.sourceChoices[m.sourceIndex]
	m.applyCurrentFilters(false)
}

func (m *priorityTUIModel) cycleNeededBy() {
	m.neededIndex = (m.neededIndex + 1) % len(m.neededChoices)
	m.opts.NeededBy = m.neededChoices[m.neededIndex]
	m.applyCurrentFilters(false)
}

func (m *priorityTUIModel) cycleLimit() {
	m.limitIndex = (m.limitIndex + 1) % len(m.limitChoices)
	m.opts.Limit = m.limitChoices[m.limitIndex]
	m.applyCurrentFilters(false)
}

func (m priorityTUIModel) activeFilterSummary() string {
	parts := []string{}
	if m.opts.Source != "" {
		parts = append(parts, "source:"+m.opts.Source)
	}
	if m.opts.NeededBy != "" {
		parts = append(parts, "needed:"+m.opts.NeededBy)
	}
	if m.opts.Query != "" {
		parts = append(parts, "query:"+m.opts.Query)
	}
	if m.opts.MinScore > 0 {
		parts = append(parts, fmt.Sprintf("min:%d", m.opts.MinScore))
	}
	if m.opts.Sort != "" {
		parts = append(parts, "sort:"+m.opts.Sort)
	}
	if m.opts.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit:%d", m.opts.Limit))
	}
	if fuzzy := strings.TrimSpace(m.list.FilterValue()); fuzzy != "" {
		parts = append(parts, "fuzzy:"+fuzzy)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func (m *priorityTUIModel) applyCurrentFilters(resetSelection bool) {
	currentID := m.selectedID
	filtered := filter.Apply(m.allEntries, m.opts)
	m.visibleEntries = len(filtered)

	items, starts := buildGroupedListItems(filtered)
	m.groupStarts = starts

	m.list.Title = fmt.Sprintf("Creatures • %d visible", m.visibleEntries)
	m.list.SetItems(items)

	target := -1
	if !resetSelection && currentID != "" {
		target = findItemIndexByID(items, currentID)
	}
	if target < 0 {
		target = firstEntryIndexFrom(items, 0)
	}
	if target < 0 && len(items) > 0 {
		target = 0
	}
	if target >= 0 {
		m.list.Select(target)
	}

	m.refreshDetail(true)
}

func (m *priorityTUIModel) refreshDetail(resetScroll bool) {
	var content string
	nextID := ""

	if selected := m.list.SelectedItem(); selected != nil {
		switch item := selected.(type) {
		case tuiEntryItem:
			content = display.RenderMarkdown(display.EntryMarkdown(item.entry), m.detail.Width)
			nextID = stableIDForItem(item)
		case tuiGroupItem:
			content = m.renderGroupDetail(item)
			nextID = stableIDForItem(item)
		}
	}
	if content == "" {
		content = "No creatures match the current inline filters.\n\nTry pressing r to reset filters."
	}

	if resetScroll || nextID != m.selectedID {
		m.detail.GotoTop()
	}
	m.selectedID = nextID
	m.detail.SetContent(content)
}

func (m priorityTUIModel) renderGroupDetail(group tuiGroupItem) string {
	lines := []string{
		tuiSectionStyle.Render(fmt.Sprintf("Section %d: %s", group.ordinal, group.name)),
		tuiMetaStyle.Render(fmt.Sprintf("%d creatures in this section", group.count)),
		"",
		tuiMetaStyle.Render("Jump keys:"),
		"- `]` next section, `[` previous section",
		"- `1..9` jump directly to section number",
	}
	if preview := m.groupPreviewTitles(group.name, 5); len(preview) > 0 {
		lines = append(lines, "", tuiMetaStyle.Render("Top picks:"))
		for _, title := range preview {
			lines = append(lines, "• "+title)
		}
	}
	return strings.Join(lines, "\n")
}

func (m priorityTUIModel) groupPreviewTitles(group string, limit int) []string {
	out := make([]string, 0, limit)
	for _, item := range m.list.Items() {
		entry, ok := item.(tuiEntryItem)
		if !ok || entry.group != group {
			continue
		}
		out = append(out, entry.title)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (m *priorityTUIModel) jumpToSection(index int) {
	if index < 0 || index >= len(m.groupStarts) {
		return
	}
	target := firstEntryIndexFrom(m.list.Items(), m.groupStarts[index])
	if target < 0 {
		target = m.groupStarts[index]
	}
	m.list.Select(target)
	m.refreshDetail(true)
}

func (m *priorityTUIModel) jumpSection(delta int) {
	if len(m.groupStarts) == 0 {
		return
	}
	next := max(0, m.currentSectionIndex()) + delta
	if next < 0 {
		next = len(m.groupStarts) - 1
	}
	if next >= len(m.groupStarts) {
		next = 0
	}
	m.jumpToSection(next)
}

func (m priorityTUIModel) currentSectionIndex() int {
	if len(m.groupStarts) == 0 {
		return -1
	}
	cursor := m.list.GlobalIndex()
	current := 0
	for i, start := range m.groupStarts {
		if start > cursor {
			break
		}
		current = i
	}
	return current
}

// buildGroupedListItems sections entries by who needs them when a partner is
// set, otherwise by their first source. Entry order inside a section is kept.
func buildGroupedListItems(entries []priority.Entry) (items []list.Item, starts []int) {
	if len(entries) == 0 {
		return nil, nil
	}

	groups := map[string][]priority.Entry{}
	for _, e := range entries {
		group := entryGroupLabel(e)
		groups[group] = append(groups[group], e)
	}

	items = make([]list.Item, 0, len(entries)+len(groups))
	starts = make([]int, 0, len(groups))
	ordinal := 0
	for _, name := range groupOrder {
		members, ok := groups[name]
		if !ok {
			continue
		}
		ordinal++
		starts = append(starts, len(items))
		items = append(items, tuiGroupItem{name: name, count: len(members), ordinal: ordinal})
		for _, e := range members {
			items = append(items, buildTUIEntryItem(e, name))
		}
	}
	return items, starts
}

func entryGroupLabel(e priority.Entry) string {
	switch e.NeededBy {
	case priority.NeededByBoth:
		return groupBoth
	case priority.NeededByYou:
		return groupYou
	case priority.NeededByPartner:
		return groupPartner
	}
	if len(e.Sources) == 0 {
		return groupOther
	}
	switch e.Sources[0].Type {
	case priority.SourceRaid, priority.SourceShadowRaid, priority.SourceUpcomingRaid:
		return groupRaids
	case priority.SourceEvent, priority.SourceResearch, priority.SourceUpcoming:
		return groupWild
	case priority.SourceEgg:
		return groupEggs
	case priority.SourceRocket:
		return groupRocket
	default:
		return groupOther
	}
}

func buildTUIEntryItem(e priority.Entry, group string) tuiEntryItem {
	title := fmt.Sprintf("#%04d %s", e.DexNumber, e.Name)

	labels := make([]string, 0, len(e.Sources))
	for _, s := range e.Sources {
		labels = append(labels, s.Label)
	}
	description := fmt.Sprintf("score %d", e.Score)
	if len(labels) > 0 {
		description += "  •  " + strings.Join(labels, ", ")
	}

	filterTokens := []string{
		e.Name,
		strconv.Itoa(e.DexNumber),
		strings.Join(labels, " "),
		string(e.NeededBy),
		group,
	}

	return tuiEntryItem{
		entry:       e,
		group:       group,
		title:       title,
		description: description,
		filterValue: strings.ToLower(strings.Join(filterTokens, " ")),
	}
}

func canonicalizeTUIOptions(opts filter.Options) filter.Options {
	opts.Sort = canonicalSortMode(opts.Sort)
	opts.NeededBy = strings.ToLower(strings.TrimSpace(opts.NeededBy))
	opts.Query = strings.TrimSpace(opts.Query)
	if group, ok := filter.ResolveSource(opts.Source); ok {
		opts.Source = group
	} else {
		opts.Source = ""
	}
	return opts
}

func canonicalSortMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "dex", "number", "national":
		return "dex"
	case "name", "alpha", "alphabetical":
		return "name"
	default:
		return ""
	}
}

// buildSourceChoices lists the source groups that match at least one entry,
// plus the current one, after the empty "all sources" choice.
func buildSourceChoices(entries []priority.Entry, current string) []string {
	values := []string{}
	for _, source := range filter.KnownSources() {
		if source == current || len(filter.Apply(entries, filter.Options{Source: source, Limit: 1})) > 0 {
			values = append(values, source)
		}
	}
	if current != "" && indexOfString(values, current) < 0 {
		values = append(values, current)
		sort.Strings(values)
	}
	return append([]string{""}, values...)
}

func buildLimitChoices(current int) []int {
	values := []int{0, 10, 25, 50, 100}
	if current > 0 && indexOfInt(values, current) < 0 {
		values = append(values, current)
		sort.Ints(values)
	}
	return values
}

func indexOfString(values []string, target string) int {
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return -1
}

func indexOfInt(values []int, target int) int {
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return -1
}

func findItemIndexByID(items []list.Item, stableID string) int {
	for i, item := range items {
		if stableIDForItem(item) == stableID {
			return i
		}
	}
	return -1
}

func firstEntryIndexFrom(items []list.Item, start int) int {
	for i := start; i < len(items); i++ {
		if _, ok := items[i].(tuiEntryItem); ok {
			return i
		}
	}
	return -1
}

func stableIDForItem(item list.Item) string {
	switch value := item.(type) {
	case tuiEntryItem:
		return fmt.Sprintf("entry:%d", value.entry.DexNumber)
	case tuiGroupItem:
		return "group:" + strings.ToLower(value.name)
	default:
		return ""
	}
}
