package workspace

import "fmt"

// Tab is a navigation entry. A tab may point at a template, which becomes
// active when the tab is selected.
type Tab struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Template TemplateID `json:"template,omitempty"`
	Children []Tab      `json:"children,omitempty"`
}

func cloneTabs(tabs []Tab) []Tab {
	if tabs == nil {
		return nil
	}
	out := make([]Tab, len(tabs))
	for i, t := range tabs {
		out[i] = t
		out[i].Children = cloneTabs(t.Children)
	}
	return out
}

// FindTab returns the top-level tab with the given id.
func (s State) FindTab(id string) (Tab, bool) {
	for _, t := range s.Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

// EnsureTab adds tab unless a tab with its id exists. For an existing tab
// the label and template are refreshed and missing children appended.
func (s State) EnsureTab(tab Tab) State {
	s = s.Clone()
	for i, t := range s.Tabs {
		if t.ID != tab.ID {
			continue
		}
		t.Label = tab.Label
		t.Template = tab.Template
		for _, child := range tab.Children {
			if !hasTab(t.Children, child.ID) {
				t.Children = append(t.Children, child)
			}
		}
		s.Tabs[i] = t
		return s
	}
	s.Tabs = append(s.Tabs, cloneTabs([]Tab{tab})...)
	if s.SelectedTab == "" {
		s.SelectedTab = tab.ID
	}
	return s
}

// RemoveTab deletes the top-level tab id if present. When it was selected,
// the first remaining tab is selected instead.
func (s State) RemoveTab(id string) State {
	if !hasTab(s.Tabs, id) {
		return s
	}
	s = s.Clone()
	kept := s.Tabs[:0]
	for _, t := range s.Tabs {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.Tabs = kept
	if s.SelectedTab == id {
		s.SelectedTab = ""
		if len(s.Tabs) > 0 {
			s = s.selectTab(s.Tabs[0])
		}
	}
	return s
}

// SelectTab selects a top-level tab and activates its template.
func (s State) SelectTab(id string) (State, error) {
	tab, ok := s.FindTab(id)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrTabNotFound, id)
	}
	return s.Clone().selectTab(tab), nil
}

func (s State) selectTab(tab Tab) State {
	s.SelectedTab = tab.ID
	if _, ok := s.Templates[tab.Template]; ok {
		s.Active = tab.Template
	}
	return s
}

func hasTab(tabs []Tab, id string) bool {
	for _, t := range tabs {
		if t.ID == id {
			return true
		}
	}
	return false
}
