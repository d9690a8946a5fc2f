package menu

// Items returns the menu items.
func (v *View) Items() []Item {
	return v.items
}
