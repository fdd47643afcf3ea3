package selection

// Selectable is anything that carries a selected flag.
type Selectable interface {
	IsSelected() bool
	SetSelected(selected bool)
}

// ComponentSelectable is implemented by nodes with finer grained parts
// (vertices, faces) that can be selected on their own.
type ComponentSelectable interface {
	HasSelectedComponents() bool
	SetSelectedComponents(selected bool)
}

// ObservedSelectable reports every change of its flag to a callback.
// Setting the flag to its current value is silent.
type ObservedSelectable struct {
	selected  bool
	onChanged func(Selectable)
}

func NewObservedSelectable(onChanged func(Selectable)) *ObservedSelectable {
	return &ObservedSelectable{onChanged: onChanged}
}

func (s *ObservedSelectable) IsSelected() bool {
	return s.selected
}

func (s *ObservedSelectable) SetSelected(selected bool) {
	if s.selected == selected {
		return
	}
	s.selected = selected
	if s.onChanged != nil {
		s.onChanged(s)
	}
}

func (s *ObservedSelectable) Invert() {
	s.SetSelected(!s.selected)
}

// BasicSelectable is a plain flag, used for manipulator handles.
type BasicSelectable struct {
	selected bool
}

func (s *BasicSelectable) IsSelected() bool {
	return s.selected
}

func (s *BasicSelectable) SetSelected(selected bool) {
	s.selected = selected
}
