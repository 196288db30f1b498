package app

import (
	"dialysisdash/domain/chart"
	"dialysisdash/internal/errors"
)

// Container classes used by the page grid
const (
	ClassFullRow      = "row"
	ClassThirdColumns = "four columns"
)

// SelectLayout maps an arrangement to the container class of every chart
// panel: stacked full-width rows, or three equal columns side by side.
func SelectLayout(arrangement chart.Arrangement) (chart.Layout, error) {
	var class string
	switch arrangement {
	case chart.ArrangementStacked:
		class = ClassFullRow
	case chart.ArrangementSideBySide:
		class = ClassThirdColumns
	default:
		return chart.Layout{}, errors.InvalidInput("unknown arrangement " + string(arrangement))
	}

	panels := make(map[string]string, 3)
	for _, id := range chart.PanelIDs() {
		panels[id] = class
	}
	return chart.Layout{Arrangement: arrangement, Panels: panels}, nil
}
