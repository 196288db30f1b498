package chart

// Arrangement is the user-selected panel arrangement
type Arrangement string

const (
	ArrangementStacked    Arrangement = "stack"
	ArrangementSideBySide Arrangement = "side"
)

// Layout is the container class for each of the three chart panels.
type Layout struct {
	Arrangement Arrangement       `json:"arrangement"`
	Panels      map[string]string `json:"panels"`
}

// ClassFor returns the container class of a panel.
func (l Layout) ClassFor(panelID string) string {
	return l.Panels[panelID]
}

// PanelIDs lists the chart containers in page order.
func PanelIDs() []string {
	return []string{PanelScatter, PanelOutcomeBars, PanelRiskFactorBar}
}
