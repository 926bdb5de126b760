package pages

import (
	"fmt"

	"github.com/homewatch/dashboard/internal/model"
	c "github.com/homewatch/dashboard/internal/ui/components"
)

var modelLabels = map[string]string{
	model.DoorbellModelA: "Model A",
	model.DoorbellModelB: "Model B",
	model.DoorbellModelC: "Model C",
}

func modelOptions() []c.SelectOption {
	options := make([]c.SelectOption, 0, len(model.DoorbellModels))
	for _, m := range model.DoorbellModels {
		options = append(options, c.SelectOption{Value: m, Label: modelLabels[m]})
	}
	return options
}

func summaryLine(view *model.Dashboard) string {
	return fmt.Sprintf("%d doorbells, %d unknown visitors today", len(view.Doorbells), view.UnknownVisitors())
}

func feedWhere(e *model.VisitorEvent) string {
	return fmt.Sprintf("%s  %s", e.At.Format("15:04"), e.Camera)
}

func feedWho(e *model.VisitorEvent) string {
	return fmt.Sprintf("%s (%d%%)", e.Visitor, e.Confidence)
}

func visitorClass(e *model.VisitorEvent) string {
	if e.Status == model.VisitorUnknown {
		return "text-red-600"
	}
	return "text-green-600"
}

func doorbellLine(d *model.Doorbell) string {
	return fmt.Sprintf("%s, %s (%s)", d.Name, d.Location, d.Model)
}

func memberName(m *model.Member) string {
	if m.Name == nil {
		return ""
	}
	return *m.Name
}

func memberRole(roster *model.Roster, m *model.Member) string {
	if roster.IsCreator(m.ID) {
		return "Creator"
	}
	return "Member"
}
