// Package domain contains the conversation qualification rules: the project
// brief, buying-intent detection, lead scoring and the conversation status
// machine. It has no dependencies outside the standard library so the rules
// can be tested in isolation.
package domain

import "strings"

// Brief is the structured project brief extracted from the conversation.
// Fields mirror what the completion provider is asked to fill in.
type Brief struct {
	SiteType     string   `json:"site_type,omitempty"`
	Goal         string   `json:"goal,omitempty"`
	Sections     []string `json:"sections,omitempty"`
	References   string   `json:"references,omitempty"`
	Contents     string   `json:"contents,omitempty"`
	Languages    string   `json:"languages,omitempty"`
	Integrations string   `json:"integrations,omitempty"`
	Timeline     string   `json:"timeline,omitempty"`
	Budget       string   `json:"budget,omitempty"`
}

// MergeBrief overlays the incoming brief on the current one. A non-empty
// incoming field wins; empty incoming fields leave the current value intact,
// so information gathered in earlier turns is never lost.
func MergeBrief(current, incoming Brief) Brief {
	merged := current
	if incoming.SiteType != "" {
		merged.SiteType = incoming.SiteType
	}
	if incoming.Goal != "" {
		merged.Goal = incoming.Goal
	}
	if len(incoming.Sections) > 0 {
		merged.Sections = incoming.Sections
	}
	if incoming.References != "" {
		merged.References = incoming.References
	}
	if incoming.Contents != "" {
		merged.Contents = incoming.Contents
	}
	if incoming.Languages != "" {
		merged.Languages = incoming.Languages
	}
	if incoming.Integrations != "" {
		merged.Integrations = incoming.Integrations
	}
	if incoming.Timeline != "" {
		merged.Timeline = incoming.Timeline
	}
	if incoming.Budget != "" {
		merged.Budget = incoming.Budget
	}
	return merged
}

// Ready reports whether the brief has the minimum fields to hand off to the
// studio: a site type, a goal and at least one section.
func (b Brief) Ready() bool {
	return b.SiteType != "" && b.Goal != "" && len(b.Sections) > 0
}

const undefined = "sin definir"

func orUndefined(s string) string {
	if strings.TrimSpace(s) == "" {
		return undefined
	}
	return s
}

// SummaryLines renders the brief as human-readable lines for owner
// notifications. Missing fields show as "sin definir".
func (b Brief) SummaryLines() []string {
	sections := undefined
	if len(b.Sections) > 0 {
		sections = strings.Join(b.Sections, ", ")
	}
	return []string{
		"Tipo de web: " + orUndefined(b.SiteType),
		"Objetivo: " + orUndefined(b.Goal),
		"Secciones: " + sections,
		"Plazo: " + orUndefined(b.Timeline),
		"Presupuesto: " + orUndefined(b.Budget),
	}
}

// WhatsAppSummary renders the brief as a bulleted WhatsApp message body.
func (b Brief) WhatsAppSummary() string {
	var sb strings.Builder
	sb.WriteString("Resumen del briefing:\n")
	for _, line := range b.SummaryLines() {
		sb.WriteString("- ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
